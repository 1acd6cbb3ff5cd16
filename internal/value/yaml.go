package value

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrExcessiveAliasing is returned when alias expansion would grow a YAML
// document far beyond its source size.
var ErrExcessiveAliasing = errors.New("yaml: document contains excessive aliasing")

const (
	// yamlExpansionFactor is the number of converted nodes allowed per node
	// in the source document.
	yamlExpansionFactor = 64
	minYAMLBudget       = 10_000
)

// ParseYAML decodes a single YAML document into a Value. An empty document
// is Null. Anchors and aliases are resolved; an alias that refers back to
// its own ancestor is reported as a cycle.
func ParseYAML(data []byte) (Value, error) {
	return ParseYAMLDepth(data, DefaultMaxDepth)
}

// ParseYAMLDepth is ParseYAML with an explicit depth limit.
func ParseYAMLDepth(data []byte, maxDepth int) (Value, error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Null{}, nil
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return FromYAMLNodeDepth(&doc, maxDepth)
}

// FromYAMLNode converts a decoded yaml.Node into a Value.
func FromYAMLNode(n *yaml.Node) (Value, error) {
	return FromYAMLNodeDepth(n, DefaultMaxDepth)
}

// FromYAMLNodeDepth is FromYAMLNode with an explicit depth limit. Alias
// expansion is bounded by the size of the source document and fails with
// ErrExcessiveAliasing past that bound.
func FromYAMLNodeDepth(n *yaml.Node, maxDepth int) (Value, error) {
	c := &yamlConverter{
		tracker: NewTracker(maxDepth),
		budget:  max(minYAMLBudget, yamlExpansionFactor*countYAMLNodes(n)),
	}
	return c.convert(n, Root)
}

type yamlConverter struct {
	tracker *Tracker
	budget  int
}

// countYAMLNodes counts the nodes of the source tree without following
// aliases.
func countYAMLNodes(root *yaml.Node) int {
	count := 0
	stack := []*yaml.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}
		count++
		stack = append(stack, n.Content...)
	}
	return count
}

func (c *yamlConverter) convert(n *yaml.Node, path Path) (Value, error) {
	if n == nil {
		return Null{}, nil
	}
	if c.budget--; c.budget < 0 {
		return nil, fmt.Errorf("%w at %s", ErrExcessiveAliasing, path)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null{}, nil
		}
		return c.convert(n.Content[0], path)

	case yaml.AliasNode:
		return c.convert(n.Alias, path)

	case yaml.SequenceNode:
		tok, err := c.tracker.Enter(n, path)
		if err != nil {
			return nil, err
		}
		defer c.tracker.Leave(tok)

		out := make(Array, len(n.Content))
		for i, elem := range n.Content {
			v, err := c.convert(elem, path.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case yaml.MappingNode:
		tok, err := c.tracker.Enter(n, path)
		if err != nil {
			return nil, err
		}
		defer c.tracker.Leave(tok)

		out := make(Object, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, vn := n.Content[i], n.Content[i+1]
			if k.Tag == "!!merge" {
				if err := c.merge(out, vn, path); err != nil {
					return nil, err
				}
				continue
			}
			v, err := c.convert(vn, path.Key(k.Value))
			if err != nil {
				return nil, err
			}
			out[k.Value] = v
		}
		return out, nil

	case yaml.ScalarNode:
		return yamlScalar(n)
	}
	return nil, fmt.Errorf("unsupported yaml node kind %d at %s", n.Kind, path)
}

// merge applies a "<<" merge key; explicit keys take precedence.
func (c *yamlConverter) merge(out Object, n *yaml.Node, path Path) error {
	v, err := c.convert(n, path)
	if err != nil {
		return err
	}
	var sources []Value
	switch mv := v.(type) {
	case Object:
		sources = []Value{mv}
	case Array:
		sources = mv
	default:
		return fmt.Errorf("invalid merge value at %s", path)
	}
	for _, src := range sources {
		obj, ok := src.(Object)
		if !ok {
			return fmt.Errorf("invalid merge value at %s", path)
		}
		for k, val := range obj {
			if _, exists := out[k]; !exists {
				out[k] = val
			}
		}
	}
	return nil
}

func yamlScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return Int(i), nil
		}
		// Out of int64 range: keep the exact digits when they are plain decimal.
		if num, err := ParseNumber(strings.ReplaceAll(n.Value, "_", "")); err == nil {
			return num, nil
		}
		return String(n.Value), nil
	case "!!float":
		switch strings.ToLower(n.Value) {
		case ".nan":
			return Float(math.NaN()), nil
		case ".inf", "+.inf":
			return Float(math.Inf(1)), nil
		case "-.inf":
			return Float(math.Inf(-1)), nil
		}
		return ParseNumber(n.Value)
	case "!!timestamp":
		var ts time.Time
		if err := n.Decode(&ts); err != nil {
			return String(n.Value), nil
		}
		return NewTime(ts), nil
	case "!!binary":
		var s string
		if err := n.Decode(&s); err != nil {
			return nil, err
		}
		return Bytes(s), nil
	}
	return String(n.Value), nil
}
