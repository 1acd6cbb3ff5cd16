package schema

import (
	"log/slog"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/decode"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/value"
)

// Diagnostic records a recovered decode failure.
type Diagnostic struct {
	Field       string          `json:"field"`
	Encoding    decode.Encoding `json:"encoding"`
	DecodedType decode.Type     `json:"decodedType"`
	Message     string          `json:"message"`
}

// Output is the result of one Generate call.
type Output struct {
	// Schema describes the decoded tree.
	Schema *Node

	// Decoded is the input with every successfully directed root field
	// replaced by its decoded value. Failed fields keep their raw value.
	Decoded value.Value

	// Diagnostics lists recovered decode failures in field order.
	Diagnostics []Diagnostic
}

// Option configures a Generator.
type Option func(*Generator)

// WithPipeline sets the decode pipeline used for merge directives.
func WithPipeline(p *decode.Pipeline) Option {
	return func(g *Generator) {
		g.pipeline = p
	}
}

// WithLogger sets the logger that receives decode diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = l
	}
}

// WithMaxDepth bounds the nesting depth of generated schemas.
func WithMaxDepth(n int) Option {
	return func(g *Generator) {
		g.maxDepth = n
	}
}

// Generator builds schemas. It holds only immutable configuration and is
// safe for concurrent use.
type Generator struct {
	pipeline *decode.Pipeline
	logger   *slog.Logger
	maxDepth int
}

// NewGenerator creates a Generator. Defaults: a fresh decode.NewPipeline
// bounded by the generator's max depth, slog.Default and
// value.DefaultMaxDepth.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{maxDepth: value.DefaultMaxDepth}
	for _, opt := range opts {
		opt(g)
	}
	if g.pipeline == nil {
		g.pipeline = decode.NewPipeline(decode.WithMaxDepth(g.maxDepth))
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Generate builds the schema of v.
//
// When v is an OBJECT, each root property named in merges is first run
// through the decode pipeline; on success the property's node describes the
// decoded value, on failure it is a STRING leaf. Either way the node carries
// the directive's encoding and decoded type. Decode failures are logged at
// WARN and returned as diagnostics. Only *value.DepthExceededError aborts,
// whether it comes from the walk or from a decoder.
//
// Properties whose value is Undefined are omitted. Sequences are described
// by their first element.
func (g *Generator) Generate(v value.Value, merges Merges) (*Output, error) {
	t := value.NewTracker(g.maxDepth)

	root, isObject := v.(value.Object)
	if !isObject || len(merges) == 0 {
		n, err := g.node(v, t, value.Root)
		if err != nil {
			return nil, err
		}
		return &Output{Schema: n, Decoded: v}, nil
	}

	tok, err := t.Enter(root, value.Root)
	if err != nil {
		return nil, err
	}
	defer t.Leave(tok)

	out := &Output{}
	decoded := make(value.Object, len(root))
	props := make(map[string]*Node, len(root))
	for _, k := range root.SortedKeys() {
		raw := root[k]
		if _, undef := raw.(value.Undefined); undef {
			continue
		}
		path := value.Root.Key(k)

		d, directed := merges[k]
		if !directed {
			n, err := g.node(raw, t, path)
			if err != nil {
				return nil, err
			}
			props[k], decoded[k] = n, raw
			continue
		}

		dv, derr := g.pipeline.Decode(raw, d)
		if value.IsDepthExceeded(derr) {
			return nil, derr
		}
		if derr != nil {
			g.logger.Warn("decode failed, treating field as string",
				"field", k,
				"encoding", d.Encoding.String(),
				"decodedType", d.DecodedType.String(),
				"error", derr,
			)
			out.Diagnostics = append(out.Diagnostics, Diagnostic{
				Field:       k,
				Encoding:    d.Encoding,
				DecodedType: d.DecodedType,
				Message:     derr.Error(),
			})
			props[k] = &Node{Kind: value.KindString, Encoding: d.Encoding, DecodedType: d.DecodedType}
			decoded[k] = raw
			continue
		}

		n, err := g.node(dv, t, path)
		if err != nil {
			return nil, err
		}
		n.Encoding, n.DecodedType = d.Encoding, d.DecodedType
		props[k], decoded[k] = n, dv
	}

	out.Schema = ObjectNode(props)
	out.Decoded = decoded
	return out, nil
}

// node describes v. Merge directives never reach here.
func (g *Generator) node(v value.Value, t *value.Tracker, path value.Path) (*Node, error) {
	switch val := v.(type) {
	case nil:
		return Leaf(value.KindNull), nil

	case value.Object:
		tok, err := t.Enter(val, path)
		if err != nil {
			return nil, err
		}
		defer t.Leave(tok)

		props := make(map[string]*Node, len(val))
		for k, elem := range val {
			if _, undef := elem.(value.Undefined); undef {
				continue
			}
			n, err := g.node(elem, t, path.Key(k))
			if err != nil {
				return nil, err
			}
			props[k] = n
		}
		return ObjectNode(props), nil

	case value.Array:
		return g.list(val, value.KindOrderedList, []value.Value(val), t, path)

	case value.Set:
		return g.list(val, value.KindUnorderedList, []value.Value(val), t, path)
	}
	return Leaf(v.Kind()), nil
}

func (g *Generator) list(container value.Value, kind value.Kind, elems []value.Value, t *value.Tracker, path value.Path) (*Node, error) {
	tok, err := t.Enter(container, path)
	if err != nil {
		return nil, err
	}
	defer t.Leave(tok)

	n := &Node{Kind: kind}
	if len(elems) > 0 {
		items, err := g.node(elems[0], t, path.Items())
		if err != nil {
			return nil, err
		}
		n.Items = items
	}
	return n, nil
}
