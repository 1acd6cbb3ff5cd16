package schema

import (
	"fmt"
	"slices"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/decode"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/value"
)

// Node describes the shape of one position in a value tree.
//
// Representation is fixed:
//   - OBJECT nodes always carry Properties (possibly empty)
//   - leaf nodes never carry Properties
//   - empty collections have no Items
//   - Encoding and DecodedType are omitted when UNSPECIFIED
//
// UnmarshalJSON and UnmarshalYAML also accept the older variant (leaf
// "properties": {} and "items": null) and normalize it.
type Node struct {
	Kind        value.Kind
	Properties  map[string]*Node
	Items       *Node
	Encoding    decode.Encoding
	DecodedType decode.Type
}

// Leaf returns a node of kind k with no children.
func Leaf(k value.Kind) *Node {
	return &Node{Kind: k}
}

// ObjectNode returns an OBJECT node with the given properties.
func ObjectNode(props map[string]*Node) *Node {
	if props == nil {
		props = map[string]*Node{}
	}
	return &Node{Kind: value.KindObject, Properties: props}
}

// ListNode returns an ORDERED_LIST node; items may be nil for an empty list.
func ListNode(items *Node) *Node {
	return &Node{Kind: value.KindOrderedList, Items: items}
}

// Annotated reports whether the node was produced through a merge directive.
func (n *Node) Annotated() bool {
	return n.Encoding != decode.EncodingUnspecified || n.DecodedType != decode.TypeUnspecified
}

// Value converts the tree to a Value for hashing. Enumerations are encoded
// by ordinal, matching the numeric form recorded traces carry.
func (n *Node) Value() value.Value {
	if n == nil {
		return value.Null{}
	}
	out := value.Object{"type": value.Int(int64(n.Kind))}
	if n.Kind == value.KindObject {
		props := make(value.Object, len(n.Properties))
		for k, p := range n.Properties {
			props[k] = p.Value()
		}
		out["properties"] = props
	}
	if n.Items != nil {
		out["items"] = n.Items.Value()
	}
	if n.Encoding != decode.EncodingUnspecified {
		out["encoding"] = value.Int(int64(n.Encoding))
	}
	if n.DecodedType != decode.TypeUnspecified {
		out["decodedType"] = value.Int(int64(n.DecodedType))
	}
	return out
}

// Equal reports whether two trees describe the same shape.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind || n.Encoding != o.Encoding || n.DecodedType != o.DecodedType {
		return false
	}
	if len(n.Properties) != len(o.Properties) {
		return false
	}
	for k, p := range n.Properties {
		q, ok := o.Properties[k]
		if !ok || !p.Equal(q) {
			return false
		}
	}
	return n.Items.Equal(o.Items)
}

// PropertyNames returns the property names in canonical key order.
func (n *Node) PropertyNames() []string {
	names := make([]string, 0, len(n.Properties))
	for k := range n.Properties {
		names = append(names, k)
	}
	slices.SortFunc(names, value.CompareKeys)
	return names
}

type nodeWire struct {
	Type        value.Kind        `json:"type" yaml:"type"`
	Properties  *map[string]*Node `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items       *Node             `json:"items,omitempty" yaml:"items,omitempty"`
	Encoding    *decode.Encoding  `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	DecodedType *decode.Type      `json:"decodedType,omitempty" yaml:"decodedType,omitempty"`
}

func (n *Node) wire() nodeWire {
	w := nodeWire{Type: n.Kind, Items: n.Items}
	// Enum pointers: go-json emits zero TextMarshaler values despite omitempty.
	if n.Encoding != decode.EncodingUnspecified {
		enc := n.Encoding
		w.Encoding = &enc
	}
	if n.DecodedType != decode.TypeUnspecified {
		dt := n.DecodedType
		w.DecodedType = &dt
	}
	if n.Kind == value.KindObject {
		props := n.Properties
		if props == nil {
			props = map[string]*Node{}
		}
		w.Properties = &props
	}
	return w
}

func (n *Node) fromWire(w nodeWire) error {
	if !w.Type.Valid() {
		return fmt.Errorf("schema node: invalid type %s", w.Type)
	}
	*n = Node{Kind: w.Type, Items: w.Items}
	if w.Encoding != nil {
		n.Encoding = *w.Encoding
	}
	if w.DecodedType != nil {
		n.DecodedType = *w.DecodedType
	}
	var props map[string]*Node
	if w.Properties != nil {
		props = *w.Properties
	}
	if n.Kind == value.KindObject {
		if props == nil {
			props = map[string]*Node{}
		}
		n.Properties = props
		return nil
	}
	if len(props) > 0 {
		return fmt.Errorf("schema node: %s node has properties", n.Kind)
	}
	return nil
}

// MarshalJSON renders the node with enumeration names.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.wire())
}

// UnmarshalJSON accepts either fixture variant and names or ordinals.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w nodeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	return n.fromWire(w)
}

// MarshalYAML renders the node like MarshalJSON.
func (n *Node) MarshalYAML() (any, error) {
	return n.wire(), nil
}

// UnmarshalYAML accepts either fixture variant and names or ordinals.
func (n *Node) UnmarshalYAML(node *yaml.Node) error {
	var w nodeWire
	if err := node.Decode(&w); err != nil {
		return err
	}
	return n.fromWire(w)
}
