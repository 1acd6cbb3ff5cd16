package schema

import (
	"cmp"
	"slices"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/value"
)

// ChangeKind classifies a Difference.
type ChangeKind string

const (
	// Added marks a position present only in the replayed schema.
	Added ChangeKind = "ADDED"
	// Removed marks a position present only in the recorded schema.
	Removed ChangeKind = "REMOVED"
	// TypeChanged marks a position whose kind differs. Children of such a
	// position are not compared.
	TypeChanged ChangeKind = "TYPE_CHANGED"
	// EncodingChanged marks a position whose encoding or decoded type differs.
	EncodingChanged ChangeKind = "ENCODING_CHANGED"
)

// Difference is one structural change between two schemas.
type Difference struct {
	Path     string     `json:"path"`
	Change   ChangeKind `json:"change"`
	Recorded string     `json:"recorded,omitempty"`
	Replayed string     `json:"replayed,omitempty"`
}

// Diff lists the structural differences from recorded to replayed, sorted
// by path. It reports drift; deciding whether drift is acceptable is up to
// the caller.
func Diff(recorded, replayed *Node) []Difference {
	var out []Difference
	diffNode(recorded, replayed, value.Root, &out)
	slices.SortStableFunc(out, func(a, b Difference) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return out
}

func diffNode(a, b *Node, path value.Path, out *[]Difference) {
	switch {
	case a == nil && b == nil:
		return
	case a == nil:
		*out = append(*out, Difference{Path: string(path), Change: Added, Replayed: describe(b)})
		return
	case b == nil:
		*out = append(*out, Difference{Path: string(path), Change: Removed, Recorded: describe(a)})
		return
	}

	if a.Kind != b.Kind {
		*out = append(*out, Difference{Path: string(path), Change: TypeChanged, Recorded: describe(a), Replayed: describe(b)})
		return
	}
	if a.Encoding != b.Encoding || a.DecodedType != b.DecodedType {
		*out = append(*out, Difference{Path: string(path), Change: EncodingChanged, Recorded: describe(a), Replayed: describe(b)})
	}

	keys := make(map[string]struct{}, len(a.Properties)+len(b.Properties))
	for k := range a.Properties {
		keys[k] = struct{}{}
	}
	for k := range b.Properties {
		keys[k] = struct{}{}
	}
	for k := range keys {
		diffNode(a.Properties[k], b.Properties[k], path.Key(k), out)
	}

	diffNode(a.Items, b.Items, path.Items(), out)
}

func describe(n *Node) string {
	s := n.Kind.String()
	if n.Annotated() {
		s += " (" + n.Encoding.String() + "/" + n.DecodedType.String() + ")"
	}
	return s
}
