package canonical

import (
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/value"
)

// Canonicalize returns a normalized deep copy of v using the default depth
// limit. See CanonicalizeDepth.
func Canonicalize(v value.Value) (value.Value, error) {
	return CanonicalizeDepth(v, value.DefaultMaxDepth)
}

// CanonicalizeDepth returns a deep copy of v in which every object property
// whose value is Undefined has been removed, at every nesting level and
// through sequence elements. Sequence element order is preserved. Key order
// is imposed at encoding time (see Marshal), since Object carries none.
//
// The input is never mutated. Cycles and nesting beyond maxDepth fail with
// *value.DepthExceededError.
func CanonicalizeDepth(v value.Value, maxDepth int) (value.Value, error) {
	return canonicalize(v, value.NewTracker(maxDepth), value.Root)
}

func canonicalize(v value.Value, t *value.Tracker, path value.Path) (value.Value, error) {
	switch val := v.(type) {
	case nil:
		return value.Null{}, nil

	case value.Object:
		tok, err := t.Enter(val, path)
		if err != nil {
			return nil, err
		}
		defer t.Leave(tok)

		out := make(value.Object, len(val))
		for k, elem := range val {
			if _, undef := elem.(value.Undefined); undef {
				continue
			}
			cv, err := canonicalize(elem, t, path.Key(k))
			if err != nil {
				return nil, err
			}
			out[k] = cv
		}
		return out, nil

	case value.Array:
		tok, err := t.Enter(val, path)
		if err != nil {
			return nil, err
		}
		defer t.Leave(tok)

		out := make(value.Array, len(val))
		for i, elem := range val {
			cv, err := canonicalize(elem, t, path.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		return out, nil

	case value.Set:
		tok, err := t.Enter(val, path)
		if err != nil {
			return nil, err
		}
		defer t.Leave(tok)

		out := make(value.Set, len(val))
		for i, elem := range val {
			cv, err := canonicalize(elem, t, path.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		return out, nil

	case value.Bytes:
		return append(value.Bytes(nil), val...), nil
	}

	// Remaining kinds are immutable scalars.
	return v, nil
}
