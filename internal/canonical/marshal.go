package canonical

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"slices"

	"golang.org/x/text/unicode/norm"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/value"
)

// Marshal produces RFC 8785 canonical JSON for v using the default depth
// limit. This is the ONLY serialization used for digests.
//
// Differences from a plain json.Marshal:
//  1. Object keys sorted by UTF-16 code units (not UTF-8 bytes)
//  2. No HTML escaping (< > & are NOT escaped), U+2028/U+2029 left literal
//  3. Strings and keys are NFC normalized
//  4. Integers keep every digit; other numbers use the ECMAScript form
//  5. Non-JSON kinds have one fixed textual form each:
//     Bytes as standard base64, Time as "2006-01-02T15:04:05.000Z" UTC,
//     Symbol as its name, Set as an array in member order
//  6. Func and Undefined are omitted as object properties and render as
//     null inside sequences and at the root
func Marshal(v value.Value) ([]byte, error) {
	return MarshalDepth(v, value.DefaultMaxDepth)
}

// MarshalDepth is Marshal with an explicit depth limit.
func MarshalDepth(v value.Value, maxDepth int) ([]byte, error) {
	e := &encoder{tracker: value.NewTracker(maxDepth)}
	if err := e.encode(v, value.Root); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

type encoder struct {
	buf     bytes.Buffer
	tracker *value.Tracker
}

func (e *encoder) encode(v value.Value, path value.Path) error {
	switch val := v.(type) {
	case nil, value.Null, value.Undefined, value.Func:
		e.buf.WriteString("null")
	case value.Bool:
		if val {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}
	case value.Number:
		e.buf.WriteString(val.String())
	case value.String:
		return e.encodeString(string(val))
	case value.Symbol:
		return e.encodeString(string(val))
	case value.Bytes:
		return e.encodeString(base64.StdEncoding.EncodeToString(val))
	case value.Time:
		return e.encodeString(val.Text())
	case value.Array:
		return e.encodeSeq(val, []value.Value(val), path)
	case value.Set:
		return e.encodeSeq(val, []value.Value(val), path)
	case value.Object:
		return e.encodeObject(val, path)
	default:
		return fmt.Errorf("unsupported value type for canonical JSON: %T", v)
	}
	return nil
}

func (e *encoder) encodeSeq(container value.Value, elems []value.Value, path value.Path) error {
	tok, err := e.tracker.Enter(container, path)
	if err != nil {
		return err
	}
	defer e.tracker.Leave(tok)

	e.buf.WriteByte('[')
	for i, elem := range elems {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		if err := e.encode(elem, path.Index(i)); err != nil {
			return err
		}
	}
	e.buf.WriteByte(']')
	return nil
}

func (e *encoder) encodeObject(obj value.Object, path value.Path) error {
	tok, err := e.tracker.Enter(obj, path)
	if err != nil {
		return err
	}
	defer e.tracker.Leave(tok)

	// Keys are normalized before sorting so that NFC and NFD spellings of the
	// same object encode identically. Distinct raw keys that normalize to the
	// same text are both kept, ordered by their raw spelling.
	type entry struct {
		norm, raw string
		elem      value.Value
	}
	entries := make([]entry, 0, len(obj))
	for k, elem := range obj {
		switch elem.(type) {
		case value.Undefined, value.Func:
			continue
		}
		entries = append(entries, entry{norm: norm.NFC.String(k), raw: k, elem: elem})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		if c := value.CompareKeys(a.norm, b.norm); c != 0 {
			return c
		}
		return value.CompareKeys(a.raw, b.raw)
	})

	e.buf.WriteByte('{')
	for i, en := range entries {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		if err := e.encodeString(en.norm); err != nil {
			return fmt.Errorf("key %q: %w", en.raw, err)
		}
		e.buf.WriteByte(':')
		if err := e.encode(en.elem, path.Key(en.raw)); err != nil {
			return err
		}
	}
	e.buf.WriteByte('}')
	return nil
}

func (e *encoder) encodeString(s string) error {
	b, err := marshalString(s)
	if err != nil {
		return err
	}
	e.buf.Write(b)
	return nil
}

// marshalString produces a canonical JSON string with NFC normalization.
// Only control characters (U+0000-U+001F), backslash and quote are escaped.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return nil, err
	}
	// json.Encoder adds a trailing newline.
	out := bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})
	return unescapeLineSeparators(out), nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes emitted by
// encoding/json back into literal characters, leaving an escaped backslash
// followed by "u2028" untouched.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		if data[i+1] == 'u' && i+6 <= len(data) && string(data[i+2:i+5]) == "202" {
			switch data[i+5] {
			case '8':
				out = append(out, "\u2028"...)
				i += 5
				continue
			case '9':
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		// Any other escape: copy both bytes so an escaped backslash is never
		// mistaken for the start of a new escape.
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}
