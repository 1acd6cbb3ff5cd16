package value

import (
	"slices"
	"time"
	"unicode/utf16"
)

// Value is a sealed interface representing one dynamically-typed datum.
// Only the types in this file implement it.
type Value interface {
	// Kind classifies the value. It is total: every Value has exactly one Kind.
	Kind() Kind
	value() // Sealed
}

// Undefined represents an absent, never-assigned value.
// Object keys holding Undefined are dropped by canonicalization.
type Undefined struct{}

func (Undefined) value()     {}
func (Undefined) Kind() Kind { return KindUndefined }

// Null represents an explicit null.
type Null struct{}

func (Null) value()     {}
func (Null) Kind() Kind { return KindNull }

// Bool represents a boolean.
type Bool bool

func (Bool) value()     {}
func (Bool) Kind() Kind { return KindBoolean }

// String represents text.
type String string

func (String) value()     {}
func (String) Kind() Kind { return KindString }

// Array is an ordered, index-addressable sequence.
type Array []Value

func (Array) value()     {}
func (Array) Kind() Kind { return KindOrderedList }

// Set is an unordered collection of unique members.
// Members keep the order they were added in so that the representative
// element and the serialized form are deterministic; use NewSet to build one.
type Set []Value

func (Set) value()     {}
func (Set) Kind() Kind { return KindUnorderedList }

// Object is a string-keyed mapping. Key order is irrelevant; use
// SortedKeys for deterministic iteration.
type Object map[string]Value

func (Object) value()     {}
func (Object) Kind() Kind { return KindObject }

// Bytes is an opaque binary view. It classifies as STRING and serializes as
// standard base64 text.
type Bytes []byte

func (Bytes) value()     {}
func (Bytes) Kind() Kind { return KindString }

// Time is a temporal value. It classifies as STRING and serializes as an
// ISO-8601 UTC timestamp with millisecond precision.
type Time struct {
	time.Time
}

func (Time) value()     {}
func (Time) Kind() Kind { return KindString }

// TimeLayout is the canonical textual form of a Time.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Text returns the canonical textual form of t.
func (t Time) Text() string {
	return t.UTC().Format(TimeLayout)
}

// Symbol is a unique symbolic token with no string identity of its own.
// It classifies as STRING.
type Symbol string

func (Symbol) value()     {}
func (Symbol) Kind() Kind { return KindString }

// Func is a callable reference. Name is informational only and never part of
// a fingerprint.
type Func struct {
	Name string
}

func (Func) value()     {}
func (Func) Kind() Kind { return KindFunction }

// NewArray creates an Array from values.
func NewArray(vals ...Value) Array {
	return Array(vals)
}

// NewSet creates a Set from values, dropping members structurally equal to
// an earlier member.
func NewSet(vals ...Value) Set {
	set := make(Set, 0, len(vals))
	for _, v := range vals {
		if !slices.ContainsFunc(set, func(m Value) bool { return Equal(m, v) }) {
			set = append(set, v)
		}
	}
	return set
}

// NewTime wraps a time.Time.
func NewTime(t time.Time) Time {
	return Time{Time: t}
}

// Pair represents a key-value pair for Object construction.
type Pair struct {
	Key   string
	Value Value
}

// P is a shorthand for Pair.
// Example: NewObject(P("name", String("cart")), P("count", Int(5)))
func P(key string, v Value) Pair {
	return Pair{Key: key, Value: v}
}

// NewObject creates an Object from key-value pairs. Later pairs win.
func NewObject(pairs ...Pair) Object {
	obj := make(Object, len(pairs))
	for _, p := range pairs {
		obj[p.Key] = p.Value
	}
	return obj
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's sort.Strings compares UTF-8 bytes, which orders some keys differently.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, CompareKeys)
	return keys
}

// CompareKeys compares strings by UTF-16 code units as required by
// RFC 8785.
func CompareKeys(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	for i := 0; i < len(a16) && i < len(b16); i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}

// Equal reports whether a and b are structurally equal. Object key order is
// ignored; sequence order is not. Numbers compare by canonical text.
//
// Equal does not guard against cycles; callers comparing untrusted graphs
// should canonicalize first.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Undefined, Null:
		return a == b
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Symbol:
		y, ok := b.(Symbol)
		return ok && x == y
	case Func:
		_, ok := b.(Func)
		return ok
	case Number:
		y, ok := b.(Number)
		return ok && x.String() == y.String()
	case Time:
		y, ok := b.(Time)
		return ok && x.Text() == y.Text()
	case Bytes:
		y, ok := b.(Bytes)
		return ok && string(x) == string(y)
	case Array:
		y, ok := b.(Array)
		return ok && slices.EqualFunc(x, y, Equal)
	case Set:
		y, ok := b.(Set)
		return ok && slices.EqualFunc(x, y, Equal)
	case Object:
		y, ok := b.(Object)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	}
	return false
}
