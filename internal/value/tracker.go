package value

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

// DefaultMaxDepth bounds recursion over untrusted input.
const DefaultMaxDepth = 512

// DepthExceededError is returned when a walk nests deeper than its limit or
// re-enters a container that is already on the active path (a cycle).
// It is fatal for the call that produced it.
type DepthExceededError struct {
	// Limit is the configured maximum depth.
	Limit int

	// Path locates the offending position, e.g. "$.body.items[3]".
	Path string

	// Cyclic is true when a container refers back to one of its ancestors.
	Cyclic bool
}

// Error implements the error interface.
func (e *DepthExceededError) Error() string {
	if e.Cyclic {
		return fmt.Sprintf("cyclic structure at %s", e.Path)
	}
	return fmt.Sprintf("nesting exceeds max depth %d at %s", e.Limit, e.Path)
}

// IsDepthExceeded reports whether err is (or wraps) a DepthExceededError.
func IsDepthExceeded(err error) bool {
	var de *DepthExceededError
	return errors.As(err, &de)
}

// Path is a JSON-path-like location used in diagnostics.
type Path string

// Root is the path of the top-level value.
const Root Path = "$"

// Key returns the path of an object property.
func (p Path) Key(k string) Path {
	return p + Path("."+k)
}

// Index returns the path of a sequence element.
func (p Path) Index(i int) Path {
	return p + Path("["+strconv.Itoa(i)+"]")
}

// Items returns the path of a sequence's representative element.
func (p Path) Items() Path {
	return p + "[]"
}

// Tracker bounds a recursive walk. Call Enter before descending into a value
// and Leave (with the same identity) after returning from it.
//
// A Tracker is not safe for concurrent use; each walk owns its own.
type Tracker struct {
	max    int
	depth  int
	active map[Token]struct{}
}

// Token identifies one Enter call; pass it back to Leave.
type Token struct {
	ptr uintptr
	n   int
}

// NewTracker creates a Tracker. A non-positive max selects DefaultMaxDepth.
func NewTracker(max int) *Tracker {
	if max <= 0 {
		max = DefaultMaxDepth
	}
	return &Tracker{max: max, active: make(map[Token]struct{})}
}

// Limit returns the configured maximum depth.
func (t *Tracker) Limit() int {
	return t.max
}

// Enter records a descent into x at path. x may be a Value or any Go value;
// maps, slices and pointers are tracked by identity to detect cycles.
// The returned token must be passed to Leave.
func (t *Tracker) Enter(x any, path Path) (Token, error) {
	if t.depth >= t.max {
		return Token{}, &DepthExceededError{Limit: t.max, Path: string(path)}
	}
	tok := identity(x)
	if tok.ptr != 0 {
		if _, seen := t.active[tok]; seen {
			return Token{}, &DepthExceededError{Limit: t.max, Path: string(path), Cyclic: true}
		}
		t.active[tok] = struct{}{}
	}
	t.depth++
	return tok, nil
}

// Leave undoes the matching Enter.
func (t *Tracker) Leave(tok Token) {
	t.depth--
	if tok.ptr != 0 {
		delete(t.active, tok)
	}
}

// identity returns the address of a reference-typed container (plus length
// for slices, so a sub-slice is not mistaken for its parent), or the zero
// Token for values that cannot participate in a cycle.
func identity(x any) Token {
	if x == nil {
		return Token{}
	}
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Map, reflect.Pointer:
		if rv.IsNil() {
			return Token{}
		}
		return Token{ptr: rv.Pointer()}
	case reflect.Slice:
		// Empty slices hold no elements and cannot close a cycle.
		if rv.Len() == 0 {
			return Token{}
		}
		return Token{ptr: rv.Pointer(), n: rv.Len()}
	}
	return Token{}
}
