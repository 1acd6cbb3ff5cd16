package value

import (
	"encoding"
	"fmt"
	"math/big"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// FromGo converts an arbitrary Go value into a Value using the default
// depth limit. See FromGoDepth.
func FromGo(x any) (Value, error) {
	return FromGoDepth(x, DefaultMaxDepth)
}

// FromGoDepth converts an arbitrary Go value into a Value.
//
// Conversion follows Classify: every input maps to exactly one Kind.
// Structs become Objects of their exported fields (honoring `json` tag
// names, "-" and omitempty), maps with empty-struct elements become Sets
// (members sorted by canonical order since Go map iteration is random), and
// other maps become Objects keyed by fmt.Sprint of the key.
//
// The only error is *DepthExceededError, for cycles and nesting deeper than
// maxDepth.
func FromGoDepth(x any, maxDepth int) (Value, error) {
	c := &converter{tracker: NewTracker(maxDepth)}
	return c.convert(reflect.ValueOf(x), Root)
}

type converter struct {
	tracker *Tracker
}

func (c *converter) convert(rv reflect.Value, path Path) (Value, error) {
	if !rv.IsValid() {
		return Null{}, nil
	}

	// Values, bson primitives and well-known scalars are handled before reflection.
	if rv.CanInterface() {
		if v, ok, err := c.convertKnown(rv.Interface(), path); ok || err != nil {
			return v, err
		}
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		return c.convert(rv.Elem(), path)
	case reflect.Pointer:
		if rv.IsNil() {
			return Null{}, nil
		}
		tok, err := c.tracker.Enter(rv.Interface(), path)
		if err != nil {
			return nil, err
		}
		defer c.tracker.Leave(tok)
		return c.convert(rv.Elem(), path)

	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint()), nil
	case reflect.Float32:
		// Format via the 32-bit value so 0.1f stays "0.1" rather than its widened double.
		n, err := ParseNumber(fmt.Sprint(float32(rv.Float())))
		if err != nil {
			return Float(rv.Float()), nil
		}
		return n, nil
	case reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Func:
		if rv.IsNil() {
			return Null{}, nil
		}
		return Func{Name: rv.Type().String()}, nil
	case reflect.Complex64, reflect.Complex128:
		return String(fmt.Sprint(rv.Complex())), nil
	case reflect.UnsafePointer:
		return String(fmt.Sprintf("%#x", rv.Pointer())), nil

	case reflect.Slice:
		if rv.IsNil() {
			return Null{}, nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Bytes(slices.Clone(rv.Bytes())), nil
		}
		return c.convertSeq(rv, path)
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return Bytes(b), nil
		}
		return c.convertSeq(rv, path)

	case reflect.Map:
		if rv.IsNil() {
			return Null{}, nil
		}
		if isSetElem(rv.Type().Elem()) {
			return c.convertSet(rv, path)
		}
		return c.convertMap(rv, path)

	case reflect.Struct:
		return c.convertStruct(rv, path)
	}

	// Channels: structured but opaque.
	return Object{}, nil
}

// convertKnown handles types whose meaning is not their reflected shape.
func (c *converter) convertKnown(x any, path Path) (Value, bool, error) {
	switch v := x.(type) {
	case Value:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
			return nil, false, nil // let reflection deref
		}
		cv, err := c.convertValue(v, path)
		return cv, true, err
	case time.Time:
		return NewTime(v), true, nil
	case json.Number:
		n, err := ParseNumber(v.String())
		if err != nil {
			return String(v.String()), true, nil
		}
		return n, true, nil
	case *big.Int:
		if v == nil {
			return Null{}, true, nil
		}
		return BigInt(v), true, nil
	case *big.Float:
		if v == nil {
			return Null{}, true, nil
		}
		return bigFloatNumber(v), true, nil
	case big.Int:
		return BigInt(&v), true, nil
	case big.Float:
		return bigFloatNumber(&v), true, nil
	case *big.Rat:
		if v == nil {
			return Null{}, true, nil
		}
		if v.IsInt() {
			return BigInt(v.Num()), true, nil
		}
		f, _ := v.Float64()
		return Float(f), true, nil
	}
	if v, ok, err := c.convertBSON(x, path); ok || err != nil {
		return v, ok, err
	}
	return nil, false, nil
}

// convertValue re-walks a Value so that cycles and depth are checked and
// Object/Array containers nested inside Go structures are copied.
func (c *converter) convertValue(v Value, path Path) (Value, error) {
	switch val := v.(type) {
	case Array:
		tok, err := c.tracker.Enter(val, path)
		if err != nil {
			return nil, err
		}
		defer c.tracker.Leave(tok)
		out := make(Array, len(val))
		for i, elem := range val {
			cv, err := c.convertValue(elem, path.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		return out, nil
	case Set:
		tok, err := c.tracker.Enter(val, path)
		if err != nil {
			return nil, err
		}
		defer c.tracker.Leave(tok)
		out := make(Set, len(val))
		for i, elem := range val {
			cv, err := c.convertValue(elem, path.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		return out, nil
	case Object:
		tok, err := c.tracker.Enter(val, path)
		if err != nil {
			return nil, err
		}
		defer c.tracker.Leave(tok)
		out := make(Object, len(val))
		for k, elem := range val {
			cv, err := c.convertValue(elem, path.Key(k))
			if err != nil {
				return nil, err
			}
			out[k] = cv
		}
		return out, nil
	case nil:
		return Null{}, nil
	}
	return v, nil
}

func (c *converter) convertSeq(rv reflect.Value, path Path) (Value, error) {
	tok, err := c.tracker.Enter(containerIdentity(rv), path)
	if err != nil {
		return nil, err
	}
	defer c.tracker.Leave(tok)

	out := make(Array, rv.Len())
	for i, n := 0, rv.Len(); i < n; i++ {
		v, err := c.convert(rv.Index(i), path.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (c *converter) convertSet(rv reflect.Value, path Path) (Value, error) {
	tok, err := c.tracker.Enter(rv.Interface(), path)
	if err != nil {
		return nil, err
	}
	defer c.tracker.Leave(tok)

	members := make([]Value, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		v, err := c.convert(iter.Key(), path.Items())
		if err != nil {
			return nil, err
		}
		members = append(members, v)
	}
	slices.SortFunc(members, compareMembers)
	return NewSet(members...), nil
}

func (c *converter) convertMap(rv reflect.Value, path Path) (Value, error) {
	tok, err := c.tracker.Enter(rv.Interface(), path)
	if err != nil {
		return nil, err
	}
	defer c.tracker.Leave(tok)

	out := make(Object, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key := mapKey(iter.Key())
		v, err := c.convert(iter.Value(), path.Key(key))
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

func (c *converter) convertStruct(rv reflect.Value, path Path) (Value, error) {
	out := make(Object)
	rt := rv.Type()
	for i, n := 0, rt.NumField(); i < n; i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitEmpty, skip := jsonFieldName(field)
		if skip {
			continue
		}
		fv := rv.Field(i)
		if omitEmpty && fv.IsZero() {
			continue
		}
		if field.Anonymous && name == field.Name && indirectKind(fv) == reflect.Struct {
			// Promote embedded struct fields like encoding/json does.
			embedded, err := c.convert(fv, path)
			if err != nil {
				return nil, err
			}
			if obj, ok := embedded.(Object); ok {
				for k, v := range obj {
					if _, exists := out[k]; !exists {
						out[k] = v
					}
				}
				continue
			}
		}
		v, err := c.convert(fv, path.Key(name))
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// containerIdentity returns something the Tracker can identify a sequence by.
// Arrays are values and cannot form cycles on their own.
func containerIdentity(rv reflect.Value) any {
	if rv.Kind() == reflect.Slice {
		return rv.Interface()
	}
	return nil
}

func indirectKind(rv reflect.Value) reflect.Kind {
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Invalid
		}
		rv = rv.Elem()
	}
	return rv.Kind()
}

// jsonFieldName resolves a struct field's property name from its json tag.
func jsonFieldName(f reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	for _, opt := range strings.Split(opts, ",") {
		if opt == "omitempty" || opt == "omitzero" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

// mapKey renders a map key as an object property name.
func mapKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	if k.CanInterface() {
		if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
			if b, err := tm.MarshalText(); err == nil {
				return string(b)
			}
		}
		return fmt.Sprint(k.Interface())
	}
	return fmt.Sprint(k)
}

// compareMembers orders set members by kind and then by display text so that
// sets built from Go maps are deterministic.
func compareMembers(a, b Value) int {
	if a.Kind() != b.Kind() {
		return int(a.Kind()) - int(b.Kind())
	}
	return strings.Compare(memberText(a), memberText(b))
}

func memberText(v Value) string {
	switch val := v.(type) {
	case String:
		return string(val)
	case Number:
		return val.String()
	case Bool:
		if val {
			return "true"
		}
		return "false"
	case Time:
		return val.Text()
	case Symbol:
		return string(val)
	case Bytes:
		return string(val)
	}
	b, err := MarshalJSON(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func bigFloatNumber(f *big.Float) Number {
	if f.IsInt() {
		i, _ := f.Int(nil)
		return BigInt(i)
	}
	v, _ := f.Float64()
	return Float(v)
}
