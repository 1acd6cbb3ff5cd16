package value

import (
	"math/big"
	"reflect"
	"time"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	timeType   = reflect.TypeOf(time.Time{})
	bigIntType = reflect.TypeOf(big.Int{})
	bigFltType = reflect.TypeOf(big.Float{})
	bigRatType = reflect.TypeOf(big.Rat{})
)

// Classify maps an arbitrary Go runtime value to its Kind.
//
// Rules apply in priority order, first match wins:
//
//  1. Value implementations classify themselves (Undefined is only reachable this way)
//  2. nil, nil pointers/maps/slices/interfaces -> NULL
//  3. bool -> BOOLEAN
//  4. integers, floats, big numbers, json.Number, bson.Decimal128 -> NUMBER
//  5. strings -> STRING
//  6. funcs -> FUNCTION
//  7. time.Time, bson.DateTime -> STRING
//  8. byte slices/arrays, bson.Binary, bson.ObjectID -> STRING
//  9. bson.Symbol, bson.JavaScript -> STRING
//  10. other slices and arrays, bson.A -> ORDERED_LIST
//  11. map[K]struct{} -> UNORDERED_LIST
//  12. other maps, bson.D -> OBJECT
//  13. everything else structured -> OBJECT; opaque scalars (complex) -> STRING
//
// Classify never fails.
func Classify(x any) Kind {
	switch v := x.(type) {
	case nil:
		return KindNull
	case Value:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return KindNull
		}
		return v.Kind()
	case json.Number, bson.Decimal128:
		return KindNumber
	case bson.Null:
		return KindNull
	case bson.Undefined:
		return KindUndefined
	case bson.DateTime, bson.Binary, bson.ObjectID, bson.Symbol, bson.JavaScript:
		return KindString
	case bson.D, bson.M, bson.Regex, bson.Timestamp, bson.MinKey, bson.MaxKey,
		bson.DBPointer, bson.CodeWithScope:
		return KindObject
	case bson.A:
		return KindOrderedList
	}
	return classifyReflect(reflect.ValueOf(x))
}

func classifyReflect(rv reflect.Value) Kind {
	// Unwrap pointers and interfaces; a nil anywhere along the way is NULL.
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return KindNull
		}
		if rv.Kind() == reflect.Pointer {
			switch rv.Type().Elem() {
			case bigIntType, bigFltType, bigRatType:
				return KindNumber
			}
		}
		rv = rv.Elem()
		if rv.CanInterface() {
			if v, ok := rv.Interface().(Value); ok {
				return v.Kind()
			}
		}
	}

	switch rv.Kind() {
	case reflect.Bool:
		return KindBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64:
		return KindNumber
	case reflect.String:
		return KindString
	case reflect.Func:
		if rv.IsNil() {
			return KindNull
		}
		return KindFunction
	case reflect.Struct:
		switch rv.Type() {
		case timeType:
			return KindString
		case bigIntType, bigFltType, bigRatType:
			return KindNumber
		}
		return KindObject
	case reflect.Slice:
		if rv.IsNil() {
			return KindNull
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return KindString
		}
		return KindOrderedList
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return KindString
		}
		return KindOrderedList
	case reflect.Map:
		if rv.IsNil() {
			return KindNull
		}
		if isSetElem(rv.Type().Elem()) {
			return KindUnorderedList
		}
		return KindObject
	case reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return KindString
	}
	// Channels and anything else structured.
	return KindObject
}

// isSetElem reports whether a map with this element type is a set.
func isSetElem(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.NumField() == 0
}
