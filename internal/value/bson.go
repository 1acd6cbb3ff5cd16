package value

import (
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ParseBSON decodes a raw BSON document (as returned by a document store)
// into a Value. Field order in the document is not significant.
func ParseBSON(data []byte) (Value, error) {
	return ParseBSONDepth(data, DefaultMaxDepth)
}

// ParseBSONDepth is ParseBSON with an explicit depth limit.
func ParseBSONDepth(data []byte, maxDepth int) (Value, error) {
	var doc bson.D
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse bson: %w", err)
	}
	return FromGoDepth(doc, maxDepth)
}

// FromBSON converts a decoded BSON value (bson.D, bson.M, bson.A or any
// primitive) into a Value.
func FromBSON(x any) (Value, error) {
	return FromGo(x)
}

// convertBSON handles the bson primitive types. The bool result reports
// whether x was a bson type.
func (c *converter) convertBSON(x any, path Path) (Value, bool, error) {
	switch v := x.(type) {
	case bson.D:
		tok, err := c.tracker.Enter(containerIdentity(reflect.ValueOf(v)), path)
		if err != nil {
			return nil, true, err
		}
		defer c.tracker.Leave(tok)
		out := make(Object, len(v))
		for _, e := range v {
			ev, err := c.convert(reflect.ValueOf(e.Value), path.Key(e.Key))
			if err != nil {
				return nil, true, err
			}
			out[e.Key] = ev
		}
		return out, true, nil
	case bson.ObjectID:
		return String(v.Hex()), true, nil
	case bson.DateTime:
		return NewTime(v.Time()), true, nil
	case bson.Decimal128:
		n, err := ParseNumber(v.String())
		if err != nil {
			// NaN and Infinity have no exact form.
			return String(v.String()), true, nil
		}
		return n, true, nil
	case bson.Binary:
		return Bytes(append([]byte(nil), v.Data...)), true, nil
	case bson.Regex:
		return Object{"pattern": String(v.Pattern), "options": String(v.Options)}, true, nil
	case bson.Timestamp:
		return Object{"t": Uint(uint64(v.T)), "i": Uint(uint64(v.I))}, true, nil
	case bson.Symbol:
		return Symbol(v), true, nil
	case bson.JavaScript:
		return String(v), true, nil
	case bson.CodeWithScope:
		scope, err := c.convert(reflect.ValueOf(v.Scope), path.Key("scope"))
		if err != nil {
			return nil, true, err
		}
		return Object{"code": String(v.Code), "scope": scope}, true, nil
	case bson.DBPointer:
		return Object{"db": String(v.DB), "pointer": String(v.Pointer.Hex())}, true, nil
	case bson.Null:
		return Null{}, true, nil
	case bson.Undefined:
		return Undefined{}, true, nil
	case bson.MinKey:
		return Object{"$minKey": Int(1)}, true, nil
	case bson.MaxKey:
		return Object{"$maxKey": Int(1)}, true, nil
	}
	return nil, false, nil
}
