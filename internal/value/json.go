package value

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// ParseJSON decodes JSON text into a Value. Numbers are kept as exact
// literals so that large integers survive, and trailing data after the
// first JSON value is rejected.
func ParseJSON(data []byte) (Value, error) {
	return ParseJSONDepth(data, DefaultMaxDepth)
}

// ParseJSONDepth is ParseJSON with an explicit depth limit.
func ParseJSONDepth(data []byte, maxDepth int) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("parse json: unexpected data after top-level value")
	}
	return FromGoDepth(raw, maxDepth)
}

// MarshalJSON renders a Value as display JSON.
//
// This is NOT the canonical encoding used for hashing (see package
// canonical); it exists for CLI output and debugging. Undefined and Func
// render as null, Bytes as base64 text.
func MarshalJSON(v Value) ([]byte, error) {
	return json.Marshal(toJSONAny(v))
}

func toJSONAny(v Value) any {
	switch val := v.(type) {
	case nil, Undefined, Null, Func:
		return nil
	case Bool:
		return bool(val)
	case String:
		return string(val)
	case Symbol:
		return string(val)
	case Number:
		if !val.IsFinite() {
			return nil
		}
		return json.Number(val.String())
	case Bytes:
		return base64.StdEncoding.EncodeToString(val)
	case Time:
		return val.Text()
	case Array:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = toJSONAny(e)
		}
		return out
	case Set:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = toJSONAny(e)
		}
		return out
	case Object:
		out := make(map[string]any, len(val))
		for k, e := range val {
			if _, skip := e.(Undefined); skip {
				continue
			}
			out[k] = toJSONAny(e)
		}
		return out
	}
	return nil
}
