package value

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	got, err := ParseJSON([]byte(`{"id": 12345678901234567890, "price": 9.5, "ok": true, "tags": ["a"], "none": null}`))
	require.NoError(t, err)

	obj, ok := got.(Object)
	require.True(t, ok)

	id := obj["id"].(Number)
	assert.True(t, id.IsInteger())
	assert.Equal(t, "12345678901234567890", id.String())
	assert.Equal(t, "9.5", obj["price"].(Number).String())
	assert.Equal(t, Bool(true), obj["ok"])
	assert.True(t, Equal(Array{String("a")}, obj["tags"]))
	assert.Equal(t, KindNull, obj["none"].Kind())
}

func TestParseJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ``},
		{"truncated", `{"a": `},
		{"trailing value", `{"a": 1} {"b": 2}`},
		{"trailing garbage", `[1, 2] x`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.in))
			require.Error(t, err)
		})
	}
}

func TestParseJSONScalarRoot(t *testing.T) {
	got, err := ParseJSON([]byte(`  "plain"  `))
	require.NoError(t, err)
	assert.Equal(t, String("plain"), got)
}

func TestMarshalJSONDisplay(t *testing.T) {
	v := Object{
		"skip":  Undefined{},
		"fn":    Func{Name: "f"},
		"raw":   Bytes("hi"),
		"when":  NewTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		"nan":   Float(math.NaN()),
		"set":   Set{Int(1)},
		"label": Symbol("sym"),
	}

	b, err := MarshalJSON(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"fn": null,
		"raw": "aGk=",
		"when": "2024-01-01T00:00:00.000Z",
		"nan": null,
		"set": [1],
		"label": "sym"
	}`, string(b))
}

func TestParseJSONDepth(t *testing.T) {
	src := []byte(`{"a": {"b": [1]}}`)

	_, err := ParseJSONDepth(src, 3)
	require.NoError(t, err)

	_, err = ParseJSONDepth(src, 2)
	var de *DepthExceededError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 2, de.Limit)
	assert.False(t, de.Cyclic)
}
