package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/decode"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/schema"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/value"
)

var bodyJSON = schema.Merges{"body": {Encoding: decode.EncodingBase64, DecodedType: decode.TypeJSON}}

func TestLoadMerges(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"cue", "merges.cue", `body: {encoding: "BASE64", decodedType: "JSON"}`},
		{"cue ordinals", "merges.cue", "body: {\n\tencoding: 1\n\tdecodedType: 1\n}"},
		{"json", "merges.json", `{"body": {"encoding": "ENCODING_TYPE_BASE64", "decodedType": "DECODED_TYPE_JSON"}}`},
		{"yaml", "merges.yaml", "body:\n  encoding: BASE64\n  decodedType: JSON\n"},
		{"yml", "merges.yml", "body: {encoding: 1, decodedType: JSON}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := LoadMerges(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, bodyJSON, m)
		})
	}
}

func TestLoadMerges_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"unknown extension", "merges.toml", "", "unsupported extension"},
		{"cue syntax", "merges.cue", "body: {", "compile"},
		{"cue unknown field", "merges.cue", `body: {encodng: "BASE64"}`, "validate"},
		{"cue non-concrete", "merges.cue", `body: {encoding: string}`, "validate"},
		{"cue unknown enum", "merges.cue", `body: {encoding: "HEX"}`, "decode"},
		{"yaml unknown field", "merges.yaml", "body: {encodng: BASE64}\n", "parse"},
		{"yaml unknown enum", "merges.yaml", "body: {decodedType: TOML}\n", "parse"},
		{"empty field name", "merges.json", `{"": {"encoding": "BASE64"}}`, "empty field name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMerges(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := LoadMerges(filepath.Join(t.TempDir(), "missing.cue"))
	assert.ErrorContains(t, err, "read merges file")
}

func TestLoadMerges_EmptyYAML(t *testing.T) {
	m, err := LoadMerges(writeFile(t, "merges.yaml", ""))
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestLoadInput(t *testing.T) {
	want := value.Object{"name": value.String("John"), "age": value.Int(30)}

	bsonData, err := bson.Marshal(bson.D{{Key: "name", Value: "John"}, {Key: "age", Value: int32(30)}})
	require.NoError(t, err)
	bsonPath := filepath.Join(t.TempDir(), "in.bson")
	require.NoError(t, os.WriteFile(bsonPath, bsonData, 0o644))

	tests := []struct {
		name   string
		path   string
		format string
	}{
		{"json by extension", writeFile(t, "in.json", johnJSON), InputAuto},
		{"yaml by extension", writeFile(t, "in.yaml", "name: John\nage: 30\n"), InputAuto},
		{"bson by extension", bsonPath, InputAuto},
		{"json sniffed", writeFile(t, "in.txt", johnJSON), InputAuto},
		{"yaml sniffed", writeFile(t, "in.txt", "name: John\nage: 30\n"), InputAuto},
		{"explicit yaml", writeFile(t, "in.data", "{name: John, age: 30}"), InputYAML},
		{"explicit bson", bsonPath, InputBSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := LoadInput(tt.path, tt.format, 0, nil)
			require.NoError(t, err)
			assert.True(t, value.Equal(want, v), "got %#v", v)
		})
	}
}

func TestLoadInput_Stdin(t *testing.T) {
	v, err := LoadInput("-", InputAuto, 0, strings.NewReader(johnJSON))
	require.NoError(t, err)
	assert.Equal(t, value.KindObject, v.Kind())
}

func TestLoadInput_Errors(t *testing.T) {
	_, err := LoadInput(filepath.Join(t.TempDir(), "nope.json"), InputAuto, 0, nil)
	assert.ErrorContains(t, err, "read input")

	_, err = LoadInput(writeFile(t, "bad.json", "{"), InputAuto, 0, nil)
	assert.Error(t, err)

	_, err = LoadInput(writeFile(t, "in.json", "{}"), "xml", 0, nil)
	assert.ErrorContains(t, err, "unknown input format")

	_, err = LoadInput("-", InputJSON, 0, bytes.NewReader([]byte(`{"a":1} trailing`)))
	assert.Error(t, err)
}

func TestLoadInput_MaxDepth(t *testing.T) {
	deep := strings.Repeat("[", 600) + strings.Repeat("]", 600)

	for _, format := range []string{InputJSON, InputYAML, InputAuto} {
		t.Run(format, func(t *testing.T) {
			path := writeFile(t, "deep.txt", deep)

			_, err := LoadInput(path, format, 0, nil)
			require.Error(t, err)
			assert.True(t, value.IsDepthExceeded(err))

			v, err := LoadInput(path, format, 1000, nil)
			require.NoError(t, err)
			assert.Equal(t, value.KindOrderedList, v.Kind())
		})
	}
}
