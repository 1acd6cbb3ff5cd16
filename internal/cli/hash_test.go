package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_Text(t *testing.T) {
	out, err := execute(t, "hash", writeFile(t, "in.json", johnJSON))
	require.NoError(t, err)

	assert.Contains(t, out, "decodedValueHash:  "+johnValueHash)
	assert.Contains(t, out, "decodedSchemaHash: "+personSchema)
	assert.NotContains(t, out, "schema:\n", "schema listing is verbose only")
}

func TestHash_Verbose(t *testing.T) {
	out, err := execute(t, "--verbose", "hash", "--decode-field", "body", "--content-type", "application/json",
		writeFile(t, "span.json", spanJSON))
	require.NoError(t, err)

	assert.Contains(t, out, "schema:")
	assert.Contains(t, out, "$.body")
	assert.Contains(t, out, "OBJECT (BASE64/JSON)")
	assert.Contains(t, out, "$.body.user")
}

func TestHash_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "hash", writeFile(t, "in.json", johnJSON))
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp["status"])
	data := resp["data"].(map[string]any)
	assert.Equal(t, johnValueHash, data["decodedValueHash"])
	assert.Equal(t, personSchema, data["decodedSchemaHash"])
	assert.Equal(t, "OBJECT", data["schema"].(map[string]any)["type"])
	assert.NotContains(t, data, "diagnostics")
}

func TestHash_DecodeField(t *testing.T) {
	out, err := execute(t, "--format", "json", "hash",
		"--decode-field", "body", "--content-type", "application/json; charset=utf-8",
		writeFile(t, "span.json", spanJSON))
	require.NoError(t, err)

	data := decodeResponse(t, out)["data"].(map[string]any)
	assert.Equal(t, bodyValueHash, data["decodedValueHash"])
	assert.Equal(t, bodySchemaHash, data["decodedSchemaHash"])
}

func TestHash_MergesFile(t *testing.T) {
	merges := writeFile(t, "merges.cue", `body: {encoding: "BASE64", decodedType: "JSON"}`)
	out, err := execute(t, "hash", "--merges", merges, writeFile(t, "span.json", spanJSON))
	require.NoError(t, err)
	assert.Contains(t, out, bodyValueHash)
}

func TestHash_DecodeFailureWarns(t *testing.T) {
	out, err := execute(t, "hash", "--decode-field", "body", "--content-type", "application/json",
		writeFile(t, "span.json", `{"body": "bm90IGpzb24=", "status": 200}`))
	require.NoError(t, err, "decode failures never fail the command")
	assert.Contains(t, out, "warning: body (BASE64/JSON)")
}

func TestHash_Stdin(t *testing.T) {
	cmd := NewRootCommand()
	buf := &strings.Builder{}
	cmd.SetOut(buf)
	cmd.SetIn(strings.NewReader(johnJSON))
	cmd.SetArgs([]string{"hash", "-"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), johnValueHash)
}

func TestHash_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"hash", filepath.Join(t.TempDir(), "nope.json")}},
		{"invalid input", []string{"hash", "--input-format", "json", writeFile(t, "bad.json", "{")}},
		{"content type alone", []string{"hash", "--content-type", "text/csv", writeFile(t, "in.json", johnJSON)}},
		{"bad merges", []string{"hash", "--merges", writeFile(t, "m.cue", "x: {y: 1}"), writeFile(t, "in.json", johnJSON)}},
		{"too deep", []string{"hash", "--max-depth", "1", writeFile(t, "in.json", `{"a": {"b": 1}}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestHash_JSONError(t *testing.T) {
	out, err := execute(t, "--format", "json", "hash", filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, ErrCodeInvalidInput, resp["error"].(map[string]any)["code"])
}

func TestHash_MaxDepthReachesInput(t *testing.T) {
	deep := writeFile(t, "deep.json", strings.Repeat(`{"a":`, 600)+"1"+strings.Repeat("}", 600))

	_, err := execute(t, "hash", deep)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	out, err := execute(t, "hash", "--max-depth", "1000", deep)
	require.NoError(t, err)
	assert.Contains(t, out, "decodedSchemaHash:")
}
