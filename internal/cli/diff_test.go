package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_Match(t *testing.T) {
	out, err := execute(t, "diff",
		writeFile(t, "a.json", johnJSON),
		writeFile(t, "b.yaml", "age: 30\nname: John\n"))
	require.NoError(t, err)

	assert.Contains(t, out, "value:    match")
	assert.Contains(t, out, "schema:   match")
}

func TestDiff_ValueDrift(t *testing.T) {
	a := writeFile(t, "a.json", johnJSON)
	b := writeFile(t, "b.json", janeJSON)

	out, err := execute(t, "diff", a, b)
	require.NoError(t, err, "value drift alone passes")
	assert.Contains(t, out, "value:    differs")
	assert.Contains(t, out, "schema:   match")

	_, err = execute(t, "diff", "--strict", a, b)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "value drift")
}

func TestDiff_SchemaDrift(t *testing.T) {
	out, err := execute(t, "diff",
		writeFile(t, "a.json", johnJSON),
		writeFile(t, "b.json", `{"name": "John", "age": "30", "extra": true}`))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "schema drift: 2 difference(s)")

	assert.Contains(t, out, "schema:   differs")
	assert.Contains(t, out, "TYPE_CHANGED")
	assert.Contains(t, out, "NUMBER -> STRING")
	assert.Contains(t, out, "$.extra")
}

func TestDiff_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "diff",
		writeFile(t, "a.json", johnJSON),
		writeFile(t, "b.json", `{"name": "John"}`))
	require.Error(t, err)

	data := decodeResponse(t, out)["data"].(map[string]any)
	assert.Equal(t, false, data["valueMatch"])
	assert.Equal(t, false, data["schemaMatch"])
	diffs := data["differences"].([]any)
	require.Len(t, diffs, 1)
	d := diffs[0].(map[string]any)
	assert.Equal(t, "$.age", d["path"])
	assert.Equal(t, "REMOVED", d["change"])
	assert.Equal(t, johnValueHash, data["recordedHashes"].(map[string]any)["decodedValueHash"])
}

func TestDiff_DecodedBodies(t *testing.T) {
	// Same JSON body, different base64 spellings.
	a := writeFile(t, "a.json", `{"body": "eyJ1c2VyIjoieCJ9"}`)
	b := writeFile(t, "b.json", `{"body": "eyAidXNlciI6ICJ4IiB9"}`)

	_, err := execute(t, "diff", "--strict", a, b)
	require.Error(t, err, "raw bodies differ without decoding")

	out, err := execute(t, "diff", "--strict", "--decode-field", "body", "--content-type", "application/json", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "value:    match")
}
