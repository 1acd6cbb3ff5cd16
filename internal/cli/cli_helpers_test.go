package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

const (
	johnValueHash  = "28e8f8b34daa951c925dd5e3df53230fbfc035fdbd498b914fc5bb75cbc7052b"
	personSchema   = "e46e395de326372e29334d6fc817a363b9133fa252e3d6083d3b9cb9d214e2eb"
	bodyValueHash  = "2d9d718224d2ee09bae4ff5ecdcdfa245641c472b796ac1f2afbd4e27505aa3a"
	bodySchemaHash = "a7fb0784a79cb1a6a17e38de364b3c6dc9495e1edb49340e2c7cec857938c6b8"

	johnJSON = `{"name": "John", "age": 30}`
	janeJSON = `{"name": "Jane", "age": 31}`
	spanJSON = `{"body": "eyJ1c2VyIjoieCJ9", "status": 200}`
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// writeFile writes content under a fresh temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// decodeResponse parses a JSON CLI response.
func decodeResponse(t *testing.T, out string) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	return resp
}
