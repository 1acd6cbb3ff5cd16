package testutil

import (
	"encoding/base64"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

// Base64JSON marshals v to JSON and base64-encodes it, the way recorded
// HTTP bodies are stored.
func Base64JSON(t testing.TB, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(b)
}

// Base64 encodes s with standard padding.
func Base64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}
