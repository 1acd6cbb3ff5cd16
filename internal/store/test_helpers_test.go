package store

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/fingerprint"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/testutil"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/value"
)

// createTestStore creates a fresh store with a deterministic clock.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithClock(testutil.NewStepClock(time.Second).Now))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestResult fingerprints a {name, age} person.
func createTestResult(t *testing.T, name string, age int64) *fingerprint.Result {
	t.Helper()
	e := fingerprint.New(fingerprint.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	res, err := e.GenerateSchemaAndHash(value.Object{
		"name": value.String(name),
		"age":  value.Int(age),
	}, nil)
	if err != nil {
		t.Fatalf("GenerateSchemaAndHash() failed: %v", err)
	}
	return res
}
