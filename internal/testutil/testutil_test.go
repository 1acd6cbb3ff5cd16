package testutil

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepClock_StartsAtEpoch(t *testing.T) {
	clock := NewStepClock(0)

	assert.Equal(t, Epoch, clock.Now())
	assert.Equal(t, Epoch.Add(time.Second), clock.Now())
	assert.Equal(t, int64(2), clock.Calls())
}

func TestStepClock_Reset(t *testing.T) {
	clock := NewStepClock(time.Minute)
	clock.Now()
	clock.Now()

	clock.Reset()
	assert.Equal(t, Epoch, clock.Now())
}

func TestStepClock_ThreadSafe(t *testing.T) {
	clock := NewStepClock(time.Millisecond)
	const goroutines = 50

	var wg sync.WaitGroup
	seen := make(chan time.Time, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- clock.Now()
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[time.Time]bool)
	for ts := range seen {
		require.False(t, unique[ts], "duplicate time %s", ts)
		unique[ts] = true
	}
	assert.Len(t, unique, goroutines)
}

func TestFixedSessionGenerator(t *testing.T) {
	gen := NewFixedSessionGenerator("session-123")
	assert.Equal(t, "session-123", gen.Generate())
	assert.Equal(t, "session-123", gen.Generate())

	assert.Equal(t, "test-session-default", NewFixedSessionGenerator("").Generate())
}

func TestLogRecorder(t *testing.T) {
	rec, logger := NewLogRecorder()

	logger.With("component", "schema").Warn("decode failed", "field", "body")
	logger.Info("done")

	entries := rec.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "decode failed", entries[0].Message)
	assert.Equal(t, "schema", entries[0].Attrs["component"])
	assert.Equal(t, "body", entries[0].Attrs["field"])

	warns := rec.Level(slog.LevelWarn)
	require.Len(t, warns, 1)
	assert.Equal(t, slog.LevelWarn, warns[0].Level)
}

func TestBase64JSON(t *testing.T) {
	assert.Equal(t, "eyJtZXNzYWdlIjoiSGVsbG8gV29ybGQifQ==", Base64JSON(t, map[string]string{"message": "Hello World"}))
	assert.Equal(t, "aGk=", Base64("hi"))
}
