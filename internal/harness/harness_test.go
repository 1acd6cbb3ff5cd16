package harness

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/schema"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/testutil"
)

func loadScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata/scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestScenarios_Golden(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)

	for _, path := range paths {
		s, err := LoadScenario(path)
		require.NoError(t, err)

		t.Run(s.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
		})
	}
}

func TestRun_Deterministic(t *testing.T) {
	s := loadScenario(t, "base64_json_body")

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, first.Record.ID, second.Record.ID)
	assert.Equal(t, testutil.Epoch, first.Record.RecordedAt)
	assert.Equal(t, "test-session-default", first.Record.Session)
	assert.Equal(t, int64(1), first.Record.Seq)
}

func TestRun_ExpectationFailure(t *testing.T) {
	s := loadScenario(t, "simple_object")
	s.Expect.DecodedValueHash = "0000"

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "decodedValueHash")
}

func TestRun_ReplayFailure(t *testing.T) {
	s := loadScenario(t, "value_drift")
	match := true
	s.Replay.Expect.ValueMatch = &match

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors, "valueMatch: got false, want true")
}

func TestRun_SchemaDrift(t *testing.T) {
	result, err := Run(loadScenario(t, "schema_drift"))
	require.NoError(t, err)
	require.NotNil(t, result.Comparison)

	assert.Equal(t, []schema.Difference{
		{Path: "$.age", Change: schema.TypeChanged, Recorded: "NUMBER", Replayed: "STRING"},
		{Path: "$.extra", Change: schema.Added, Replayed: "BOOLEAN"},
	}, result.Comparison.Differences)
}

func TestRun_LogsDecodeFailure(t *testing.T) {
	recorder, logger := testutil.NewLogRecorder()

	result, err := Run(loadScenario(t, "decode_failure"), WithLogger(logger))
	require.NoError(t, err)
	assert.True(t, result.Pass)

	warns := recorder.Level(slog.LevelWarn)
	require.Len(t, warns, 1)
	assert.Equal(t, "decode failed, treating field as string", warns[0].Message)
}

func TestRun_CustomSession(t *testing.T) {
	s := loadScenario(t, "simple_object")
	s.Session = "session-42"

	result, err := Run(s)
	require.NoError(t, err)
	assert.Equal(t, "session-42", result.Record.Session)
}
