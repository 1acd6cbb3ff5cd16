package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/fingerprint"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/store"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/testutil"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool

	// Errors lists failed expectations. Empty if Pass is true.
	Errors []string

	// Recorded is the fingerprint of the recorded input as read back from
	// the ledger, with diagnostics from the original run.
	Recorded *fingerprint.Result

	// Replayed and Comparison are nil without a replay.
	Replayed   *fingerprint.Result
	Comparison *fingerprint.Comparison

	// Record is the ledger entry written for the recorded input.
	Record store.Record
}

func (r *Result) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// Option configures a run.
type Option func(*runner)

// WithLogger sets the logger for decode diagnostics. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(r *runner) {
		r.logger = l
	}
}

type runner struct {
	logger *slog.Logger
}

// Run executes a scenario.
//
// Execution flow:
//  1. fingerprint the recorded input
//  2. write it to a fresh in-memory ledger and read it back
//  3. fingerprint the replayed input (if any) and compare
//  4. evaluate expectations
//
// Returns an error only when the scenario cannot be executed at all;
// failed expectations are reported in Result.Errors.
func Run(s *Scenario, opts ...Option) (*Result, error) {
	r := &runner{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(r)
	}
	ctx := context.Background()
	engine := fingerprint.New(fingerprint.WithLogger(r.logger))

	recordedValue, err := s.RecordedValue()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: input: %w", s.Name, err)
	}
	recorded, err := engine.GenerateSchemaAndHash(recordedValue, s.Merges)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: fingerprint input: %w", s.Name, err)
	}

	ledger, err := store.Open(":memory:", store.WithClock(testutil.NewStepClock(time.Second).Now))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	defer ledger.Close()

	session := testutil.NewFixedSessionGenerator(s.Session).Generate()
	seq, err := ledger.NextSeq(ctx)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	if _, _, err := ledger.WriteFingerprint(ctx, store.NewRecord(session, s.Name, seq, recorded, s.Merges)); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	rec, err := ledger.LatestByName(ctx, s.Name)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: read back: %w", s.Name, err)
	}

	result := &Result{Pass: true, Errors: []string{}, Record: rec}
	result.Recorded = rec.Result()
	result.Recorded.Diagnostics = recorded.Diagnostics
	result.Recorded.Decoded = recorded.Decoded

	if s.Replay != nil {
		replayedValue, err := s.ReplayedValue()
		if err != nil {
			return nil, fmt.Errorf("scenario %s: replay input: %w", s.Name, err)
		}
		result.Replayed, err = engine.GenerateSchemaAndHash(replayedValue, s.Merges)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: fingerprint replay: %w", s.Name, err)
		}
		c := fingerprint.Compare(result.Recorded, result.Replayed)
		result.Comparison = &c
	}

	checkExpectation(result, s.Expect)
	if s.Replay != nil {
		checkReplay(result, s.Replay.Expect)
	}
	return result, nil
}

func checkExpectation(r *Result, e *Expectation) {
	if e == nil {
		return
	}
	if e.DecodedValueHash != "" && e.DecodedValueHash != r.Recorded.DecodedValueHash {
		r.addError("decodedValueHash: got %s, want %s", r.Recorded.DecodedValueHash, e.DecodedValueHash)
	}
	if e.DecodedSchemaHash != "" && e.DecodedSchemaHash != r.Recorded.DecodedSchemaHash {
		r.addError("decodedSchemaHash: got %s, want %s", r.Recorded.DecodedSchemaHash, e.DecodedSchemaHash)
	}
	if e.Diagnostics != nil && *e.Diagnostics != len(r.Recorded.Diagnostics) {
		r.addError("diagnostics: got %d, want %d", len(r.Recorded.Diagnostics), *e.Diagnostics)
	}
}

func checkReplay(r *Result, e *ReplayExpectation) {
	c := r.Comparison
	if e.ValueMatch != nil && *e.ValueMatch != c.ValueMatch {
		r.addError("valueMatch: got %t, want %t", c.ValueMatch, *e.ValueMatch)
	}
	if e.SchemaMatch != nil && *e.SchemaMatch != c.SchemaMatch {
		r.addError("schemaMatch: got %t, want %t", c.SchemaMatch, *e.SchemaMatch)
	}
	if e.Differences != nil && *e.Differences != len(c.Differences) {
		r.addError("differences: got %d, want %d", len(c.Differences), *e.Differences)
	}
}
