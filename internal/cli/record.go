package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/store"
)

// RecordOptions holds flags for the record command.
type RecordOptions struct {
	*RootOptions
	FingerprintOptions
	Database string
	Name     string
	Session  string

	// SessionGenerator allows overriding the session token generator (for
	// testing). If nil, defaults to UUIDv7Generator.
	SessionGenerator store.SessionGenerator
}

// RecordReport is the payload of the record command.
type RecordReport struct {
	Inserted bool `json:"inserted"`
	store.Record
}

// WriteText implements textWriter.
func (r RecordReport) WriteText(w io.Writer, verbose bool) error {
	verb := "recorded"
	if !r.Inserted {
		verb = "already recorded"
	}
	fmt.Fprintf(w, "%s %s seq %d in session %s\n", verb, r.Name, r.Seq, r.Session)
	fmt.Fprintf(w, "id: %s\n", r.ID)
	if verbose {
		fmt.Fprintf(w, "decodedValueHash:  %s\n", r.ValueHash)
		fmt.Fprintf(w, "decodedSchemaHash: %s\n", r.SchemaHash)
	}
	return nil
}

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "record <file>",
		Short: "Fingerprint a value and append it to the ledger",
		Long: `Fingerprint a recorded value and append it to a SQLite ledger under a
logical name (an endpoint, a call site). The merge directives are stored
with the fingerprint so that check can reuse them.

Examples:
  driftprint record --db ./drift.db --name "GET /users" response.json
  driftprint record --db ./drift.db --name login --session run-1 span.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(opts, args[0], cmd)
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite ledger (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "logical name of the recorded value (required)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session token (default: new UUIDv7)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runRecord(opts *RecordOptions, path string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	session, err := newFingerprintSession(&opts.FingerprintOptions, logger, cmd.InOrStdin())
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidMerges, "invalid merge directives", err)
	}
	res, err := session.file(path)
	if err != nil {
		return failFingerprint(f, err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	token := opts.Session
	if token == "" {
		gen := opts.SessionGenerator
		if gen == nil {
			gen = store.UUIDv7Generator{}
		}
		token = gen.Generate()
	}

	seq, err := st.NextSeq(ctx)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to allocate sequence number", err)
	}
	rec, inserted, err := st.WriteFingerprint(ctx, store.NewRecord(token, opts.Name, seq, res, session.merges))
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to write fingerprint", err)
	}
	logger.Debug("fingerprint recorded", "id", rec.ID, "name", rec.Name, "seq", rec.Seq, "session", rec.Session)

	return f.Success(RecordReport{Inserted: inserted, Record: rec})
}
