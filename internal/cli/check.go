package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/store"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	FingerprintOptions
	Database string
	Name     string
	Strict   bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Compare a value against its latest recorded fingerprint",
		Long: `Fingerprint a replayed value and compare it with the most recent
ledger record of the same name. The merge directives stored with that
record are used unless --merges or --decode-field is given.

Exit codes:
  0 - Schemas match (and values match, with --strict)
  1 - Schema drift, or value drift with --strict
  2 - Command error (no record for name, unreadable input, etc.)

Examples:
  driftprint check --db ./drift.db --name "GET /users" replayed.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite ledger (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "logical name to check against (required)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "treat value drift as failure")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runCheck(opts *CheckOptions, path string, cmd *cobra.Command) error {
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

	st, err := store.Open(opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	rec, err := st.LatestByName(ctx, opts.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("no recorded fingerprint named %q", opts.Name), nil)
	}
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to read ledger", err)
	}
	if session.merges == nil {
		session.merges = rec.Merges
	}
	logger.Debug("checking against ledger record", "id", rec.ID, "seq", rec.Seq, "session", rec.Session)

	replayed, err := session.file(path)
	if err != nil {
		return failFingerprint(f, err)
	}

	report := newCompareReport(fmt.Sprintf("%s@%d", rec.Name, rec.Seq), path, rec.Result(), replayed)
	if err := f.Success(report); err != nil {
		return err
	}
	return report.drift(opts.Strict)
}
