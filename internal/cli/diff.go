package cli

import (
	"github.com/spf13/cobra"
)

// DiffOptions holds flags for the diff command.
type DiffOptions struct {
	*RootOptions
	FingerprintOptions
	Strict bool
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiffOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "diff <recorded> <replayed>",
		Short: "Compare the fingerprints of two values",
		Long: `Fingerprint a recorded and a replayed value with the same merge
directives and report whether their values and schemas match.

Exit codes:
  0 - Schemas match (and values match, with --strict)
  1 - Schema drift, or value drift with --strict
  2 - Command error (unreadable input, invalid merges file)

Examples:
  driftprint diff recorded.json replayed.json
  driftprint diff --strict --decode-field body --content-type text/csv a.json b.json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(opts, args[0], args[1], cmd)
		},
	}

	opts.bind(cmd)
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "treat value drift as failure")
	return cmd
}

func runDiff(opts *DiffOptions, recordedPath, replayedPath string, cmd *cobra.Command) error {
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	session, err := newFingerprintSession(&opts.FingerprintOptions, logger, cmd.InOrStdin())
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidMerges, "invalid merge directives", err)
	}

	recorded, err := session.file(recordedPath)
	if err != nil {
		return failFingerprint(f, err)
	}
	replayed, err := session.file(replayedPath)
	if err != nil {
		return failFingerprint(f, err)
	}

	report := newCompareReport(recordedPath, replayedPath, recorded, replayed)
	if err := f.Success(report); err != nil {
		return err
	}
	return report.drift(opts.Strict)
}
