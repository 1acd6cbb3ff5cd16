package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

// HashOptions holds flags for the hash command.
type HashOptions struct {
	*RootOptions
	FingerprintOptions
}

// NewHashCommand creates the hash command.
func NewHashCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HashOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "hash <file>",
		Short: "Fingerprint one recorded value",
		Long: `Compute the schema and both digests of a recorded value.

The input is JSON, YAML or BSON ("-" reads stdin). Root fields named in the
merge directives are decoded before hashing; decode failures are reported
as warnings and never fail the command.

Examples:
  driftprint hash response.json
  driftprint hash --decode-field body --content-type application/json span.json
  driftprint hash --merges merges.cue --format json span.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(opts, args[0], cmd)
		},
	}

	opts.bind(cmd)
	return cmd
}

func runHash(opts *HashOptions, path string, cmd *cobra.Command) error {
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
	logger.Debug("fingerprint computed", "input", path, "diagnostics", len(res.Diagnostics))

	return f.Success(HashReport{Input: path, Result: res})
}

// failFingerprint reports an input or fingerprint error with the matching
// error code.
func failFingerprint(f *OutputFormatter, err error) error {
	var inErr *inputError
	if errors.As(err, &inErr) {
		return f.Fail(ExitCommandError, ErrCodeInvalidInput, "failed to load input", err)
	}
	return f.Fail(ExitCommandError, ErrCodeFingerprint, "failed to fingerprint input", err)
}
