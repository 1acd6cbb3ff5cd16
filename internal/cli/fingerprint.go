package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/fingerprint"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/schema"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/value"
)

// FingerprintOptions are the input and merge flags shared by every command
// that fingerprints a file.
type FingerprintOptions struct {
	MergesFile  string
	DecodeField string
	ContentType string
	InputFormat string
	MaxDepth    int
}

func (o *FingerprintOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.MergesFile, "merges", "", "merge-directive file (.cue, .json, .yaml)")
	cmd.Flags().StringVar(&o.DecodeField, "decode-field", "", "root field holding a base64 HTTP body")
	cmd.Flags().StringVar(&o.ContentType, "content-type", "", "content type of --decode-field")
	cmd.Flags().StringVar(&o.InputFormat, "input-format", InputAuto, "input format (auto|json|yaml|bson)")
	cmd.Flags().IntVar(&o.MaxDepth, "max-depth", value.DefaultMaxDepth, "maximum nesting depth")
}

// Merges combines --merges and --decode-field; the flag wins on conflict.
func (o *FingerprintOptions) Merges() (schema.Merges, error) {
	merges := schema.Merges{}
	if o.MergesFile != "" {
		loaded, err := LoadMerges(o.MergesFile)
		if err != nil {
			return nil, err
		}
		for k, d := range loaded {
			merges[k] = d
		}
	}
	if o.DecodeField != "" {
		for k, d := range schema.BodyMerges(o.DecodeField, o.ContentType) {
			merges[k] = d
		}
	} else if o.ContentType != "" {
		return nil, fmt.Errorf("--content-type requires --decode-field")
	}
	if len(merges) == 0 {
		return nil, nil
	}
	return merges, nil
}

// fingerprintSession fingerprints any number of inputs with one engine and
// one set of merges.
type fingerprintSession struct {
	engine   *fingerprint.Engine
	merges   schema.Merges
	format   string
	maxDepth int
	stdin    io.Reader
}

func newFingerprintSession(opts *FingerprintOptions, logger *slog.Logger, stdin io.Reader) (*fingerprintSession, error) {
	merges, err := opts.Merges()
	if err != nil {
		return nil, err
	}
	if merges != nil {
		logger.Debug("merge directives loaded", "fields", merges.Fields())
	}
	return &fingerprintSession{
		engine:   fingerprint.New(fingerprint.WithLogger(logger), fingerprint.WithMaxDepth(opts.MaxDepth)),
		merges:   merges,
		format:   opts.InputFormat,
		maxDepth: opts.MaxDepth,
		stdin:    stdin,
	}, nil
}

// file loads and fingerprints one input. Input errors and fingerprint
// errors are distinguished for error reporting.
func (s *fingerprintSession) file(path string) (*fingerprint.Result, error) {
	v, err := LoadInput(path, s.format, s.maxDepth, s.stdin)
	if err != nil {
		return nil, &inputError{path: path, err: err}
	}
	res, err := s.engine.GenerateSchemaAndHash(v, s.merges)
	if err != nil {
		return nil, fmt.Errorf("fingerprint %s: %w", path, err)
	}
	return res, nil
}

type inputError struct {
	path string
	err  error
}

func (e *inputError) Error() string { return fmt.Sprintf("%s: %v", e.path, e.err) }
func (e *inputError) Unwrap() error { return e.err }
