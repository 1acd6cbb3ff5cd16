// Package fingerprint computes the structural fingerprint of a recorded
// value: its schema plus two digests, one over the decoded value and one
// over the schema alone.
//
// The value digest supports strict equality between a recording and a
// replay; the schema digest supports shape-only equality for fields that
// legitimately vary (timestamps, generated identifiers).
package fingerprint

import (
	"fmt"
	"log/slog"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/canonical"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/decode"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/schema"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/value"
)

// Result is the fingerprint of one value.
type Result struct {
	Schema            *schema.Node        `json:"schema"`
	DecodedValueHash  string              `json:"decodedValueHash"`
	DecodedSchemaHash string              `json:"decodedSchemaHash"`
	Diagnostics       []schema.Diagnostic `json:"diagnostics,omitempty"`

	// Decoded is the canonicalized value the value digest was computed over.
	Decoded value.Value `json:"-"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger receiving decode diagnostics.
// Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithMaxDepth bounds nesting depth for every walk.
// Default: value.DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		e.maxDepth = n
	}
}

// WithPipeline sets the decode pipeline for merge directives.
// Default: decode.NewPipeline bounded by the engine's max depth.
func WithPipeline(p *decode.Pipeline) Option {
	return func(e *Engine) {
		e.pipeline = p
	}
}

// Engine fingerprints values. It holds only immutable configuration, so a
// single Engine may be shared by any number of goroutines.
type Engine struct {
	logger    *slog.Logger
	maxDepth  int
	pipeline  *decode.Pipeline
	generator *schema.Generator
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{maxDepth: value.DefaultMaxDepth}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.pipeline == nil {
		e.pipeline = decode.NewPipeline(decode.WithMaxDepth(e.maxDepth))
	}
	e.generator = schema.NewGenerator(
		schema.WithLogger(e.logger),
		schema.WithMaxDepth(e.maxDepth),
		schema.WithPipeline(e.pipeline),
	)
	return e
}

// GenerateSchemaAndHash fingerprints v:
//
//  1. canonicalize v (drop Undefined properties)
//  2. generate the schema, decoding root fields named in merges
//  3. digest the canonicalized decoded value
//  4. digest the canonicalized schema
//
// merges may be nil. Decode failures never fail the call; they surface as
// Result.Diagnostics and WARN logs. Cycles and excessive nesting fail with
// *value.DepthExceededError.
func (e *Engine) GenerateSchemaAndHash(v value.Value, merges schema.Merges) (*Result, error) {
	normalized, err := canonical.CanonicalizeDepth(v, e.maxDepth)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}

	out, err := e.generator.Generate(normalized, merges)
	if err != nil {
		return nil, fmt.Errorf("generate schema: %w", err)
	}

	decoded, err := canonical.CanonicalizeDepth(out.Decoded, e.maxDepth)
	if err != nil {
		return nil, fmt.Errorf("canonicalize decoded value: %w", err)
	}
	valueHash, err := canonical.DigestDepth(decoded, e.maxDepth)
	if err != nil {
		return nil, fmt.Errorf("digest decoded value: %w", err)
	}

	// Schema trees are one level deeper than the values they describe
	// ("properties" wraps each object level), so they get twice the budget.
	schemaHash, err := canonical.DigestDepth(out.Schema.Value(), 2*e.maxDepth+1)
	if err != nil {
		return nil, fmt.Errorf("digest schema: %w", err)
	}

	return &Result{
		Schema:            out.Schema,
		DecodedValueHash:  valueHash,
		DecodedSchemaHash: schemaHash,
		Diagnostics:       out.Diagnostics,
		Decoded:           decoded,
	}, nil
}

// FingerprintAny converts an arbitrary Go value with value.FromGoDepth and
// fingerprints it.
func (e *Engine) FingerprintAny(x any, merges schema.Merges) (*Result, error) {
	v, err := value.FromGoDepth(x, e.maxDepth)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	return e.GenerateSchemaAndHash(v, merges)
}

var defaultEngine = New()

// GenerateSchemaAndHash fingerprints v with a default Engine that logs
// through slog.Default.
func GenerateSchemaAndHash(v value.Value, merges schema.Merges) (*Result, error) {
	return defaultEngine.GenerateSchemaAndHash(v, merges)
}
