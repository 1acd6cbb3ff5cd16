package decode

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/value"
)

// Directive tells the pipeline how to interpret one raw value.
type Directive struct {
	Encoding    Encoding `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	DecodedType Type     `json:"decodedType,omitempty" yaml:"decodedType,omitempty"`
}

// IsZero reports whether the directive requests no decoding at all.
func (d Directive) IsZero() bool {
	return d.Encoding == EncodingUnspecified && d.DecodedType == TypeUnspecified
}

type directiveWire struct {
	Encoding    *Encoding `json:"encoding,omitempty"`
	DecodedType *Type     `json:"decodedType,omitempty"`
}

// MarshalJSON omits UNSPECIFIED members.
func (d Directive) MarshalJSON() ([]byte, error) {
	var w directiveWire
	if d.Encoding != EncodingUnspecified {
		w.Encoding = &d.Encoding
	}
	if d.DecodedType != TypeUnspecified {
		w.DecodedType = &d.DecodedType
	}
	return json.Marshal(w)
}

// Validate rejects enumeration values outside the known sets.
func (d Directive) Validate() error {
	if !d.Encoding.Valid() {
		return fmt.Errorf("unknown encoding %d", int(d.Encoding))
	}
	if !d.DecodedType.Valid() {
		return fmt.Errorf("unknown decoded type %d", int(d.DecodedType))
	}
	return nil
}

// Decoder interprets decoded bytes as a Value.
type Decoder interface {
	Decode(data []byte) (value.Value, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(data []byte) (value.Value, error)

// Decode calls f(data).
func (f DecoderFunc) Decode(data []byte) (value.Value, error) {
	return f(data)
}

// Pipeline decodes raw leaves according to a Directive: first the wire
// encoding, then the content interpretation through a registry keyed by
// Type.
//
// A Pipeline is safe for concurrent use. Register may be called at any time;
// calls already in flight keep the decoder they looked up.
type Pipeline struct {
	mu       sync.RWMutex
	decoders map[Type]Decoder
	maxDepth int
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithMaxDepth bounds the nesting depth of values built by the structured
// decoders (JSON, YAML). Exceeding it fails with a *DecodeError wrapping
// *value.DepthExceededError.
func WithMaxDepth(n int) PipelineOption {
	return func(p *Pipeline) {
		p.maxDepth = n
	}
}

// NewPipeline returns a Pipeline with a decoder registered for every Type.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{decoders: make(map[Type]Decoder, len(typeNames)), maxDepth: value.DefaultMaxDepth}
	for _, opt := range opts {
		opt(p)
	}
	for t, d := range defaultDecoders(p.maxDepth) {
		p.decoders[t] = d
	}
	return p
}

// Register adds or replaces the decoder for t and returns p for chaining.
func (p *Pipeline) Register(t Type, d Decoder) *Pipeline {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.decoders == nil {
		p.decoders = make(map[Type]Decoder)
	}
	p.decoders[t] = d
	return p
}

// Decoder returns the decoder registered for t.
func (p *Pipeline) Decoder(t Type) (Decoder, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	d, ok := p.decoders[t]
	return d, ok
}

// Decode applies d to raw. Every failure is a *DecodeError.
//
// With EncodingUnspecified, String and Bytes leaves are handed to the Type
// decoder as-is; any other value is already structured and is returned
// unchanged. With EncodingBase64 the leaf must be text holding standard or
// URL-safe base64, padded or not.
func (p *Pipeline) Decode(raw value.Value, d Directive) (value.Value, error) {
	fail := func(err error) (value.Value, error) {
		return nil, &DecodeError{Encoding: d.Encoding, Type: d.DecodedType, Err: err}
	}

	var data []byte
	switch d.Encoding {
	case EncodingUnspecified:
		switch v := raw.(type) {
		case value.String:
			data = []byte(v)
		case value.Bytes:
			data = v
		default:
			return raw, nil
		}
	case EncodingBase64:
		text, ok := textOf(raw)
		if !ok {
			return fail(fmt.Errorf("base64: %w (got %s)", ErrNotText, kindOf(raw)))
		}
		b, err := decodeBase64(text)
		if err != nil {
			return fail(err)
		}
		data = b
	default:
		return fail(fmt.Errorf("unknown encoding %d", int(d.Encoding)))
	}

	dec, ok := p.Decoder(d.DecodedType)
	if !ok {
		return fail(fmt.Errorf("%w for %s", ErrNoDecoder, d.DecodedType))
	}
	v, err := dec.Decode(data)
	if err != nil {
		return fail(err)
	}
	return v, nil
}

func textOf(v value.Value) ([]byte, bool) {
	switch val := v.(type) {
	case value.String:
		return []byte(val), true
	case value.Bytes:
		return val, true
	}
	return nil, false
}

func kindOf(v value.Value) string {
	if v == nil {
		return value.KindNull.String()
	}
	return v.Kind().String()
}

var base64Encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

// decodeBase64 accepts the four RFC 4648 variants. Line breaks (as produced
// by MIME encoders) are ignored.
func decodeBase64(text []byte) ([]byte, error) {
	text = bytes.TrimSpace(text)
	if bytes.ContainsAny(text, "\r\n") {
		text = bytes.ReplaceAll(bytes.ReplaceAll(text, []byte("\r"), nil), []byte("\n"), nil)
	}
	var firstErr error
	for _, enc := range base64Encodings {
		b, err := enc.DecodeString(string(text))
		if err == nil {
			return b, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, fmt.Errorf("base64: %w", firstErr)
}

// textOrBytes returns a String when data is valid UTF-8 and Bytes otherwise.
func textOrBytes(data []byte) value.Value {
	if utf8.Valid(data) {
		return value.String(data)
	}
	return value.Bytes(bytes.Clone(data))
}
