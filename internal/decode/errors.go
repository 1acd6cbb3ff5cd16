package decode

import (
	"errors"
	"fmt"
)

// DecodeError reports a malformed encoded payload or malformed content for
// the requested decoded type. It is recoverable: callers degrade the node
// to a STRING leaf and carry on.
type DecodeError struct {
	Encoding Encoding
	Type     Type
	Err      error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s/%s: %v", e.Encoding, e.Type, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError reports whether err is (or wraps) a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

var (
	// ErrNotText is returned when an encoding step receives a non-text value.
	ErrNotText = errors.New("value is not text")

	// ErrNoDecoder is returned when no decoder is registered for a type.
	ErrNoDecoder = errors.New("no decoder registered")
)
