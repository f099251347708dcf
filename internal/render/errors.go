package render

import (
	"errors"
	"fmt"
)

// ErrDimensionMismatch indicates that two canvases that must share the
// output dimensions do not. This is a programming or configuration error;
// the playback loop falls back to a plain cut for the affected cycle.
var ErrDimensionMismatch = errors.New("canvas dimensions do not match")

// DecodeError wraps a failure to read or decode a photo file. The playback
// loop recovers by skipping the photo and retrying with another one.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
