package pcm

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for file extensions no reader handles.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrEmptyBuffer is returned when writing a buffer without samples.
	ErrEmptyBuffer = errors.New("empty buffer")
)

// MalformedSourceError reports an unreadable or unsupported PCM container.
type MalformedSourceError struct {
	Path   string
	Reason string
	Cause  error
}

// NewMalformedSourceError creates a new MalformedSourceError.
func NewMalformedSourceError(path, reason string, cause error) *MalformedSourceError {
	return &MalformedSourceError{Path: path, Reason: reason, Cause: cause}
}

func (e *MalformedSourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed source %s: %s: %v", e.Path, e.Reason, e.Cause)
	}
	return fmt.Sprintf("malformed source %s: %s", e.Path, e.Reason)
}

func (e *MalformedSourceError) Unwrap() error {
	return e.Cause
}
