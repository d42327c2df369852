package migration

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRevision is reported when a file has no revision assignment.
	ErrNoRevision = errors.New("revision identifier not found")
	// ErrMalformedParents is reported when a parent declaration exists but
	// cannot be interpreted.
	ErrMalformedParents = errors.New("malformed down_revision")
	// ErrNotText is reported for files that are not valid UTF-8 text.
	ErrNotText = errors.New("file is not valid UTF-8 text")
)

// ParseError describes why a single file did not produce a Record. Reason is
// a short classification of Err suitable for listings.
type ParseError struct {
	Path   string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(path string, err error) *ParseError {
	return &ParseError{Path: path, Reason: reasonOf(err), Err: err}
}

func reasonOf(err error) string {
	switch {
	case errors.Is(err, ErrNoRevision):
		return "no revision"
	case errors.Is(err, ErrMalformedParents):
		return "malformed parents"
	case errors.Is(err, ErrNotText):
		return "not text"
	default:
		return "unreadable"
	}
}
