package gridconv

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrMalformed         = errors.New("malformed input")
	ErrCannotDelete      = errors.New("cannot delete")
	ErrOutOfRange        = errors.New("index out of range")
)

// Edit rejections. Both match ErrCannotDelete with errors.Is.
var (
	ErrHeaderRow  = fmt.Errorf("%w: the header row", ErrCannotDelete)
	ErrLastColumn = fmt.Errorf("%w: the last remaining column", ErrCannotDelete)
)

// ParseError reports text that does not match the structure of its declared
// format. It always matches ErrMalformed.
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parse %s: %s", e.Format, ErrMalformed)
	}
	return fmt.Sprintf("parse %s: %s", e.Format, e.Err)
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformed}
	}
	return []error{ErrMalformed, e.Err}
}
