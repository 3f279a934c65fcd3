package csvresponse

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
var (
	ErrInvalidRow       = errors.New("invalid row")
	ErrInvalidOptions   = errors.New("invalid options")
	ErrUnsupportedInput = errors.New("unsupported input")
	ErrUnknownEncoding  = errors.New("unknown encoding")
)

// FormattingError reports that the CSV text could not be converted to the
// requested character encoding.
type FormattingError struct {
	Encoding string
	Err      error
}

func (e *FormattingError) Error() string {
	return fmt.Sprintf("csv: cannot encode body as %s: %v", e.Encoding, e.Err)
}

func (e *FormattingError) Unwrap() error { return e.Err }

// InvalidRowError reports a row that cannot be reduced to positional or
// named cell values. Index is zero based.
type InvalidRowError struct {
	Index int
	Err   error
}

func (e *InvalidRowError) Error() string {
	return fmt.Sprintf("csv: row %d: %v", e.Index, e.Err)
}

func (e *InvalidRowError) Unwrap() error { return e.Err }

func invalidRow(index int, format string, args ...any) error {
	return &InvalidRowError{
		Index: index,
		Err:   fmt.Errorf("%w: "+format, append([]any{ErrInvalidRow}, args...)...),
	}
}
