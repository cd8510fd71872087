package series

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the series has no record for the requested date
	ErrNotFound = errors.New("no data for this date")

	// ErrMissingValue is returned when the target record has no mean temperature
	ErrMissingValue = errors.New("record has no mean temperature")

	// ErrNoHistory is returned when no same-day record is left to average
	ErrNoHistory = errors.New("no historical records for this calendar day")

	// ErrEmptyInput is returned when the input has no header row
	ErrEmptyInput = errors.New("empty input")
)

// FormatError reports input that does not match the expected column layout.
// Line is 1-based and counts the header row
type FormatError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *FormatError) Error() string {
	switch {
	case e.Column != "" && e.Value != "":
		return fmt.Sprintf("line %d: column %s: invalid value %q: %v", e.Line, e.Column, e.Value, e.Err)
	case e.Column != "":
		return fmt.Sprintf("line %d: column %s: %v", e.Line, e.Column, e.Err)
	default:
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
