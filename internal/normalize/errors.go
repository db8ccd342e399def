package normalize

import (
	"errors"
	"fmt"
)

// ParseError is returned by typed normalizers for a present value that does
// not match the expected format.
type ParseError struct {
	Column   string
	Value    string
	Expected string
	Err      error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("column %q: cannot parse %q as %s", e.Column, e.Value, e.Expected)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnmappedValueError is returned by Enum for a value that is neither in the
// table nor an explicit sentinel.
type UnmappedValueError struct {
	Column string
	Value  string
}

func (e *UnmappedValueError) Error() string {
	return fmt.Sprintf("column %q: unmapped value %q", e.Column, e.Value)
}

// IsSoft reports whether err only degrades a single value to Missing.
func IsSoft(err error) bool {
	var parseErr *ParseError

	var unmappedErr *UnmappedValueError

	return errors.As(err, &parseErr) || errors.As(err, &unmappedErr)
}
