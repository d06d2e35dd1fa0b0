package column

import (
	"errors"
	"fmt"
)

// Errors returned by Parse.
var (
	// ErrEmptyDelimiter indicates the delimiter string is empty.
	ErrEmptyDelimiter = errors.New("empty delimiter")

	// ErrInvalidQuoteChar indicates the quote is not empty, `"` or `'`.
	ErrInvalidQuoteChar = errors.New("invalid quote character")

	// ErrInvalidColumnList indicates the column list could not be parsed.
	ErrInvalidColumnList = errors.New("invalid column list")
)

// ParseError describes which part of the user input was rejected.
type ParseError struct {
	Field string
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("column mode %s %q: %v", e.Field, e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
