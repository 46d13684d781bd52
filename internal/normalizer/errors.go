package normalizer

import (
	"errors"
	"fmt"
)

// Common normalizer error types
var (
	ErrMalformedXML  = errors.New("malformed XML")
	ErrEmptyDocument = errors.New("document has no root element")
)

// ParseError wraps any failure to turn the upstream body into a document
type ParseError struct {
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("failed to parse upstream XML at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("failed to parse upstream XML: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError returns true if err came from the normalizer
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}
