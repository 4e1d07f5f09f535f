package dice

import (
	"errors"
	"fmt"
)

// ErrUnknown marks a fallback path that should not be reachable, such as an
// unrecognized mode or operation coming from the parser.
var ErrUnknown = errors.New("unknown dice error")

// ParseError reports that dice input could not be parsed. Err is the parser's
// diagnostic, unchanged.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing dice input %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
