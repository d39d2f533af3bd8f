package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ucclang/ucc/tokenizer"
)

// Sentinel errors
var (
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrNestedSizeof    = errors.New("sizeof sizeof not supported")
)

// ParseError reports a token that cannot continue any applicable grammar
// rule. Parsing of the unit stops at the first error; there is no
// resynchronization.
type ParseError struct {
	Line     int
	Expected []tokenizer.Kind // acceptable kinds at the failure position
	Err      error
}

func (e *ParseError) Error() string {
	if len(e.Expected) > 0 {
		kinds := make([]string, len(e.Expected))
		for i, k := range e.Expected {
			kinds[i] = string(k)
		}

		return fmt.Sprintf("%d: parser: expected %s", e.Line, strings.Join(kinds, " or "))
	}

	return fmt.Sprintf("%d: parser: %s", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func unexpected(line int, expected ...tokenizer.Kind) *ParseError {
	return &ParseError{Line: line, Expected: expected, Err: ErrUnexpectedToken}
}
