package tokenizer

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors
var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrInvalidNumber       = errors.New("integer literal out of range")
	ErrBadClassName        = errors.New("token class name is not a valid identifier")
)

// Kind identifies the class of a token. It is a plain string so that a token
// produced from a configured keyword or operator spelling can carry that
// spelling as its own kind tag, and so that parsers can compare a token
// against a bare kind with tok.Kind == kind.
type Kind string

// Kinds produced by the tokenizer itself. Configured spellings add further
// kinds at runtime.
const (
	IDENT  Kind = "id"
	INT    Kind = "int"
	STRING Kind = "str"
	EOF    Kind = "eof"
)

// Token is one lexed unit of source text. Tokens are immutable after
// production. Line is the 1-based source line of the token's first character
// and is used only for diagnostics.
type Token struct {
	Kind Kind
	Text string // identifier name or string literal body (quotes stripped)
	Int  int64  // decoded value for INT tokens
	Line int
}

// Is reports whether the token has any of the given kinds.
func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// String returns a debug representation of the token.
func (t Token) String() string {
	switch t.Kind {
	case INT:
		return fmt.Sprintf("line %d: %s\t%d", t.Line, t.Kind, t.Int)
	case IDENT, STRING:
		return fmt.Sprintf("line %d: %s\t%s", t.Line, t.Kind, strconv.Quote(t.Text))
	default:
		return fmt.Sprintf("line %d: %s", t.Line, t.Kind)
	}
}

// LexError reports a character the tokenizer could not consume.
type LexError struct {
	Line int
	Err  error
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%d: lexer: %s", e.Line, e.Err)
}

func (e *LexError) Unwrap() error {
	return e.Err
}
