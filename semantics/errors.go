package semantics

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrDuplicateStruct   = errors.New("struct defined twice")
	ErrDuplicateMember   = errors.New("struct member defined twice")
	ErrRecursiveStruct   = errors.New("recursive struct definition")
	ErrUndefinedType     = errors.New("type not found")
	ErrDuplicateFunction = errors.New("function defined twice")
	ErrDuplicateParam    = errors.New("function argument defined twice")
	ErrDuplicateVariable = errors.New("variable defined twice")
	ErrUndefinedVariable = errors.New("variable not found")
	ErrUndefinedFunction = errors.New("function not found")
	ErrReturnMismatch    = errors.New("return type mismatch")
	ErrMissingReturn     = errors.New("missing return statement")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrNotInteger        = errors.New("integer operand required")
	ErrNotAStruct        = errors.New("not a struct value")
	ErrUnknownMember     = errors.New("struct member not found")
	ErrBadDeref          = errors.New("dereference exceeds pointer depth")
	ErrNotAddressable    = errors.New("operand is not addressable")
	ErrCtrlOutsideLoop   = errors.New("break or continue outside a loop")
	ErrArgCount          = errors.New("wrong number of arguments")
)

// SemanticsError is a scope, type or layout violation. The first one aborts
// analysis of the unit.
type SemanticsError struct {
	Line int
	Err  error
}

func (e *SemanticsError) Error() string {
	return fmt.Sprintf("%d: semantics: %s", e.Line, e.Err)
}

func (e *SemanticsError) Unwrap() error {
	return e.Err
}

func semErr(line int, sentinel error, detail string) *SemanticsError {
	if detail == "" {
		return &SemanticsError{Line: line, Err: sentinel}
	}

	return &SemanticsError{Line: line, Err: fmt.Errorf("%w: %s", sentinel, detail)}
}
