package expr

import (
	"errors"
	"fmt"
)

// ErrDivisionByZero is wrapped by the EvalError returned for x/0.
var ErrDivisionByZero = errors.New("division by zero")

// EvalError reports malformed input or a failed evaluation.
type EvalError struct {
	// Pos is the 1-based rune column the error refers to.
	Pos int
	Msg string
	Err error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("col %d: %s", e.Pos, e.Msg)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

func errorf(pos int, format string, args ...any) *EvalError {
	return &EvalError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
