package script

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrSyntax          = errors.New("syntax error")
	ErrUnknownFunction = errors.New("unknown function")
	ErrArgument        = errors.New("invalid argument")
)

// SyntaxError reports where parsing stopped
type SyntaxError struct {
	Pos Pos
	Msg string
}

func newSyntaxError(pos Pos, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Pos.Line, e.Pos.Col, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// EvalError wraps a failure raised while evaluating a call
type EvalError struct {
	Pos  Pos
	Name string
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Pos.Line, e.Name, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}
