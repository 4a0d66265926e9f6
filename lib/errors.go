package lib

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPostfix matches every error returned by Evaluate.
	ErrInvalidPostfix = errors.New("invalid postfix expression")

	// ErrInvalidOperator matches every *OperatorConversionError.
	ErrInvalidOperator = errors.New("invalid character for operator")
)

type EvalErrorKind int

const (
	ErrKindInvalidOperand EvalErrorKind = iota
	ErrKindInsufficientOperands
	ErrKindInvalidResult
	ErrKindUnexpectedOperator
	ErrKindMalformed
)

func (k EvalErrorKind) String() string {
	switch k {
	case ErrKindInvalidOperand:
		return "invalid operand"
	case ErrKindInsufficientOperands:
		return "insufficient operands"
	case ErrKindInvalidResult:
		return "invalid result"
	case ErrKindUnexpectedOperator:
		return "unexpected operator"
	case ErrKindMalformed:
		return "malformed expression"
	default:
		return "unknown"
	}
}

// EvalError is returned by Evaluate. The message names the kind of failure
// but never the offending token or its position.
type EvalError struct {
	Kind EvalErrorKind
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidPostfix, e.Kind)
}

func (e *EvalError) Is(target error) bool {
	return target == ErrInvalidPostfix
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

func newEvalError(kind EvalErrorKind, cause error) *EvalError {
	return &EvalError{Kind: kind, Err: cause}
}

// OperatorConversionError reports a character with no operator meaning.
type OperatorConversionError struct {
	Char rune
}

func (e *OperatorConversionError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidOperator, e.Char)
}

func (e *OperatorConversionError) Is(target error) bool {
	return target == ErrInvalidOperator
}
