package lib

import (
	"math"
	"strconv"
	"strings"
)

// Evaluate runs a postfix token sequence on an operand stack. The first
// failure aborts evaluation; every failure matches ErrInvalidPostfix.
func Evaluate(tokens []Token) (float64, error) {
	operands := stack[float64]{}

	for _, tok := range tokens {
		switch tok.Type {
		case TokenOperand:
			v, err := parseOperand(tok.Text)
			if err != nil {
				return 0, err
			}
			operands.push(v)

		case TokenOperator:
			if operands.len() < 2 {
				return 0, newEvalError(ErrKindInsufficientOperands, nil)
			}
			// The most recently pushed value is the right-hand side.
			b, _ := operands.pop()
			a, _ := operands.pop()

			v, ok := tok.Op.apply(a, b)
			if !ok {
				return 0, newEvalError(ErrKindUnexpectedOperator, nil)
			}
			if !isFinite(v) {
				return 0, newEvalError(ErrKindInvalidResult, nil)
			}
			operands.push(v)

		default:
			return 0, newEvalError(ErrKindMalformed, nil)
		}
	}

	if operands.len() != 1 {
		return 0, newEvalError(ErrKindMalformed, nil)
	}
	result, _ := operands.pop()
	return result, nil
}

// parseOperand accepts decimal literals only. strconv also takes hex
// floats such as 0x1p4, which are rejected here.
func parseOperand(text string) (float64, error) {
	if isHexLiteral(text) {
		return 0, newEvalError(ErrKindInvalidOperand, nil)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, newEvalError(ErrKindInvalidOperand, err)
	}
	if !isFinite(v) {
		return 0, newEvalError(ErrKindInvalidOperand, nil)
	}
	return v, nil
}

func isHexLiteral(text string) bool {
	text = strings.TrimLeft(text, "+-")
	return strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X")
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
