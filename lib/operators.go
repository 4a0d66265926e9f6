package lib

import "math"

// Operator is one of the symbols recognised by the tokenizer. The zero value
// is not an operator.
type Operator int

const (
	OpAdd Operator = iota + 1
	OpSub
	OpMult
	OpDiv
	OpMod
	OpPow
	OpExp
	OpOpenParen
	OpCloseParen
)

var operatorRunes = map[rune]Operator{
	'+': OpAdd,
	'-': OpSub,
	'*': OpMult,
	'/': OpDiv,
	'%': OpMod,
	'^': OpPow,
	'E': OpExp,
	'(': OpOpenParen,
	')': OpCloseParen,
}

// LookupOperator maps a character to its operator. Characters that are not
// operator symbols report false and belong to an operand.
func LookupOperator(r rune) (Operator, bool) {
	op, ok := operatorRunes[r]
	return op, ok
}

// ParseOperator is the validating form of LookupOperator.
func ParseOperator(r rune) (Operator, error) {
	op, ok := LookupOperator(r)
	if !ok {
		return 0, &OperatorConversionError{Char: r}
	}
	return op, nil
}

// Rune returns the symbol the operator is written with, or 0 for an invalid
// operator.
func (o Operator) Rune() rune {
	switch o {
	case OpAdd:
		return '+'
	case OpSub:
		return '-'
	case OpMult:
		return '*'
	case OpDiv:
		return '/'
	case OpMod:
		return '%'
	case OpPow:
		return '^'
	case OpExp:
		return 'E'
	case OpOpenParen:
		return '('
	case OpCloseParen:
		return ')'
	}
	return 0
}

func (o Operator) String() string {
	if r := o.Rune(); r != 0 {
		return string(r)
	}
	return "?"
}

// Precedence is the binding rank of the operator. Parentheses rank 0 and are
// never compared against real operators while reordering.
func (o Operator) Precedence() int {
	switch o {
	case OpAdd, OpSub:
		return 1
	case OpMult, OpDiv, OpMod, OpExp:
		return 2
	case OpPow:
		return 3
	}
	return 0
}

func (o Operator) IsParen() bool {
	return o == OpOpenParen || o == OpCloseParen
}

// apply computes a <op> b. It reports false for operators that are not
// binary functions.
func (o Operator) apply(a, b float64) (float64, bool) {
	switch o {
	case OpAdd:
		return a + b, true
	case OpSub:
		return a - b, true
	case OpMult:
		return a * b, true
	case OpDiv:
		return a / b, true
	case OpMod:
		// math.Mod keeps the sign of the dividend.
		return math.Mod(a, b), true
	case OpPow:
		return math.Pow(a, b), true
	case OpExp:
		return a * math.Pow(10, b), true
	}
	return math.NaN(), false
}
