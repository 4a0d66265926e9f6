package lib

import "strings"

type TokenType int

const (
	TokenOperand TokenType = iota
	TokenOperator
)

// Token is one element of a postfix sequence: either the raw text of an
// operand or a resolved operator. Operand text is not validated until the
// sequence is evaluated.
type Token struct {
	Type TokenType
	Text string
	Op   Operator
}

func Operand(text string) Token {
	return Token{Type: TokenOperand, Text: text}
}

func OperatorToken(op Operator) Token {
	return Token{Type: TokenOperator, Op: op}
}

func (t Token) String() string {
	if t.Type == TokenOperator {
		return t.Op.String()
	}
	return t.Text
}

// FormatPostfix renders a token sequence space separated, e.g. "3 4 2 * +".
func FormatPostfix(tokens []Token) string {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		parts = append(parts, tok.String())
	}
	return strings.Join(parts, " ")
}
