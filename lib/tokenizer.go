package lib

import (
	"strings"
	"unicode"
)

// Tokenize converts an infix expression into a postfix token sequence. It
// never fails: malformed input yields a sequence that Evaluate rejects.
func Tokenize(expr string) []Token {
	tokens := []Token{}
	tokenize(expr, func(t Token) {
		tokens = append(tokens, t)
	})
	return tokens
}

func tokenize(expr string, emit func(Token)) {
	t := newTokenizer(expr, emit)
	t.scan()
}

type tokenizer struct {
	expr         []rune
	length       int
	currentIndex int
	operand      strings.Builder
	operators    stack[Operator]
	emitCallback func(Token)
}

func newTokenizer(expr string, emit func(Token)) *tokenizer {
	// The outer pair of parentheses makes the final ')' drain every pending
	// operator, so end of input needs no special case.
	prepared := []rune("(" + stripWhitespace(expr) + ")")
	return &tokenizer{
		expr:         prepared,
		length:       len(prepared),
		currentIndex: 0,
		emitCallback: emit,
	}
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func (t *tokenizer) advance() (rune, bool) {
	if t.currentIndex >= t.length {
		return 0, false
	}
	ch := t.expr[t.currentIndex]
	t.currentIndex++
	return ch, true
}

func (t *tokenizer) scan() {
	for t.next() {
	}
}

func (t *tokenizer) next() bool {
	ch, ok := t.advance()
	if !ok {
		return false
	}

	op, isOp := LookupOperator(ch)
	if !isOp {
		t.operand.WriteRune(ch)
		return true
	}

	t.endOperand()
	switch op {
	case OpOpenParen:
		t.operators.push(op)
	case OpCloseParen:
		t.closeGroup()
	default:
		t.pushOperator(op)
	}
	return true
}

func (t *tokenizer) endOperand() {
	if t.operand.Len() == 0 {
		return
	}
	t.emitCallback(Operand(t.operand.String()))
	t.operand.Reset()
}

// closeGroup pops operators up to and including the nearest '('. An
// unmatched ')' simply empties the stack.
func (t *tokenizer) closeGroup() {
	for {
		op, ok := t.operators.pop()
		if !ok || op == OpOpenParen {
			return
		}
		t.emitCallback(OperatorToken(op))
	}
}

// pushOperator pops every pending operator of equal or higher precedence
// before pushing op, which makes each tier associate left to right.
func (t *tokenizer) pushOperator(op Operator) {
	for {
		top, ok := t.operators.peek()
		if !ok || top == OpOpenParen || top.Precedence() < op.Precedence() {
			break
		}
		t.operators.pop()
		t.emitCallback(OperatorToken(top))
	}
	t.operators.push(op)
}
