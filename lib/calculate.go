package lib

import "strconv"

// Calculate tokenizes and evaluates an infix expression.
func Calculate(expr string) (float64, error) {
	return Evaluate(Tokenize(expr))
}

// FormatResult prints v as the shortest plain decimal that round-trips,
// without an exponent: 11, 2.5, 2000.
func FormatResult(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
