package test

// Scenario is an expression with its expected outcome. Err scenarios expect
// evaluation to fail.
type Scenario struct {
	Expression string
	Postfix    string
	Result     float64
	Err        bool
}

var Scenarios = []Scenario{
	{Expression: "3+4*2", Postfix: "3 4 2 * +", Result: 11},
	{Expression: "10/(2+3)", Postfix: "10 2 3 + /", Result: 2},
	{Expression: "(1 + 2) * (3 + 4)", Postfix: "1 2 + 3 4 + *", Result: 21},
	{Expression: "2^3^2", Postfix: "2 3 ^ 2 ^", Result: 64},
	{Expression: "20-5-3", Postfix: "20 5 - 3 -", Result: 12},
	{Expression: "2E3", Postfix: "2 3 E", Result: 2000},
	{Expression: "1.5E2 + 0.5", Postfix: "1.5 2 E 0.5 +", Result: 150.5},
	{Expression: "17 % 5 * 2", Postfix: "17 5 % 2 *", Result: 4},
	{Expression: "2^(1/2)*2^(1/2)", Postfix: "2 1 2 / ^ 2 1 2 / ^ *", Result: 2},
	{Expression: "42", Postfix: "42", Result: 42},
	{Expression: "5+", Postfix: "5 +", Err: true},
	{Expression: "1/0", Postfix: "1 0 /", Err: true},
	{Expression: "7%0", Postfix: "7 0 %", Err: true},
	{Expression: "a+b", Postfix: "a b +", Err: true},
	{Expression: "(3)(4)", Postfix: "3 4", Err: true},
	{Expression: "", Postfix: "", Err: true},
}
