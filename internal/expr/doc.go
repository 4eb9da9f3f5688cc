// Package expr parses and evaluates canonical calculator expressions.
//
// The grammar covers number literals, the binary operators + - * / and **,
// unary sign, parentheses and calls into a closed table of single-argument
// functions:
//
//	Expr    = Term { ('+' | '-') Term }
//	Term    = Unary { ('*' | '/') Unary }
//	Unary   = ('+' | '-') Unary | Power
//	Power   = Primary [ '**' Unary ]
//	Primary = num | name '(' [ Expr { ',' Expr } ] ')' | '(' Expr ')'
//
// Parentheses still open at the end of the input are closed implicitly.
// Every call to Evaluate builds its own function table and parser state, so
// evaluations are independent and safe to run concurrently.
package expr
