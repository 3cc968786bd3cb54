/*
File    : golox/ast/printer.go
*/
package ast

import (
	"fmt"
	"strings"

	"github.com/golox-lang/golox/value"
)

// Print renders expr in a parenthesized prefix form: Binary and Logical
// nodes print as "(op left right)", Unary as the operator followed by
// its operand, Assign as "name = value", and Grouping nodes reprint
// their own parentheses. Literals and variables print as Lox source.
// The output is not Lox source as a whole: a printed Binary or Logical
// node does not parse back into the expression it came from.
func Print(expr Expr) string {
	switch e := expr.(type) {
	case *Literal:
		if e.Value.Kind() == value.KindString { // quote so it re-lexes as a string
			return fmt.Sprintf("%q", e.Value.AsString())
		}
		return e.Value.String()
	case *Grouping:
		return "(" + Print(e.Expression) + ")"
	case *Unary:
		return e.Op.Lexeme + Print(e.Right)
	case *Binary:
		return parenthesize(e.Op.Lexeme, e.Left, e.Right)
	case *Logical:
		return parenthesize(e.Op.Lexeme, e.Left, e.Right)
	case *Variable:
		return e.Name.Lexeme
	case *Assign:
		return e.Name.Lexeme + " = " + Print(e.Value)
	default:
		return ""
	}
}

func parenthesize(op string, exprs ...Expr) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(op)
	for _, e := range exprs {
		b.WriteString(" ")
		b.WriteString(Print(e))
	}
	b.WriteString(")")
	return b.String()
}
