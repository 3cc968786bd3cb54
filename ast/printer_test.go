/*
File    : golox/ast/printer_test.go
*/
package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/golox-lang/golox/lexer"
	"github.com/golox-lang/golox/value"
)

func TestPrint_Literal(t *testing.T) {
	assert.Equal(t, "1", Print(&Literal{Value: value.Number(1)}))
	assert.Equal(t, "nil", Print(&Literal{Value: value.Nil}))
	assert.Equal(t, `"hi"`, Print(&Literal{Value: value.String("hi")}))
}

func TestPrint_Binary(t *testing.T) {
	expr := &Binary{
		Left:  &Literal{Value: value.Number(1)},
		Op:    lexer.NewToken(lexer.PLUS, "+", 1),
		Right: &Literal{Value: value.Number(2)},
	}
	assert.Equal(t, "(+ 1 2)", Print(expr))
}

func TestPrint_GroupingReprintsParentheses(t *testing.T) {
	expr := &Grouping{Expression: &Literal{Value: value.Number(1)}}
	assert.Equal(t, "(1)", Print(expr))
}

func TestPrint_UnaryHasNoParens(t *testing.T) {
	expr := &Unary{Op: lexer.NewToken(lexer.MINUS, "-", 1), Right: &Literal{Value: value.Number(5)}}
	assert.Equal(t, "-5", Print(expr))
}

func TestPrint_Assign(t *testing.T) {
	expr := &Assign{
		Name:  lexer.NewToken(lexer.IDENTIFIER, "x", 1),
		Value: &Literal{Value: value.Number(3)},
	}
	assert.Equal(t, "x = 3", Print(expr))
}
