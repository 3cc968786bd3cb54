/*
File    : golox/parser/parser_test.go
*/
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golox-lang/golox/ast"
	"github.com/golox-lang/golox/diag"
	"github.com/golox-lang/golox/lexer"
	"github.com/golox-lang/golox/value"
)

func parse(t *testing.T, src string) ([]ast.Stmt, *diag.Sink) {
	t.Helper()
	sink := &diag.Sink{}
	tokens := lexer.New(src, sink).ScanTokens()
	require.False(t, sink.HasAny(), "unexpected lex errors: %v", sink.Drain())
	stmts := New(tokens, sink).Parse()
	return stmts, sink
}

func TestParse_ExpressionStatement(t *testing.T) {
	stmts, sink := parse(t, "1 + 2;")
	require.False(t, sink.HasAny())
	require.Len(t, stmts, 1)

	exprStmt, ok := stmts[0].(*ast.ExprStmt)
	require.True(t, ok)
	binary, ok := exprStmt.Expression.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, lexer.PLUS, binary.Op.Type)
}

func TestParse_LeftAssociativity(t *testing.T) {
	stmts, sink := parse(t, "1 - 2 - 3;")
	require.False(t, sink.HasAny())
	require.Len(t, stmts, 1)

	assert.Equal(t, "(- (- 1 2) 3)", ast.Print(stmts[0].(*ast.ExprStmt).Expression))
}

func TestParse_PrecedenceLadder(t *testing.T) {
	stmts, sink := parse(t, "1 + 2 * 3 > 4 == true;")
	require.False(t, sink.HasAny())
	require.Len(t, stmts, 1)

	assert.Equal(t, "(== (> (+ 1 (* 2 3)) 4) true)", ast.Print(stmts[0].(*ast.ExprStmt).Expression))
}

func TestParse_UnaryIsRightAssociative(t *testing.T) {
	stmts, sink := parse(t, "--5;")
	require.False(t, sink.HasAny())
	assert.Equal(t, "--5", ast.Print(stmts[0].(*ast.ExprStmt).Expression))
}

func TestParse_GroupingRoundTrips(t *testing.T) {
	stmts, sink := parse(t, "(1 + 2) * 3;")
	require.False(t, sink.HasAny())
	assert.Equal(t, "(* ((+ 1 2)) 3)", ast.Print(stmts[0].(*ast.ExprStmt).Expression))
}

func TestParse_VarDeclarationWithInitializer(t *testing.T) {
	stmts, sink := parse(t, `var x = "hi";`)
	require.False(t, sink.HasAny())
	require.Len(t, stmts, 1)

	v, ok := stmts[0].(*ast.VarStmt)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name.Lexeme)
	lit, ok := v.Initializer.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, "hi", lit.Value.AsString())
}

func TestParse_VarDeclarationWithoutInitializer(t *testing.T) {
	stmts, sink := parse(t, "var x;")
	require.False(t, sink.HasAny())
	v := stmts[0].(*ast.VarStmt)
	assert.Nil(t, v.Initializer)
}

func TestParse_Assignment(t *testing.T) {
	stmts, sink := parse(t, "x = 5;")
	require.False(t, sink.HasAny())
	exprStmt := stmts[0].(*ast.ExprStmt)
	assign, ok := exprStmt.Expression.(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, "x", assign.Name.Lexeme)
}

func TestParse_InvalidAssignmentTargetIsReported(t *testing.T) {
	stmts, sink := parse(t, "1 + 2 = 3;")
	assert.True(t, sink.HasAny())
	assert.Empty(t, stmts)
}

func TestParse_BlockStatement(t *testing.T) {
	stmts, sink := parse(t, "{ var x = 1; x = 2; }")
	require.False(t, sink.HasAny())
	block, ok := stmts[0].(*ast.BlockStmt)
	require.True(t, ok)
	assert.Len(t, block.Statements, 2)
}

func TestParse_IfElse(t *testing.T) {
	stmts, sink := parse(t, "if (true) print 1; else print 2;")
	require.False(t, sink.HasAny())
	ifStmt, ok := stmts[0].(*ast.IfStmt)
	require.True(t, ok)
	assert.NotNil(t, ifStmt.Then)
	assert.NotNil(t, ifStmt.Else)
}

func TestParse_WhileStatement(t *testing.T) {
	stmts, sink := parse(t, "while (true) print 1;")
	require.False(t, sink.HasAny())
	_, ok := stmts[0].(*ast.WhileStmt)
	assert.True(t, ok)
}

func TestParse_ForDesugarsToWhileInBlock(t *testing.T) {
	stmts, sink := parse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.False(t, sink.HasAny())
	require.Len(t, stmts, 1)

	outer, ok := stmts[0].(*ast.BlockStmt)
	require.True(t, ok)
	require.Len(t, outer.Statements, 2)

	_, ok = outer.Statements[0].(*ast.VarStmt)
	assert.True(t, ok)

	whileStmt, ok := outer.Statements[1].(*ast.WhileStmt)
	require.True(t, ok)

	body, ok := whileStmt.Body.(*ast.BlockStmt)
	require.True(t, ok)
	assert.Len(t, body.Statements, 2)
}

func TestParse_ForWithoutConditionDefaultsTrue(t *testing.T) {
	stmts, sink := parse(t, "for (;;) print 1;")
	require.False(t, sink.HasAny())
	whileStmt, ok := stmts[0].(*ast.WhileStmt)
	require.True(t, ok)
	lit, ok := whileStmt.Condition.(*ast.Literal)
	require.True(t, ok)
	assert.True(t, lit.Value.Equal(value.Bool(true)))
}

func TestParse_SynchronizeAfterErrorResumesAtNextStatement(t *testing.T) {
	stmts, sink := parse(t, "var = 1; print 2;")
	assert.True(t, sink.HasAny())
	require.Len(t, stmts, 1)
	printStmt, ok := stmts[0].(*ast.PrintStmt)
	require.True(t, ok)
	lit := printStmt.Expression.(*ast.Literal)
	assert.True(t, lit.Value.Equal(value.Number(2)))
}

func TestParse_MissingSemicolonIsReported(t *testing.T) {
	stmts, sink := parse(t, "print 1")
	assert.True(t, sink.HasAny())
	assert.Empty(t, stmts)
}

func TestParse_LogicalOperatorsParseAsLogicalNode(t *testing.T) {
	stmts, sink := parse(t, "true and false or true;")
	require.False(t, sink.HasAny())
	exprStmt := stmts[0].(*ast.ExprStmt)
	logical, ok := exprStmt.Expression.(*ast.Logical)
	require.True(t, ok)
	assert.Equal(t, lexer.OR, logical.Op.Type)
}
