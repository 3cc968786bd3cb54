/*
File    : golox/lexer/lexer_test.go
*/
package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/golox-lang/golox/diag"
)

func scan(src string) ([]Token, *diag.Sink) {
	var sink diag.Sink
	return New(src, &sink).ScanTokens(), &sink
}

func TestScanTokens_EmptySourceIsJustEOF(t *testing.T) {
	tokens, sink := scan("")
	assert.False(t, sink.HasAny())
	assert.Len(t, tokens, 1)
	assert.Equal(t, EOF, tokens[0].Type)
}

func TestScanTokens_Operators(t *testing.T) {
	tokens, sink := scan("(){},.-+;*!= = == <= >= < >")
	assert.False(t, sink.HasAny())

	var types []TokenType
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []TokenType{
		LEFT_PAREN, RIGHT_PAREN, LEFT_BRACE, RIGHT_BRACE, COMMA, DOT,
		MINUS, PLUS, SEMICOLON, STAR, BANG_EQUAL, EQUAL, EQUAL_EQUAL,
		LESS_EQUAL, GREATER_EQUAL, LESS, GREATER, EOF,
	}, types)
}

func TestScanTokens_LineComment(t *testing.T) {
	tokens, sink := scan("1 // a comment\n2")
	assert.False(t, sink.HasAny())
	assert.Len(t, tokens, 3)
	assert.Equal(t, NUMBER, tokens[0].Type)
	assert.Equal(t, float64(1), tokens[0].Literal)
	assert.Equal(t, 2, tokens[1].Line)
}

func TestScanTokens_StringLiteral(t *testing.T) {
	tokens, sink := scan(`"hello world"`)
	assert.False(t, sink.HasAny())
	assert.Equal(t, STRING, tokens[0].Type)
	assert.Equal(t, "hello world", tokens[0].Literal)
}

func TestScanTokens_UnterminatedStringRecordsDiagnosticAndNoToken(t *testing.T) {
	tokens, sink := scan(`"unterminated`)
	assert.True(t, sink.HasAny())
	assert.Len(t, tokens, 1) // only EOF
	diags := sink.Drain()
	assert.Equal(t, diag.Lex, diags[0].Phase)
	assert.Equal(t, "Unterminated string.", diags[0].Message)
}

func TestScanTokens_NumberLiterals(t *testing.T) {
	tokens, _ := scan("123 3.14 4.")
	assert.Equal(t, float64(123), tokens[0].Literal)
	assert.Equal(t, float64(3.14), tokens[1].Literal)
	// trailing '.' with no fractional digit is not consumed
	assert.Equal(t, float64(4), tokens[2].Literal)
	assert.Equal(t, DOT, tokens[3].Type)
}

func TestScanTokens_IdentifiersAndKeywords(t *testing.T) {
	tokens, _ := scan("var x = nil and true or false while")
	types := []TokenType{}
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []TokenType{
		VAR, IDENTIFIER, EQUAL, NIL, AND, TRUE, OR, FALSE, WHILE, EOF,
	}, types)
}

func TestScanTokens_UnexpectedCharacterRecoversAndContinues(t *testing.T) {
	tokens, sink := scan("1 @ 2")
	diags := sink.Drain()
	assert.Len(t, diags, 1)
	assert.Equal(t, "Unexpected character.", diags[0].Message)
	// scanning still produced both numbers either side of the bad char
	assert.Len(t, tokens, 3)
	assert.Equal(t, NUMBER, tokens[0].Type)
	assert.Equal(t, NUMBER, tokens[1].Type)
}

func TestScanTokens_LineTrackingAcrossNewlines(t *testing.T) {
	tokens, _ := scan("1\n2\n\n3")
	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, 2, tokens[1].Line)
	assert.Equal(t, 4, tokens[2].Line)
}

func TestScanTokens_MultiLineStringTracksLine(t *testing.T) {
	tokens, _ := scan("\"a\nb\"\n1")
	assert.Equal(t, STRING, tokens[0].Type)
	assert.Equal(t, 2, tokens[0].Line)
	assert.Equal(t, 3, tokens[1].Line)
}
