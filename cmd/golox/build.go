/*
File    : golox/cmd/golox/build.go
*/
package main

import (
	"fmt"
	"os"

	"github.com/golox-lang/golox/astcache"
	"github.com/golox-lang/golox/diag"
	"github.com/golox-lang/golox/lexer"
	"github.com/golox-lang/golox/parser"
)

// buildFile lexes and parses the source at path and writes its ".loxc"
// cache alongside it, without ever reaching the interpreter. A
// lex/syntax diagnostic is reported exactly as runFile reports one, but
// there is no equivalent of a runtime diagnostic here since nothing
// executes.
func buildFile(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	sink := &diag.Sink{}
	lx := lexer.New(string(src), sink)
	tokens := lx.ScanTokens()
	if sink.HasAny() {
		return report(sink)
	}

	ps := parser.New(tokens, sink)
	statements := ps.Parse()
	if sink.HasAny() {
		return report(sink)
	}

	if err := astcache.Save(astcache.PathFor(path), statements, string(src)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitSoftware
	}
	return exitOK
}
