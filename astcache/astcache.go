/*
File    : golox/astcache/astcache.go
*/

// Package astcache memoizes a parsed program on disk so a later run over
// unchanged source can skip both the lex and parse stages entirely. An
// entry is a CBOR-serializable mirror of the parsed statement list
// (ast.Stmt and ast.Expr are sealed interfaces with unexported marker
// methods, so they cannot be decoded directly), keyed by a BLAKE2s-128
// digest of the source text. A digest mismatch, a missing file, or a
// corrupt file are all treated as a plain cache miss, never an error the
// caller needs to handle specially.
package astcache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2s"

	"github.com/golox-lang/golox/ast"
	"github.com/golox-lang/golox/lexer"
	"github.com/golox-lang/golox/value"
)

// CachedProgram is the on-disk, CBOR-encoded mirror of a parsed
// statement list.
type CachedProgram struct {
	Version     uint8
	ContentHash [16]byte
	Statements  []wireStmt
}

const formatVersion uint8 = 1

// cacheKey is a fixed, non-secret domain-separation key for the
// BLAKE2s-128 digest. It only distinguishes this cache's digests from
// any other BLAKE2s-128 use in the process; it is not a security
// boundary, so there is nothing to keep secret.
var cacheKey = []byte("golox-astcache-v1")

// Hash returns the BLAKE2s-128 digest Save and Load key entries on.
func Hash(source string) [16]byte {
	h, err := blake2s.New128(cacheKey)
	if err != nil {
		panic(fmt.Sprintf("astcache: fixed cache key rejected: %v", err))
	}
	h.Write([]byte(source))
	var out [16]byte
	copy(out[:], h.Sum(nil))
	return out
}

// PathFor returns the canonical cache artifact location for a script:
// its path with ".loxc" appended, sitting next to the source exactly as
// `golox build` leaves it.
func PathFor(scriptPath string) string {
	return scriptPath + ".loxc"
}

// Save writes the parsed statement list for source to path, tagged with
// source's content hash. It overwrites any existing file.
func Save(path string, statements []ast.Stmt, source string) error {
	prog := CachedProgram{
		Version:     formatVersion,
		ContentHash: Hash(source),
		Statements:  make([]wireStmt, len(statements)),
	}
	for i, s := range statements {
		prog.Statements[i] = encodeStmt(s)
	}

	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return fmt.Errorf("astcache: building encoder: %w", err)
	}
	data, err := encMode.Marshal(prog)
	if err != nil {
		return fmt.Errorf("astcache: encoding: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("astcache: creating cache dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads the cache at path and returns its statement list if, and
// only if, source's content hash matches the stored one, letting the
// caller skip both lexing and parsing. A missing file, a corrupt file,
// or a hash mismatch (stale cache) all report ok=false with a nil
// error — any of those is a normal cache miss, not a failure.
func Load(path, source string) (statements []ast.Stmt, ok bool, err error) {
	data, readErr := os.ReadFile(path)
	if os.IsNotExist(readErr) {
		return nil, false, nil
	}
	if readErr != nil {
		return nil, false, fmt.Errorf("astcache: reading %s: %w", path, readErr)
	}

	var prog CachedProgram
	if err := cbor.Unmarshal(data, &prog); err != nil {
		return nil, false, nil
	}
	if prog.Version != formatVersion {
		return nil, false, nil
	}
	if prog.ContentHash != Hash(source) {
		return nil, false, nil
	}

	statements = make([]ast.Stmt, len(prog.Statements))
	for i, w := range prog.Statements {
		statements[i] = decodeStmt(w)
	}
	return statements, true, nil
}

// wireExpr is a CBOR-friendly, discriminated-union mirror of ast.Expr:
// Kind selects which of the remaining fields are meaningful, the same
// tagged-struct-instead-of-interface shape CBOR needs for any closed
// sum type.
type wireExpr struct {
	Kind string // "literal", "grouping", "unary", "binary", "logical", "variable", "assign"

	// literal
	LiteralKind string // "nil", "bool", "number", "string"
	Bool        bool
	Number      float64
	Str         string

	// grouping's and unary's sole operand
	Operand *wireExpr

	// unary/binary/logical operator
	Op       lexer.TokenType
	OpLexeme string
	OpLine   int

	// binary/logical operands
	Left  *wireExpr
	Right *wireExpr

	// variable/assign
	Name     string
	NameLine int
	Value    *wireExpr // assign's right-hand side
}

// wireStmt is the statement-level counterpart of wireExpr.
type wireStmt struct {
	Kind string // "expr", "print", "var", "block", "if", "while"

	Expression *wireExpr // exprStmt/printStmt

	Name        string // varStmt
	NameLine    int
	Initializer *wireExpr // nil means no initializer clause

	Statements []wireStmt // blockStmt

	Condition *wireExpr // if/while
	Then      *wireStmt
	Else      *wireStmt // nil when there is no else branch

	Body *wireStmt // while
}

func encodeExpr(e ast.Expr) *wireExpr {
	switch x := e.(type) {
	case *ast.Literal:
		w := &wireExpr{Kind: "literal"}
		switch x.Value.Kind() {
		case value.KindNil:
			w.LiteralKind = "nil"
		case value.KindBool:
			w.LiteralKind = "bool"
			w.Bool = x.Value.AsBool()
		case value.KindNumber:
			w.LiteralKind = "number"
			w.Number = x.Value.AsNumber()
		case value.KindString:
			w.LiteralKind = "string"
			w.Str = x.Value.AsString()
		}
		return w
	case *ast.Grouping:
		return &wireExpr{Kind: "grouping", Operand: encodeExpr(x.Expression)}
	case *ast.Unary:
		return &wireExpr{
			Kind: "unary", Op: x.Op.Type, OpLexeme: x.Op.Lexeme, OpLine: x.Op.Line,
			Operand: encodeExpr(x.Right),
		}
	case *ast.Binary:
		return &wireExpr{
			Kind: "binary", Op: x.Op.Type, OpLexeme: x.Op.Lexeme, OpLine: x.Op.Line,
			Left: encodeExpr(x.Left), Right: encodeExpr(x.Right),
		}
	case *ast.Logical:
		return &wireExpr{
			Kind: "logical", Op: x.Op.Type, OpLexeme: x.Op.Lexeme, OpLine: x.Op.Line,
			Left: encodeExpr(x.Left), Right: encodeExpr(x.Right),
		}
	case *ast.Variable:
		return &wireExpr{Kind: "variable", Name: x.Name.Lexeme, NameLine: x.Name.Line}
	case *ast.Assign:
		return &wireExpr{Kind: "assign", Name: x.Name.Lexeme, NameLine: x.Name.Line, Value: encodeExpr(x.Value)}
	default:
		panic(fmt.Sprintf("astcache: unhandled expression type %T", e))
	}
}

func decodeExpr(w *wireExpr) ast.Expr {
	if w == nil {
		return nil
	}
	switch w.Kind {
	case "literal":
		switch w.LiteralKind {
		case "nil":
			return &ast.Literal{Value: value.Nil}
		case "bool":
			return &ast.Literal{Value: value.Bool(w.Bool)}
		case "number":
			return &ast.Literal{Value: value.Number(w.Number)}
		case "string":
			return &ast.Literal{Value: value.String(w.Str)}
		}
	case "grouping":
		return &ast.Grouping{Expression: decodeExpr(w.Operand)}
	case "unary":
		return &ast.Unary{Op: lexer.NewToken(w.Op, w.OpLexeme, w.OpLine), Right: decodeExpr(w.Operand)}
	case "binary":
		return &ast.Binary{
			Left: decodeExpr(w.Left), Op: lexer.NewToken(w.Op, w.OpLexeme, w.OpLine), Right: decodeExpr(w.Right),
		}
	case "logical":
		return &ast.Logical{
			Left: decodeExpr(w.Left), Op: lexer.NewToken(w.Op, w.OpLexeme, w.OpLine), Right: decodeExpr(w.Right),
		}
	case "variable":
		return &ast.Variable{Name: lexer.NewToken(lexer.IDENTIFIER, w.Name, w.NameLine)}
	case "assign":
		return &ast.Assign{Name: lexer.NewToken(lexer.IDENTIFIER, w.Name, w.NameLine), Value: decodeExpr(w.Value)}
	}
	panic(fmt.Sprintf("astcache: unhandled wire expression kind %q", w.Kind))
}

func encodeStmt(s ast.Stmt) wireStmt {
	switch x := s.(type) {
	case *ast.ExprStmt:
		return wireStmt{Kind: "expr", Expression: encodeExpr(x.Expression)}
	case *ast.PrintStmt:
		return wireStmt{Kind: "print", Expression: encodeExpr(x.Expression)}
	case *ast.VarStmt:
		w := wireStmt{Kind: "var", Name: x.Name.Lexeme, NameLine: x.Name.Line}
		if x.Initializer != nil {
			w.Initializer = encodeExpr(x.Initializer)
		}
		return w
	case *ast.BlockStmt:
		stmts := make([]wireStmt, len(x.Statements))
		for i, inner := range x.Statements {
			stmts[i] = encodeStmt(inner)
		}
		return wireStmt{Kind: "block", Statements: stmts}
	case *ast.IfStmt:
		w := wireStmt{Kind: "if", Condition: encodeExpr(x.Condition)}
		then := encodeStmt(x.Then)
		w.Then = &then
		if x.Else != nil {
			els := encodeStmt(x.Else)
			w.Else = &els
		}
		return w
	case *ast.WhileStmt:
		body := encodeStmt(x.Body)
		return wireStmt{Kind: "while", Condition: encodeExpr(x.Condition), Body: &body}
	default:
		panic(fmt.Sprintf("astcache: unhandled statement type %T", s))
	}
}

func decodeStmt(w wireStmt) ast.Stmt {
	switch w.Kind {
	case "expr":
		return &ast.ExprStmt{Expression: decodeExpr(w.Expression)}
	case "print":
		return &ast.PrintStmt{Expression: decodeExpr(w.Expression)}
	case "var":
		return &ast.VarStmt{Name: lexer.NewToken(lexer.IDENTIFIER, w.Name, w.NameLine), Initializer: decodeExpr(w.Initializer)}
	case "block":
		stmts := make([]ast.Stmt, len(w.Statements))
		for i, inner := range w.Statements {
			stmts[i] = decodeStmt(inner)
		}
		return &ast.BlockStmt{Statements: stmts}
	case "if":
		var elseStmt ast.Stmt
		if w.Else != nil {
			elseStmt = decodeStmt(*w.Else)
		}
		return &ast.IfStmt{Condition: decodeExpr(w.Condition), Then: decodeStmt(*w.Then), Else: elseStmt}
	case "while":
		return &ast.WhileStmt{Condition: decodeExpr(w.Condition), Body: decodeStmt(*w.Body)}
	}
	panic(fmt.Sprintf("astcache: unhandled wire statement kind %q", w.Kind))
}
