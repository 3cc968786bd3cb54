/*
File    : golox/interp/interpreter.go
*/

// Package interp walks the statement list a parser produces and
// executes it against a chained lexical environment. Evaluation is a
// plain recursive type switch over the sealed ast.Expr and ast.Stmt
// interfaces rather than a visitor/Accept double dispatch — see the
// ast package doc comment.
package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/golox-lang/golox/ast"
	"github.com/golox-lang/golox/diag"
	"github.com/golox-lang/golox/lexer"
	"github.com/golox-lang/golox/value"
)

// Interpreter owns the global environment and the diagnostic sink
// shared with the lexer and parser. A single Interpreter can execute
// many statement lists in sequence (the REPL reuses one across lines so
// variables persist between them).
type Interpreter struct {
	globals *Environment
	env     *Environment
	sink    *diag.Sink
	out     io.Writer
}

// New creates an Interpreter with a fresh global environment, writing
// `print` output to w (pass os.Stdout for normal use).
func New(sink *diag.Sink, w io.Writer) *Interpreter {
	globals := NewEnvironment(nil)
	return &Interpreter{globals: globals, env: globals, sink: sink, out: w}
}

// NewStdout is a convenience constructor writing to os.Stdout.
func NewStdout(sink *diag.Sink) *Interpreter {
	return New(sink, os.Stdout)
}

// SetSink swaps the diagnostic sink used by subsequent Interpret calls,
// leaving the global environment untouched. The REPL uses this to give
// each line its own sink while keeping variable bindings alive across
// lines.
func (in *Interpreter) SetSink(sink *diag.Sink) {
	in.sink = sink
}

// runtimeError is the internal control-flow signal used to unwind a
// single statement's evaluation on a runtime failure. It never escapes
// this package; execTopLevel recovers it and Interpret records it to the
// sink.
type runtimeError struct {
	line    int
	message string
}

func (e *runtimeError) Error() string { return e.message }

func fail(line int, format string, args ...any) *runtimeError {
	return &runtimeError{line: line, message: fmt.Sprintf(format, args...)}
}

// Interpret executes each statement in order. A runtime failure aborts
// only the statement in which it occurred (and, via Go's normal call
// stack unwinding, any block it was nested in) — the remaining
// top-level statements still run.
func (in *Interpreter) Interpret(statements []ast.Stmt) {
	for _, stmt := range statements {
		if err := in.execTopLevel(stmt); err != nil {
			in.sink.Runtime(err.line, err.message)
		}
	}
}

func (in *Interpreter) execTopLevel(stmt ast.Stmt) (err *runtimeError) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(*runtimeError); ok {
				err = rerr
				return
			}
			panic(r)
		}
	}()
	in.execute(stmt)
	return nil
}

// execute dispatches a single statement. Runtime failures are raised by
// panicking with *runtimeError, caught at Interpret's per-statement
// boundary (or, for Block, left to propagate after the scope has been
// restored — see executeBlock).
func (in *Interpreter) execute(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		in.evaluate(s.Expression)
	case *ast.PrintStmt:
		v := in.evaluate(s.Expression)
		fmt.Fprintln(in.out, v.String())
	case *ast.VarStmt:
		v := value.Nil
		if s.Initializer != nil {
			v = in.evaluate(s.Initializer)
		}
		in.env.Define(s.Name.Lexeme, v)
	case *ast.BlockStmt:
		in.executeBlock(s.Statements, NewEnvironment(in.env))
	case *ast.IfStmt:
		if truthy(in.evaluate(s.Condition)) {
			in.execute(s.Then)
		} else if s.Else != nil {
			in.execute(s.Else)
		}
	case *ast.WhileStmt:
		for truthy(in.evaluate(s.Condition)) {
			in.execute(s.Body)
		}
	default:
		panic(fmt.Sprintf("interp: unhandled statement type %T", stmt))
	}
}

// executeBlock enters a fresh child environment, runs the statements,
// and restores the previous environment on every exit path — normal
// completion or a runtime panic unwinding through it.
func (in *Interpreter) executeBlock(statements []ast.Stmt, blockEnv *Environment) {
	previous := in.env
	in.env = blockEnv
	defer func() { in.env = previous }()

	for _, stmt := range statements {
		in.execute(stmt)
	}
}

// evaluate dispatches a single expression and returns its Value.
func (in *Interpreter) evaluate(expr ast.Expr) value.Value {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value
	case *ast.Grouping:
		return in.evaluate(e.Expression)
	case *ast.Unary:
		return in.evalUnary(e)
	case *ast.Binary:
		return in.evalBinary(e)
	case *ast.Logical:
		return in.evalLogical(e)
	case *ast.Variable:
		return in.evalVariable(e)
	case *ast.Assign:
		return in.evalAssign(e)
	default:
		panic(fmt.Sprintf("interp: unhandled expression type %T", expr))
	}
}

func (in *Interpreter) evalUnary(e *ast.Unary) value.Value {
	right := in.evaluate(e.Right)
	switch e.Op.Type {
	case lexer.BANG:
		return value.Bool(!truthy(right))
	case lexer.MINUS:
		if right.Kind() != value.KindNumber {
			panic(fail(e.Op.Line, "Operand must be a number."))
		}
		return value.Number(-right.AsNumber())
	default:
		panic(fmt.Sprintf("interp: unhandled unary operator %v", e.Op.Type))
	}
}

// evalBinary evaluates left before right, always, and implements every
// arithmetic, comparison, equality and `+` rule.
func (in *Interpreter) evalBinary(e *ast.Binary) value.Value {
	left := in.evaluate(e.Left)
	right := in.evaluate(e.Right)

	switch e.Op.Type {
	case lexer.PLUS:
		if left.Kind() == value.KindNumber && right.Kind() == value.KindNumber {
			return value.Number(left.AsNumber() + right.AsNumber())
		}
		if left.Kind() == value.KindString && right.Kind() == value.KindString {
			return value.String(left.AsString() + right.AsString())
		}
		panic(fail(e.Op.Line, "Operands must be two numbers or two strings."))
	case lexer.MINUS:
		l, r := in.numberOperands(e.Op.Line, left, right)
		return value.Number(l - r)
	case lexer.STAR:
		l, r := in.numberOperands(e.Op.Line, left, right)
		return value.Number(l * r)
	case lexer.SLASH:
		l, r := in.numberOperands(e.Op.Line, left, right)
		return value.Number(l / r)
	case lexer.GREATER:
		l, r := in.numberOperands(e.Op.Line, left, right)
		return value.Bool(l > r)
	case lexer.GREATER_EQUAL:
		l, r := in.numberOperands(e.Op.Line, left, right)
		return value.Bool(l >= r)
	case lexer.LESS:
		l, r := in.numberOperands(e.Op.Line, left, right)
		return value.Bool(l < r)
	case lexer.LESS_EQUAL:
		l, r := in.numberOperands(e.Op.Line, left, right)
		return value.Bool(l <= r)
	case lexer.EQUAL_EQUAL:
		return value.Bool(left.Equal(right))
	case lexer.BANG_EQUAL:
		return value.Bool(!left.Equal(right))
	default:
		panic(fmt.Sprintf("interp: unhandled binary operator %v", e.Op.Type))
	}
}

// numberOperands requires both operands to be Number, failing with the
// binary-operand message otherwise. Division by a non-zero number, and
// by zero, both fall out of plain float64 division with strict
// IEEE-754 semantics — no special-casing of zero divisors.
func (in *Interpreter) numberOperands(line int, left, right value.Value) (float64, float64) {
	if left.Kind() != value.KindNumber || right.Kind() != value.KindNumber {
		panic(fail(line, "Operands must be numbers."))
	}
	return left.AsNumber(), right.AsNumber()
}

// evalLogical short-circuits: `or` returns the left operand unchanged
// when it is truthy, `and` returns it unchanged when it is falsy;
// neither coerces the result to Bool.
func (in *Interpreter) evalLogical(e *ast.Logical) value.Value {
	left := in.evaluate(e.Left)
	if e.Op.Type == lexer.OR {
		if truthy(left) {
			return left
		}
	} else {
		if !truthy(left) {
			return left
		}
	}
	return in.evaluate(e.Right)
}

func (in *Interpreter) evalVariable(e *ast.Variable) value.Value {
	if v, ok := in.env.Get(e.Name.Lexeme); ok {
		return v
	}
	panic(fail(e.Name.Line, "%s", in.undefinedVariableMessage(e.Name.Lexeme)))
}

func (in *Interpreter) evalAssign(e *ast.Assign) value.Value {
	v := in.evaluate(e.Value)
	if in.env.Assign(e.Name.Lexeme, v) {
		return v
	}
	panic(fail(e.Name.Line, "%s", in.undefinedVariableMessage(e.Name.Lexeme)))
}

// truthy: nil is false, booleans are themselves, every other value is
// true.
func truthy(v value.Value) bool {
	switch v.Kind() {
	case value.KindNil:
		return false
	case value.KindBool:
		return v.AsBool()
	default:
		return true
	}
}
