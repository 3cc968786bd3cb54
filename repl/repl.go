/*
File    : golox/repl/repl.go
*/

// Package repl implements the interactive Read-Eval-Print Loop for
// GoLox. Each line the user enters is lexed, parsed, and executed
// against a single Interpreter that persists across the whole session,
// so a variable declared on one line is visible on the next. A line
// must be a complete, ';'-terminated statement just as in file mode —
// the REPL does not special-case a bare trailing expression.
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/golox-lang/golox/config"
	"github.com/golox-lang/golox/diag"
	"github.com/golox-lang/golox/interp"
	"github.com/golox-lang/golox/lexer"
	"github.com/golox-lang/golox/parser"
)

var (
	bannerColor = color.New(color.FgGreen)
	errorColor  = color.New(color.FgRed)
	infoColor   = color.New(color.FgCyan)
)

// REPL bundles the presentation settings and the persistent interpreter
// state for one interactive session.
type REPL struct {
	cfg config.Config
	in  *interp.Interpreter
}

// New creates a REPL that writes evaluation output to w, configured by
// cfg.
func New(cfg config.Config, w io.Writer) *REPL {
	sink := &diag.Sink{}
	return &REPL{cfg: cfg, in: interp.New(sink, w)}
}

// Run starts the loop, reading from stdin via readline and writing to
// w, until EOF (Ctrl+D) or a readline error ends the session.
func (r *REPL) Run(w io.Writer) error {
	if !r.cfg.Color {
		color.NoColor = true
	}
	if r.cfg.Banner != "" {
		bannerColor.Fprintln(w, r.cfg.Banner)
	}

	rl, err := readline.New(r.cfg.Prompt)
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF on Ctrl+D, readline.ErrInterrupt on Ctrl+C
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rl.SaveHistory(line)

		r.evalLine(w, line)
	}
}

// evalLine runs one line through the full pipeline, printing any
// diagnostics it collects. A failure on one line never aborts the
// session — the interpreter's global environment survives into the
// next Readline call.
func (r *REPL) evalLine(w io.Writer, line string) {
	sink := &diag.Sink{}

	lx := lexer.New(line, sink)
	tokens := lx.ScanTokens()

	ps := parser.New(tokens, sink)
	statements := ps.Parse()

	if sink.HasAny() {
		for _, d := range sink.Drain() {
			errorColor.Fprintln(w, d.String())
		}
		return
	}

	r.in.SetSink(sink)
	r.in.Interpret(statements)
	for _, d := range sink.Drain() {
		errorColor.Fprintln(w, d.String())
	}
}

// PrintUsage writes a short help message, shown once at startup.
func PrintUsage(w io.Writer) {
	infoColor.Fprintln(w, "Enter ';'-terminated GoLox statements. Ctrl+D to exit.")
}
