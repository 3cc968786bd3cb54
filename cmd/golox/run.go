/*
File    : golox/cmd/golox/run.go
*/
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"

	"github.com/golox-lang/golox/astcache"
	"github.com/golox-lang/golox/config"
	"github.com/golox-lang/golox/diag"
	"github.com/golox-lang/golox/interp"
	"github.com/golox-lang/golox/lexer"
	"github.com/golox-lang/golox/parser"
	"github.com/golox-lang/golox/repl"
)

var errColor = color.New(color.FgRed)

// runFile interprets the source at path once, returning the process
// exit code its diagnostics imply. A fresh ".loxc" cache (written by a
// prior `golox build` or `golox run`) lets it skip lexing and parsing
// entirely; a stale or absent cache falls back to the full pipeline and
// refreshes the cache for next time.
func runFile(path string, cfg config.Config) int {
	if !cfg.Color {
		color.NoColor = true
	}

	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	sink := &diag.Sink{}
	cachePath := astcache.PathFor(path)

	statements, ok, err := astcache.Load(cachePath, string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	if !ok {
		lx := lexer.New(string(src), sink)
		tokens := lx.ScanTokens()
		if sink.HasAny() {
			return report(sink)
		}

		ps := parser.New(tokens, sink)
		statements = ps.Parse()
		if sink.HasAny() {
			return report(sink)
		}

		if err := astcache.Save(cachePath, statements, string(src)); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	in := interp.New(sink, os.Stdout)
	in.Interpret(statements)
	if sink.HasAny() {
		return report(sink)
	}
	return exitOK
}

// report prints every queued diagnostic and returns the matching exit
// code: 70 if any diagnostic was a runtime failure, 65 otherwise.
func report(sink *diag.Sink) int {
	hasRuntime := sink.HasRuntime()
	for _, d := range sink.Drain() {
		errColor.Fprintln(os.Stderr, d.String())
	}
	if hasRuntime {
		return exitSoftware
	}
	return exitDataError
}

func runREPL(cfg config.Config) error {
	r := repl.New(cfg, os.Stdout)
	repl.PrintUsage(os.Stdout)
	return r.Run(os.Stdout)
}

// runWatch re-runs path every time fsnotify reports it changed,
// debounced by cfg.WatchDebounceMS so a burst of writes from an editor
// only triggers one re-run. Runs happen on this goroutine, one at a
// time; events that arrive during a run are read after it finishes.
func runWatch(path string, cfg config.Config) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "watching %s (ctrl-c to stop)\n", path)
	runFile(path, cfg)

	debounce := time.Duration(cfg.WatchDebounceMS) * time.Millisecond
	var pending <-chan time.Time // nil (never ready) until a change arrives

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending = time.After(debounce)
		case <-pending:
			pending = nil
			runFile(path, cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
