/*
File    : golox/cmd/golox/root.go
*/

// Command golox is the GoLox driver: run a script file, start an
// interactive REPL when no file is given, or manage its ".loxc" parse
// cache.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/golox-lang/golox/config"
)

// Exit codes match the conventions of Unix interpreters that
// distinguish usage errors from the program's own failures.
const (
	exitOK        = 0
	exitDataError = 65 // lexical or syntax error (EX_DATAERR)
	exitSoftware  = 70 // runtime error (EX_SOFTWARE)
	exitUsage     = 64 // bad command-line invocation (EX_USAGE)
)

func main() {
	var (
		noColor bool
		watch   bool
	)

	loadConfig := func() (config.Config, error) {
		cfg, err := config.Load(".")
		if err != nil {
			return config.Config{}, err
		}
		if noColor {
			color.NoColor = true
			cfg.Color = false
		}
		return cfg, nil
	}

	root := &cobra.Command{
		Use:           "golox [script]",
		Short:         "Lex, parse, and execute Lox source files",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				return runREPL(cfg)
			}

			path := args[0]
			if watch {
				return runWatch(path, cfg)
			}
			code := runFile(path, cfg)
			if code != exitOK {
				os.Exit(code)
			}
			return nil
		},
	}

	runCmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Execute a script file, optionally re-running it on change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			path := args[0]
			if watch {
				return runWatch(path, cfg)
			}
			code := runFile(path, cfg)
			if code != exitOK {
				os.Exit(code)
			}
			return nil
		},
	}

	buildCmd := &cobra.Command{
		Use:   "build <script>",
		Short: "Parse a script and write its .loxc cache without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := buildFile(args[0])
			if code != exitOK {
				os.Exit(code)
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored diagnostic output")
	root.PersistentFlags().BoolVar(&watch, "watch", false, "Re-run the script whenever it changes on disk")
	root.AddCommand(runCmd, buildCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
}
