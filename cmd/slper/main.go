// Package main provides the slper command-line tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// logger is built from --log-level before any subcommand runs.
var logger = zap.NewNop()

// usageError marks errors caused by bad invocation rather than bad input.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	return execute(args, os.Stdout)
}

// execute runs the command line in args, writing command output to stdout.
func execute(args []string, stdout io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)

	err := root.Execute()
	logger.Sync() //nolint:errcheck
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var ue *usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(os.Stderr, "Run 'slper --help' for usage.\n")
			return ExitUsage
		}
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Hint: Check that the file path is correct\n")
		}
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	setDefaults()

	root := &cobra.Command{
		Use:   "slper",
		Short: "Parse SLiM simulation output",
		Long: `slper parses SLiM population-genetics simulation output (dense frequency
matrices, ragged mutation logs and statistics tables) and writes frequency
tables, temporal covariances and DuckDB or Arrow exports.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cfgFile); err != nil {
				return err
			}
			l, err := newLogger(viper.GetString("log_level"))
			if err != nil {
				return &usageError{err}
			}
			logger = l
			return nil
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default: ~/.slper.yaml)")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("delimiter", "\t", "Field delimiter")
	viper.BindPFlag("log_level", pf.Lookup("log-level")) //nolint:errcheck
	viper.BindPFlag("delimiter", pf.Lookup("delimiter")) //nolint:errcheck

	root.AddCommand(newFreqCmd())
	root.AddCommand(newCovCmd())
	root.AddCommand(newParamsCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newQueryCmd())
	root.AddCommand(newConfigCmd())

	return root
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	}
}
