// Package cmd implements the glox command-line tree: a REPL, one-shot
// script execution, and the tokenize/parse debug subcommands used to
// inspect each pipeline stage in isolation.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	noColor  bool
	trace    bool
	exitCode int
)

var rootCmd = &cobra.Command{
	Use:   "glox",
	Short: "A tree-walking interpreter for Lox",
	Long: `glox is a tree-walking interpreter for the Lox scripting language:
dynamically typed, with closures, classes, and single inheritance.

Run with no arguments to start an interactive REPL, or pass a script
file to "glox run" to execute it directly.`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode returns the process exit code set by whichever subcommand ran:
// 0 on success, 65 on a lexical/syntax/static error, 70 on a runtime error.
func ExitCode() int {
	return exitCode
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored diagnostic output")
	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false, "log internal pipeline stage transitions")
}
