package cmd

import (
	"fmt"
	"os"

	"github.com/sdecook/glox/internal/lox"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Print the parsed AST for a Lox script",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	reporter := lox.NewColorReporter(os.Stderr, noColor)
	decls := lox.Parse(string(source), reporter)
	fmt.Print(lox.PrintAst(decls))

	if reporter.HadError() {
		exitCode = 65
	}
	return nil
}
