package cmd

import (
	"fmt"
	"os"

	"github.com/sdecook/glox/internal/lox"
	"github.com/spf13/cobra"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize FILE",
	Short: "Print the token stream for a Lox script",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
}

func runTokenize(_ *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	reporter := lox.NewColorReporter(os.Stderr, noColor)
	tokens := lox.Tokenize(string(source), reporter)
	for _, t := range tokens {
		fmt.Println(t.String())
	}

	if reporter.HadError() {
		exitCode = 65
	}
	return nil
}
