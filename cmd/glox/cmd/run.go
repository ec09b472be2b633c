package cmd

import (
	"os"

	"github.com/sdecook/glox/internal/lox"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Execute a Lox script",
	Args:  cobra.ExactArgs(1),
	RunE:  runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runScript(_ *cobra.Command, args []string) error {
	logger := traceLogger()
	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	reporter := lox.NewColorReporter(os.Stderr, noColor)
	logger.Debug("scanning", "file", args[0])
	lox.Run(string(source), os.Stdout, reporter)

	switch {
	case reporter.HadError():
		exitCode = 65
	case reporter.HadRuntimeError():
		exitCode = 70
	default:
		exitCode = 0
	}
	return nil
}
