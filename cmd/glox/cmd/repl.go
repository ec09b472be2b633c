package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/sdecook/glox/internal/lox"
	"github.com/spf13/cobra"
)

// runRepl implements the root command's default behavior: an interactive
// prompt that feeds one line at a time through the pipeline against a single
// persistent Interpreter, so declarations made on one line are visible to
// the next. A line with an error is reported and skipped; the REPL keeps
// running rather than exiting (unlike `glox run`, which exits non-zero on
// the first error).
func runRepl(_ *cobra.Command, _ []string) error {
	logger := traceLogger()
	reporter := lox.NewColorReporter(os.Stderr, noColor)
	interp := lox.NewInterpreter(os.Stdout)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := scanner.Text()
		logger.Debug("repl line", "source", line)

		reporter.Reset()
		lox.RunWith(line, interp, reporter)

		fmt.Print("> ")
	}
	return nil
}
