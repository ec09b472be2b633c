package lox

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Reporter is the single external collaborator every pipeline stage calls
// through to surface a diagnostic. It tracks whether any lexical/parse error
// or runtime error has been reported so the CLI layer can decide an exit
// code without each stage threading a bool back up by hand.
type Reporter interface {
	Error(line int, message string)
	ErrorAt(token Token, message string)
	RuntimeError(err *RuntimeError)
	HadError() bool
	HadRuntimeError() bool
	Reset()
}

// ColorReporter writes diagnostics to an io.Writer, colorizing them with
// fatih/color when the destination looks like a terminal. It is the default
// Reporter used by cmd/glox.
type ColorReporter struct {
	out             io.Writer
	color           bool
	hadError        bool
	hadRuntimeError bool
}

// NewColorReporter builds a Reporter writing to w. When w is os.Stderr, color
// is auto-detected via go-isatty unless forceNoColor is set (wired to
// --no-color / NO_COLOR).
func NewColorReporter(w io.Writer, forceNoColor bool) *ColorReporter {
	useColor := !forceNoColor
	if f, ok := w.(*os.File); ok {
		useColor = useColor && isatty.IsTerminal(f.Fd())
		if useColor {
			w = colorable.NewColorable(f)
		}
	} else {
		useColor = false
	}
	return &ColorReporter{out: w, color: useColor}
}

func (r *ColorReporter) paint(s string, c *color.Color) string {
	if !r.color {
		return s
	}
	return c.Sprint(s)
}

func (r *ColorReporter) Error(line int, message string) {
	r.report(line, "", message)
}

func (r *ColorReporter) ErrorAt(token Token, message string) {
	where := " at end"
	if token.Type != EOF {
		where = " at '" + token.Lexeme + "'"
	}
	r.report(token.Line, where, message)
}

func (r *ColorReporter) report(line int, where, message string) {
	prefix := r.paint(fmt.Sprintf("[line %d] Error%s:", line, where), color.New(color.FgRed, color.Bold))
	fmt.Fprintf(r.out, "%s %s\n", prefix, message)
	r.hadError = true
}

func (r *ColorReporter) RuntimeError(err *RuntimeError) {
	prefix := r.paint(fmt.Sprintf("[line %d]", err.Token.Line), color.New(color.FgRed, color.Bold))
	fmt.Fprintf(r.out, "%s\n%s\n", err.Message, prefix)
	r.hadRuntimeError = true
}

func (r *ColorReporter) HadError() bool        { return r.hadError }
func (r *ColorReporter) HadRuntimeError() bool { return r.hadRuntimeError }

func (r *ColorReporter) Reset() {
	r.hadError = false
	r.hadRuntimeError = false
}
