// Package lox implements a tree-walking interpreter for the Lox scripting
// language: scanning, parsing, static resolution, and evaluation.
package lox

import "io"

// Run drives source through the full pipeline — scan, parse, resolve,
// evaluate — against a fresh Interpreter, writing `print` output to out and
// diagnostics to reporter. It is the entry point used for one-shot script
// execution (glox run FILE).
//
// Parsing and resolution errors abort evaluation: reporter.HadError() is
// true and Run returns without executing anything. A runtime error aborts
// mid-execution and is reported through reporter.RuntimeError.
func Run(source string, out io.Writer, reporter Reporter) {
	interp := NewInterpreter(out)
	RunWith(source, interp, reporter)
}

// RunWith drives source through the pipeline against an existing
// Interpreter, so top-level declarations persist across calls — the shape a
// REPL needs, where each line should see variables and functions defined by
// earlier lines.
func RunWith(source string, interp *Interpreter, reporter Reporter) {
	tokens := NewScanner(source, reporter).ScanTokens()
	if reporter.HadError() {
		return
	}

	decls := NewParser(tokens, reporter).Parse()
	if reporter.HadError() {
		return
	}

	NewResolver(reporter).Resolve(decls)
	if reporter.HadError() {
		return
	}

	interp.Interpret(decls, reporter)
}

// Tokenize runs only the scanner, for glox tokenize.
func Tokenize(source string, reporter Reporter) []Token {
	return NewScanner(source, reporter).ScanTokens()
}

// Parse runs the scanner and parser, for glox parse.
func Parse(source string, reporter Reporter) []Declaration {
	tokens := NewScanner(source, reporter).ScanTokens()
	if reporter.HadError() {
		return nil
	}
	return NewParser(tokens, reporter).Parse()
}
