// loxtest runs the golden-fixture conformance suite under testdata/: every
// *.lox file paired with a *.expected file is executed in-process against
// internal/lox and diffed against its expected stdout/exit code. It is the
// in-process descendant of an older harness that shelled out to a separate
// reference binary per test — now that the reference side is a golden
// .expected file per fixture, there is no second process to launch.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/sdecook/glox/internal/lox"
)

// TestCase is a single golden fixture: a .lox source file plus the .expected
// JSON sidecar recording what it must produce.
type TestCase struct {
	Name     string
	Path     string
	Expected ExpectedResult
	Actual   ExpectedResult
}

// ExpectedResult is the shape of both the golden .expected sidecar and the
// result of actually running a fixture.
type ExpectedResult struct {
	Stdout   string `json:"stdout"`
	ExitCode int    `json:"exit_code"`
}

// TestSuite groups fixtures that live in the same testdata subdirectory.
type TestSuite struct {
	Name  string
	Cases []TestCase
}

// TestFramework discovers and runs every suite under a root directory.
type TestFramework struct {
	Root   string
	Suites []*TestSuite
	Total  int
	Failed []*TestCase
}

var verbose = flag.Bool("v", false, "print the full expected/actual diff for every case, not just failures")

func main() {
	flag.Parse()

	tf := &TestFramework{Root: "testdata"}
	if err := tf.collectSuites(tf.Root); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	slices.SortFunc(tf.Suites, func(a, b *TestSuite) int {
		return strings.Compare(a.Name, b.Name)
	})

	tf.run()
	tf.printSummary()

	if len(tf.Failed) > 0 {
		os.Exit(1)
	}
}

func (tf *TestFramework) collectSuites(root string) error {
	topLevel := &TestSuite{Name: "top-level"}
	var nested []*TestSuite

	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("reading %s: %w", root, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			suite, err := collectSuite(filepath.Join(root, entry.Name()), entry.Name())
			if err != nil {
				return err
			}
			nested = append(nested, suite)
			continue
		}
		if tc, ok := newCase(root, entry); ok {
			topLevel.Cases = append(topLevel.Cases, tc)
		}
	}

	tf.Suites = append(nested, topLevel)
	return nil
}

func collectSuite(dir, name string) (*TestSuite, error) {
	suite := &TestSuite{Name: name}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	for _, entry := range entries {
		if tc, ok := newCase(dir, entry); ok {
			suite.Cases = append(suite.Cases, tc)
		}
	}
	return suite, nil
}

func newCase(dir string, entry fs.DirEntry) (TestCase, bool) {
	if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lox") {
		return TestCase{}, false
	}
	return TestCase{Name: entry.Name(), Path: path.Join(dir, entry.Name())}, true
}

func (tf *TestFramework) run() {
	first := true
	for _, suite := range tf.Suites {
		if len(suite.Cases) == 0 {
			continue
		}
		if first {
			first = false
		} else {
			fmt.Println()
		}
		fmt.Println(suite.Name)

		for i := range suite.Cases {
			tc := &suite.Cases[i]
			if err := tc.load(); err != nil {
				fmt.Printf("  [%s] %s: %v\n", color.RedString("error"), tc.Name, err)
				tf.Failed = append(tf.Failed, tc)
				tf.Total++
				continue
			}
			tc.execute()
			tf.Total++
			if !tc.passed() {
				tf.Failed = append(tf.Failed, tc)
			}
			tc.print()
		}
	}
}

// load reads the .expected sidecar for this fixture.
func (tc *TestCase) load() error {
	expectedPath := strings.TrimSuffix(tc.Path, ".lox") + ".expected"
	data, err := os.ReadFile(expectedPath)
	if err != nil {
		return fmt.Errorf("missing golden file %s: %w", expectedPath, err)
	}
	return json.Unmarshal(data, &tc.Expected)
}

// execute runs the fixture in-process: source is scanned, parsed, resolved,
// and evaluated against a fresh Interpreter with stdout captured into a
// buffer instead of os.Stdout.
func (tc *TestCase) execute() {
	source, err := os.ReadFile(tc.Path)
	if err != nil {
		tc.Actual = ExpectedResult{Stdout: err.Error(), ExitCode: 1}
		return
	}

	var stdout bytes.Buffer
	reporter := lox.NewColorReporter(&bytes.Buffer{}, true)
	lox.Run(string(source), &stdout, reporter)

	exitCode := 0
	switch {
	case reporter.HadError():
		exitCode = 65
	case reporter.HadRuntimeError():
		exitCode = 70
	}
	tc.Actual = ExpectedResult{Stdout: stdout.String(), ExitCode: exitCode}
}

func (tc *TestCase) passed() bool {
	return tc.Expected.ExitCode == tc.Actual.ExitCode &&
		strings.TrimRight(tc.Expected.Stdout, "\n") == strings.TrimRight(tc.Actual.Stdout, "\n")
}

func (tc *TestCase) print() {
	label := color.GreenString("pass")
	if !tc.passed() {
		label = color.RedString("fail")
	}
	fmt.Printf("  [%s] %s\n", label, tc.Name)

	if tc.passed() && !*verbose {
		return
	}
	if *verbose || tc.Expected.ExitCode != tc.Actual.ExitCode {
		fmt.Printf("      expected exit %d, got %d\n", tc.Expected.ExitCode, tc.Actual.ExitCode)
	}
	if *verbose || tc.Expected.Stdout != tc.Actual.Stdout {
		fmt.Printf("      expected stdout: %q\n", tc.Expected.Stdout)
		fmt.Printf("      actual stdout:   %q\n", tc.Actual.Stdout)
	}
}

func (tf *TestFramework) printSummary() {
	fmt.Println()
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("%d run, %d passed, %d failed\n", tf.Total, tf.Total-len(tf.Failed), len(tf.Failed))
}
