package lox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOK(t *testing.T, source string) []Declaration {
	t.Helper()
	var diagnostics bytes.Buffer
	reporter := NewColorReporter(&diagnostics, true)
	tokens := NewScanner(source, reporter).ScanTokens()
	decls := NewParser(tokens, reporter).Parse()
	require.False(t, reporter.HadError())
	return decls
}

func TestParseCallArgumentListCollectsAllArgs(t *testing.T) {
	decls := parseOK(t, `f(1, 2, 3, 4);`)
	require.Len(t, decls, 1)
	exprStmt := decls[0].(*ExprStmt)
	call := exprStmt.Expr.(*CallExpr)
	assert.Len(t, call.Args, 4)
}

func TestParseClassWithSuperclassAndMethods(t *testing.T) {
	decls := parseOK(t, `
		class Base {}
		class Derived < Base {
			a() {}
			b(x) {}
		}
	`)
	require.Len(t, decls, 2)
	derived := decls[1].(*ClassDecl)
	require.NotNil(t, derived.Superclass)
	assert.Equal(t, "Base", derived.Superclass.Name.Lexeme)
	assert.Len(t, derived.MethodOrder, 2)
}

func TestParseForLoopDesugarsToWhile(t *testing.T) {
	decls := parseOK(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	require.Len(t, decls, 1)
	block := decls[0].(*Block)
	require.Len(t, block.Decls, 2)
	_, isWhile := block.Decls[1].(*While)
	assert.True(t, isWhile)
}

func TestParseReportsErrorOnMissingSemicolon(t *testing.T) {
	var diagnostics bytes.Buffer
	reporter := NewColorReporter(&diagnostics, true)
	tokens := NewScanner(`var x = 1`, reporter).ScanTokens()
	NewParser(tokens, reporter).Parse()
	assert.True(t, reporter.HadError())
}

func TestParseInvalidAssignmentTargetReportsError(t *testing.T) {
	var diagnostics bytes.Buffer
	reporter := NewColorReporter(&diagnostics, true)
	tokens := NewScanner(`1 = 2;`, reporter).ScanTokens()
	NewParser(tokens, reporter).Parse()
	assert.True(t, reporter.HadError())
}

func TestParseSynchronizesAfterErrorAndContinues(t *testing.T) {
	var diagnostics bytes.Buffer
	reporter := NewColorReporter(&diagnostics, true)
	tokens := NewScanner(`var x = ; var y = 2;`, reporter).ScanTokens()
	decls := NewParser(tokens, reporter).Parse()
	require.True(t, reporter.HadError())
	// Recovery should still surface the second, valid declaration.
	found := false
	for _, d := range decls {
		if vd, ok := d.(*VarDecl); ok && vd.Name.Lexeme == "y" {
			found = true
		}
	}
	assert.True(t, found)
}
