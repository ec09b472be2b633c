package lox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanOK(t *testing.T, source string) []Token {
	t.Helper()
	var diagnostics bytes.Buffer
	reporter := NewColorReporter(&diagnostics, true)
	tokens := NewScanner(source, reporter).ScanTokens()
	require.False(t, reporter.HadError())
	return tokens
}

func TestScanTokensProducesTrailingEOF(t *testing.T) {
	tokens := scanOK(t, `var x = 1;`)
	require.NotEmpty(t, tokens)
	assert.Equal(t, EOF, tokens[len(tokens)-1].Type)
}

func TestScanKeywordsVsIdentifiers(t *testing.T) {
	tokens := scanOK(t, `class classy`)
	require.Len(t, tokens, 3) // class, classy, EOF
	assert.Equal(t, Class, tokens[0].Type)
	assert.Equal(t, Identifier, tokens[1].Type)
}

func TestScanMultiLineStringAdvancesLine(t *testing.T) {
	tokens := scanOK(t, "\"line one\nline two\" 1")
	require.Len(t, tokens, 3)
	assert.Equal(t, String, tokens[0].Type)
	assert.Equal(t, "line one\nline two", tokens[0].Lexeme)
	assert.Equal(t, 2, tokens[1].Line)
}

func TestScanNumberRejectsLeadingAndTrailingDot(t *testing.T) {
	tokens := scanOK(t, `1. .5`)
	// "1." scans as NUMBER "1" followed by DOT; ".5" scans as DOT then NUMBER "5".
	assert.Equal(t, Number, tokens[0].Type)
	assert.Equal(t, "1", tokens[0].Lexeme)
	assert.Equal(t, Dot, tokens[1].Type)
	assert.Equal(t, Dot, tokens[2].Type)
	assert.Equal(t, Number, tokens[3].Type)
}

func TestUnterminatedStringReportsError(t *testing.T) {
	var diagnostics bytes.Buffer
	reporter := NewColorReporter(&diagnostics, true)
	NewScanner(`"never closed`, reporter).ScanTokens()
	assert.True(t, reporter.HadError())
}

func TestLineCommentIsIgnored(t *testing.T) {
	tokens := scanOK(t, "// a whole comment\nvar x;")
	assert.Equal(t, Var, tokens[0].Type)
	assert.Equal(t, 2, tokens[0].Line)
}
