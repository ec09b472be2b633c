package lox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolverBindsInnermostShadowingScope is the soundness property called
// out for this interpreter: when a name is shadowed across nested scopes,
// resolution must stop at the FIRST (innermost) match. A resolver that kept
// walking past that match and let an outer scope overwrite the recorded
// depth would make the inner print see the outermost block's "outer-block"
// binding instead of the innermost "inner-block" one.
func TestResolverBindsInnermostShadowingScope(t *testing.T) {
	out, rep := run(t, `
		var x = "global";
		{
			var x = "outer-block";
			{
				var x = "inner-block";
				print x;
			}
		}
	`)
	require.False(t, rep.HadRuntimeError())
	assert.Equal(t, "inner-block\n", out)
}

func TestCannotReadLocalInOwnInitializer(t *testing.T) {
	var diagnostics bytes.Buffer
	reporter := NewColorReporter(&diagnostics, true)
	source := `var a = "outer"; { var a = a; }`

	tokens := NewScanner(source, reporter).ScanTokens()
	decls := NewParser(tokens, reporter).Parse()
	NewResolver(reporter).Resolve(decls)

	assert.True(t, reporter.HadError())
}

func TestCannotReturnFromTopLevel(t *testing.T) {
	var diagnostics bytes.Buffer
	reporter := NewColorReporter(&diagnostics, true)
	source := `return 1;`

	tokens := NewScanner(source, reporter).ScanTokens()
	decls := NewParser(tokens, reporter).Parse()
	NewResolver(reporter).Resolve(decls)

	assert.True(t, reporter.HadError())
}

func TestCannotUseThisOutsideClass(t *testing.T) {
	var diagnostics bytes.Buffer
	reporter := NewColorReporter(&diagnostics, true)
	source := `print this;`

	tokens := NewScanner(source, reporter).ScanTokens()
	decls := NewParser(tokens, reporter).Parse()
	NewResolver(reporter).Resolve(decls)

	assert.True(t, reporter.HadError())
}
