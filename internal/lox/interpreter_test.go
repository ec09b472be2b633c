package lox

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run is a test helper driving source through the full pipeline and
// returning captured stdout plus whatever errors the reporter saw.
func run(t *testing.T, source string) (stdout string, reporter *ColorReporter) {
	t.Helper()
	var diagnostics bytes.Buffer
	reporter = NewColorReporter(&diagnostics, true)
	var stdoutBuf bytes.Buffer
	interp := NewInterpreter(&stdoutBuf)
	RunWith(source, interp, reporter)
	return stdoutBuf.String(), reporter
}

func TestArithmeticAndStringConcat(t *testing.T) {
	out, rep := run(t, `print 1 + 2; print "a" + "b";`)
	require.False(t, rep.HadError())
	require.False(t, rep.HadRuntimeError())
	assert.Equal(t, "3\nab\n", out)
}

func TestStringPlusNumberIsRuntimeError(t *testing.T) {
	_, rep := run(t, `print "a" + 1;`)
	assert.True(t, rep.HadRuntimeError())
}

func TestTruthiness(t *testing.T) {
	out, rep := run(t, `
		if (nil) print "bad"; else print "nil falsy";
		if (false) print "bad"; else print "false falsy";
		if (0) print "zero truthy";
		if ("") print "empty string truthy";
	`)
	require.False(t, rep.HadError())
	require.False(t, rep.HadRuntimeError())
	assert.Equal(t, "nil falsy\nfalse falsy\nzero truthy\nempty string truthy\n", out)
}

func TestLexicalScopingShadowing(t *testing.T) {
	out, rep := run(t, `
		var a = "global";
		{
			var a = "inner";
			print a;
		}
		print a;
	`)
	require.False(t, rep.HadRuntimeError())
	assert.Equal(t, "inner\nglobal\n", out)
}

func TestClosureCapturesByReference(t *testing.T) {
	out, rep := run(t, `
		fun makeCounter() {
			var i = 0;
			fun count() {
				i = i + 1;
				print i;
			}
			return count;
		}
		var counter = makeCounter();
		counter();
		counter();
	`)
	require.False(t, rep.HadRuntimeError())
	assert.Equal(t, "1\n2\n", out)
}

func TestMethodRebindingPerInstance(t *testing.T) {
	out, rep := run(t, `
		class Greeter {
			greet() { print "hello " + this.name; }
		}
		var a = Greeter();
		a.name = "a";
		var b = Greeter();
		b.name = "b";
		var m = a.greet;
		m();
		m = b.greet;
		m();
	`)
	require.False(t, rep.HadRuntimeError())
	assert.Equal(t, "hello a\nhello b\n", out)
}

func TestInheritanceMethodLookupWalksSuperclass(t *testing.T) {
	out, rep := run(t, `
		class Animal {
			speak() { print "..."; }
		}
		class Dog < Animal {}
		Dog().speak();
	`)
	require.False(t, rep.HadRuntimeError())
	assert.Equal(t, "...\n", out)
}

func TestSuperCallsParentImplementation(t *testing.T) {
	out, rep := run(t, `
		class Animal {
			speak() { print "generic noise"; }
		}
		class Dog < Animal {
			speak() {
				super.speak();
				print "woof";
			}
		}
		Dog().speak();
	`)
	require.False(t, rep.HadRuntimeError())
	assert.Equal(t, "generic noise\nwoof\n", out)
}

func TestInitializerAlwaysReturnsInstance(t *testing.T) {
	out, rep := run(t, `
		class Thing {
			init(name) {
				this.name = name;
				return;
			}
		}
		var t = Thing("widget");
		print t.name;
	`)
	require.False(t, rep.HadRuntimeError())
	assert.Equal(t, "widget\n", out)
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	_, rep := run(t, `print undeclared;`)
	assert.True(t, rep.HadRuntimeError())
}

func TestClassCannotInheritFromItself(t *testing.T) {
	_, rep := run(t, `class Oops < Oops {}`)
	assert.True(t, rep.HadError())
}

func TestSuperclassMustBeClass(t *testing.T) {
	_, rep := run(t, `
		var NotAClass = "nope";
		class Broken < NotAClass {}
	`)
	assert.True(t, rep.HadRuntimeError())
}

func TestArgumentListParsesAllArguments(t *testing.T) {
	out, rep := run(t, `
		fun sum(a, b, c) { print a + b + c; }
		sum(1, 2, 3);
	`)
	require.False(t, rep.HadRuntimeError())
	assert.Equal(t, "6\n", out)
}

func TestNumberFormatting(t *testing.T) {
	out, rep := run(t, `print 1; print 1.5; print 10 / 4;`)
	require.False(t, rep.HadRuntimeError())
	assert.True(t, strings.Contains(out, "1\n1.5\n2.5\n"))
}
