package vm_test

import (
	"bytes"
	"testing"

	"github.com/rizonlang/rizon/lang/compiler"
	"github.com/rizonlang/rizon/lang/heap"
	"github.com/rizonlang/rizon/lang/native"
	"github.com/rizonlang/rizon/lang/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	h := heap.New()
	fn, err := compiler.Compile(src, h)
	require.NoError(t, err, "compile error")

	m := vm.New(h)
	var buf bytes.Buffer
	m.Stdout = &buf
	native.Register(m, h)

	err = m.Interpret(fn)
	return buf.String(), err
}

func TestArithmeticPrecedence(t *testing.T) {
	out, err := run(t, "print 1 + 2 * 3;")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestStringConcatenation(t *testing.T) {
	out, err := run(t, `var a = "hi"; var b = " there"; print a + b;`)
	require.NoError(t, err)
	assert.Equal(t, "\"hi there\"\n", out)
}

func TestClosureSharedUpvalue(t *testing.T) {
	out, err := run(t, `
fn make() {
	var x = 0;
	fn inc() { x = x + 1; return x; }
	return inc;
}
var c = make();
print c();
print c();
print c();`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestForLoopOverRange(t *testing.T) {
	out, err := run(t, `for (i in 3) { print i; }`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestStructInitAndMethod(t *testing.T) {
	out, err := run(t, `
struct P {
	fn init(x) { self.x = x; }
	fn get() { return self.x; }
}
var p = P(42);
print p.get();`)
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	_, err := run(t, "print 1 / 0;")
	require.Error(t, err)
	rerr, ok := err.(*vm.RuntimeError)
	require.True(t, ok)
	assert.Contains(t, rerr.Error(), "division by zero")
}

func TestUndefinedGlobalIsRuntimeError(t *testing.T) {
	_, err := run(t, "print nope;")
	require.Error(t, err)
}

func TestWhileLoop(t *testing.T) {
	out, err := run(t, `
var i = 0;
while (i < 3) {
	print i;
	i = i + 1;
}`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestIfElse(t *testing.T) {
	out, err := run(t, `if (1 < 2) { print "yes"; } else { print "no"; }`)
	require.NoError(t, err)
	assert.Equal(t, "\"yes\"\n", out)
}

func TestNativeFunctions(t *testing.T) {
	out, err := run(t, `print len("hello"); print type(1); print str(1);`)
	require.NoError(t, err)
	assert.Equal(t, "5\n\"int\"\n\"1\"\n", out)
}

func TestBoundMethodCallViaGetProperty(t *testing.T) {
	out, err := run(t, `
struct P {
	fn init(x) { self.x = x; }
	fn get() { return self.x; }
}
var p = P(7);
var g = p.get;
print g();`)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestArityMismatchIsRuntimeError(t *testing.T) {
	_, err := run(t, `fn f(a, b) { return a; } f(1);`)
	require.Error(t, err)
}

func TestCallDepthOverflow(t *testing.T) {
	_, err := run(t, `fn f() { return f(); } f();`)
	require.Error(t, err)
}
