package compiler_test

import (
	"testing"

	"github.com/rizonlang/rizon/lang/chunk"
	"github.com/rizonlang/rizon/lang/compiler"
	"github.com/rizonlang/rizon/lang/heap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, src string) *heap.Function {
	t.Helper()
	h := heap.New()
	fn, err := compiler.Compile(src, h)
	require.NoError(t, err)
	require.NotNil(t, fn)
	return fn
}

func opsOf(c *chunk.Chunk) []chunk.Op {
	var ops []chunk.Op
	for i := 0; i < c.Len(); {
		op := chunk.Op(c.Code[i])
		ops = append(ops, op)
		i += 1 + op.OperandWidth()
	}
	return ops
}

func TestCompileArithmeticExpressionStatement(t *testing.T) {
	fn := mustCompile(t, "print 1 + 2 * 3;")
	ops := opsOf(fn.Chunk)
	assert.Contains(t, ops, chunk.Constant)
	assert.Contains(t, ops, chunk.Multiply)
	assert.Contains(t, ops, chunk.Add)
	assert.Contains(t, ops, chunk.Print)
}

func TestCompileVarDeclGlobal(t *testing.T) {
	fn := mustCompile(t, "var x = 1;")
	ops := opsOf(fn.Chunk)
	assert.Contains(t, ops, chunk.DefineGlobal)
}

func TestCompileVarDeclLocalBlock(t *testing.T) {
	fn := mustCompile(t, "{ var x = 1; print x; }")
	ops := opsOf(fn.Chunk)
	assert.Contains(t, ops, chunk.GetLocal)
	assert.NotContains(t, ops, chunk.DefineGlobal)
	assert.Contains(t, ops, chunk.Pop) // scope exit pops the local
}

func TestCompileIfElse(t *testing.T) {
	fn := mustCompile(t, `if (true) { print 1; } else { print 2; }`)
	ops := opsOf(fn.Chunk)
	assert.Contains(t, ops, chunk.JumpIfFalse)
	assert.Contains(t, ops, chunk.Jump)
}

func TestCompileWhileLoop(t *testing.T) {
	fn := mustCompile(t, `while (true) { print 1; }`)
	ops := opsOf(fn.Chunk)
	assert.Contains(t, ops, chunk.Loop)
	assert.Contains(t, ops, chunk.JumpIfFalse)
}

func TestCompileForLoop(t *testing.T) {
	fn := mustCompile(t, `for (i in 3) { print i; }`)
	ops := opsOf(fn.Chunk)
	assert.Contains(t, ops, chunk.CreateIter)
	assert.Contains(t, ops, chunk.ForIter)
	assert.Contains(t, ops, chunk.Loop)
}

func TestCompileFunctionWithUpvalue(t *testing.T) {
	fn := mustCompile(t, `
fn make() {
	var x = 0;
	fn inc() { x = x + 1; return x; }
	return inc;
}`)
	ops := opsOf(fn.Chunk)
	assert.Contains(t, ops, chunk.Closure)
}

func TestCompileStructAndMethod(t *testing.T) {
	fn := mustCompile(t, `
struct P {
	fn init(x) { self.x = x; }
	fn get() { return self.x; }
}
var p = P(42);
print p.get();`)
	ops := opsOf(fn.Chunk)
	assert.Contains(t, ops, chunk.Struct)
	assert.Contains(t, ops, chunk.Method)
	assert.Contains(t, ops, chunk.Invoke)

	// init's body (self.x = x) is compiled into init's own chunk.
	var initOps []chunk.Op
	for _, k := range fn.Chunk.Constants {
		if f, ok := k.(*heap.Function); ok && f.Name != nil && f.Name.String() == "init" {
			initOps = opsOf(f.Chunk)
		}
	}
	assert.Contains(t, initOps, chunk.SetProperty)
}

func TestCompileErrorAggregatesDiagnostics(t *testing.T) {
	h := heap.New()
	_, err := compiler.Compile("var 1;\nvar 2;\n", h)
	require.Error(t, err)
	cerr, ok := err.(*compiler.Error)
	require.True(t, ok)
	assert.Len(t, cerr.Diagnostics, 2)
}

func TestReturnOutsideFunctionIsError(t *testing.T) {
	h := heap.New()
	_, err := compiler.Compile("return 1;", h)
	require.Error(t, err)
}
