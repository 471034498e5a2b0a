package disasm_test

import (
	"bytes"
	"testing"

	"github.com/rizonlang/rizon/lang/compiler"
	"github.com/rizonlang/rizon/lang/disasm"
	"github.com/rizonlang/rizon/lang/heap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkDisassemblyIsTotal(t *testing.T) {
	h := heap.New()
	fn, err := compiler.Compile(`
var x = 1 + 2;
if (x < 3) { print x; } else { print "no"; }
for (i in 2) { print i; }
`, h)
	require.NoError(t, err)

	var buf bytes.Buffer
	disasm.Chunk(&buf, fn.Chunk, "<script>")

	out := buf.String()
	assert.Contains(t, out, "== <script> ==")
	assert.Contains(t, out, "OP_CONSTANT")
	assert.Contains(t, out, "OP_JUMP_IF_FALSE")
	assert.Contains(t, out, "OP_FOR_ITER")
}

func TestClosureInstructionAnnotatesUpvalues(t *testing.T) {
	h := heap.New()
	fn, err := compiler.Compile(`
fn make() {
	var x = 0;
	fn inc() { x = x + 1; return x; }
	return inc;
}`, h)
	require.NoError(t, err)

	var buf bytes.Buffer
	disasm.Chunk(&buf, fn.Chunk, "<script>")
	assert.Contains(t, buf.String(), "OP_CLOSURE")
}
