package chunk_test

import (
	"testing"

	"github.com/rizonlang/rizon/lang/chunk"
	"github.com/stretchr/testify/assert"
)

func TestOpString(t *testing.T) {
	assert.Equal(t, "OP_ADD", chunk.Add.String())
	assert.Equal(t, "OP_ILLEGAL", chunk.Op(255).String())
}

func TestOperandWidth(t *testing.T) {
	assert.Equal(t, 1, chunk.Constant.OperandWidth())
	assert.Equal(t, 2, chunk.Jump.OperandWidth())
	assert.Equal(t, 3, chunk.ForIter.OperandWidth())
	assert.Equal(t, 2, chunk.Invoke.OperandWidth())
	assert.Equal(t, 0, chunk.Pop.OperandWidth())
	assert.Equal(t, 0, chunk.Return.OperandWidth())
}
