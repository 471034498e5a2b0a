package chunk_test

import (
	"testing"

	"github.com/rizonlang/rizon/lang/chunk"
	"github.com/rizonlang/rizon/lang/value"
	"github.com/stretchr/testify/assert"
)

func TestWriteAndLen(t *testing.T) {
	c := chunk.New()
	c.Write(byte(chunk.Constant), 1)
	c.Write(0, 1)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []int{1, 1}, c.Lines)
}

func TestUint16RoundTrip(t *testing.T) {
	c := chunk.New()
	c.WriteUint16(0x1234, 7)
	assert.Equal(t, uint16(0x1234), c.ReadUint16(0))
	assert.Equal(t, []int{7, 7}, c.Lines)
}

func TestAddConstant(t *testing.T) {
	c := chunk.New()
	idx := c.AddConstant(value.Int(42))
	assert.Equal(t, 0, idx)
	assert.Equal(t, value.Int(42), c.Constants[idx])

	idx2 := c.AddConstant(value.Int(7))
	assert.Equal(t, 1, idx2)
}
