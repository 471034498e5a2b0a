// Package chunk implements spec.md §3/§4.1's Chunk: an ordered instruction
// sequence, a constant pool, and a per-instruction source-line table.
//
// This is a close idiomatic port of MartinVacheron/rizon-bytecode's
// chunk.rs (see original_source/ and SPEC_FULL.md §D), which spec.md §3/
// §4.1 names as authoritative for the fixed, 256-entry constant pool and
// the parallel code/lines vectors.
package chunk

import "github.com/rizonlang/rizon/lang/value"

// MaxConstants is the size of the constant pool: every constant-bearing
// opcode addresses it with a single byte (spec.md §3).
const MaxConstants = 256

// Chunk is the instruction stream, line table and constant pool for one
// compiled function.
type Chunk struct {
	Code      []byte
	Lines     []int // Lines[i] is the source line of the instruction starting at Code[i]
	Constants []value.Value
}

// New returns an empty chunk.
func New() *Chunk {
	return &Chunk{}
}

// Write appends a single byte of bytecode at the given source line.
func (c *Chunk) Write(b byte, line int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// WriteUint16 appends a big-endian u16 operand across two bytes, both
// attributed to line (used by Jump/Loop/ForIter offset operands).
func (c *Chunk) WriteUint16(v uint16, line int) {
	c.Write(byte(v>>8), line)
	c.Write(byte(v), line)
}

// ReadUint16 reads the big-endian u16 at the given code offset.
func (c *Chunk) ReadUint16(offset int) uint16 {
	return uint16(c.Code[offset])<<8 | uint16(c.Code[offset+1])
}

// AddConstant appends v to the constant pool and returns its index. It is
// the compiler's responsibility to reject programs that would exceed
// MaxConstants (spec.md §7: "too many ... constants (>256)" is a compile
// error).
func (c *Chunk) AddConstant(v value.Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// Len returns the number of bytes of bytecode currently written.
func (c *Chunk) Len() int { return len(c.Code) }
