package compiler

import (
	"github.com/rizonlang/rizon/lang/chunk"
	"github.com/rizonlang/rizon/lang/value"
)

func (p *Parser) curChunk() *chunk.Chunk { return p.fn.chunk }

func (p *Parser) emitByte(b byte) {
	p.curChunk().Write(b, p.line)
}

func (p *Parser) emitOp(op chunk.Op) {
	p.emitByte(byte(op))
}

func (p *Parser) emitOp2(op chunk.Op, operand byte) {
	p.emitByte(byte(op))
	p.emitByte(operand)
}

// emitConstant emits a Constant opcode for v, reporting a compile error if
// the pool is full (spec.md §7: "too many ... constants (>256)").
func (p *Parser) emitConstant(v value.Value) {
	idx, ok := p.makeConstant(v)
	if !ok {
		return
	}
	p.emitOp2(chunk.Constant, idx)
}

func (p *Parser) makeConstant(v value.Value) (byte, bool) {
	if len(p.curChunk().Constants) >= chunk.MaxConstants {
		p.errorAtPrevious("too many constants in one chunk")
		return 0, false
	}
	return byte(p.curChunk().AddConstant(v)), true
}

// identifierConstant interns name and adds it as a constant, for globals
// and property-name opcodes.
func (p *Parser) identifierConstant(name string) byte {
	idx, _ := p.makeConstant(p.heap.Intern(name))
	return idx
}

// emitJump writes op followed by a two-byte placeholder and returns the
// offset of the placeholder, to be resolved later by patchJump (spec.md
// §4.2, §9: "emit_jump(op) -> patch_site").
func (p *Parser) emitJump(op chunk.Op) int {
	p.emitOp(op)
	p.emitByte(0xff)
	p.emitByte(0xff)
	return p.curChunk().Len() - 2
}

// patchJump backfills the placeholder at offset with the distance from just
// after the placeholder to the current end of the chunk.
func (p *Parser) patchJump(offset int) {
	jump := p.curChunk().Len() - offset - 2
	if jump > 0xffff {
		p.errorAtPrevious("too much code to jump over")
		return
	}
	c := p.curChunk()
	c.Code[offset] = byte(jump >> 8)
	c.Code[offset+1] = byte(jump)
}

// emitForIter emits a ForIter instruction: opcode, u8 iterator slot, then a
// two-byte jump placeholder taken when the iterator is exhausted (spec.md
// §4.1's "u8 slot, u16 offset" operand layout). Returns the placeholder's
// offset for a later patchJump.
func (p *Parser) emitForIter(slot byte) int {
	p.emitOp(chunk.ForIter)
	p.emitByte(slot)
	p.emitByte(0xff)
	p.emitByte(0xff)
	return p.curChunk().Len() - 2
}

// emitLoop emits a Loop instruction jumping back to loopStart (spec.md
// §4.2: "Backward jumps (Loop) are emitted with the distance from the loop
// instruction back to the loop head").
func (p *Parser) emitLoop(loopStart int) {
	p.emitOp(chunk.Loop)
	offset := p.curChunk().Len() - loopStart + 2
	if offset > 0xffff {
		p.errorAtPrevious("loop body too large")
		return
	}
	p.emitByte(byte(offset >> 8))
	p.emitByte(byte(offset))
}

func (p *Parser) emitReturn() {
	if p.fn.kind == funcInit {
		// init() implicitly returns the receiver (self is always slot 0).
		p.emitOp2(chunk.GetLocal, 0)
	} else {
		p.emitOp(chunk.Null)
	}
	p.emitOp(chunk.Return)
}
