// Package disasm implements a pure disassembler over chunk.Chunk, writing a
// human-readable instruction listing to an io.Writer. The output layout (a
// 4-digit zero-padded offset, a '|' in place of a repeated source line, a
// left-padded mnemonic, operands rendered per opcode) is grounded on
// original_source/crates/*/debug.rs (see SPEC_FULL.md §D), translated from
// that Rust disassembler into the same instruction-table shape the rest of
// this module follows.
package disasm

import (
	"fmt"
	"io"

	"github.com/rizonlang/rizon/lang/chunk"
	"github.com/rizonlang/rizon/lang/heap"
)

// Chunk writes a full disassembly of c to w, labeled with name (typically
// the function's own display name).
func Chunk(w io.Writer, c *chunk.Chunk, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < c.Len(); {
		offset = Instruction(w, c, offset)
	}
}

// Instruction disassembles the single instruction at offset, writing it to
// w, and returns the offset of the next instruction.
func Instruction(w io.Writer, c *chunk.Chunk, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)
	if offset > 0 && c.Lines[offset] == c.Lines[offset-1] {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", c.Lines[offset])
	}

	op := chunk.Op(c.Code[offset])
	switch op {
	case chunk.Constant:
		return constantInstruction(w, op, c, offset)
	case chunk.GetLocal, chunk.SetLocal, chunk.GetUpValue, chunk.SetUpValue,
		chunk.Call, chunk.GetProperty, chunk.SetProperty:
		return byteInstruction(w, op, c, offset)
	case chunk.DefineGlobal, chunk.GetGlobal, chunk.SetGlobal, chunk.Struct, chunk.Method:
		return constantInstruction(w, op, c, offset)
	case chunk.Jump, chunk.JumpIfFalse:
		return jumpInstruction(w, op, c, offset, 1)
	case chunk.Loop:
		return jumpInstruction(w, op, c, offset, -1)
	case chunk.ForIter:
		return forIterInstruction(w, op, c, offset)
	case chunk.Invoke:
		return invokeInstruction(w, op, c, offset)
	case chunk.Closure:
		return closureInstruction(w, op, c, offset)
	default:
		return simpleInstruction(w, op, offset)
	}
}

func simpleInstruction(w io.Writer, op chunk.Op, offset int) int {
	fmt.Fprintf(w, "%-16s\n", op)
	return offset + 1
}

func byteInstruction(w io.Writer, op chunk.Op, c *chunk.Chunk, offset int) int {
	slot := c.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d\n", op, slot)
	return offset + 2
}

func constantInstruction(w io.Writer, op chunk.Op, c *chunk.Chunk, offset int) int {
	idx := c.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d '%s'\n", op, idx, c.Constants[idx].String())
	return offset + 2
}

func jumpInstruction(w io.Writer, op chunk.Op, c *chunk.Chunk, offset, sign int) int {
	jump := int(c.ReadUint16(offset + 1))
	fmt.Fprintf(w, "%-16s %4d -> %d\n", op, offset, offset+3+sign*jump)
	return offset + 3
}

func forIterInstruction(w io.Writer, op chunk.Op, c *chunk.Chunk, offset int) int {
	slot := c.Code[offset+1]
	jump := int(c.ReadUint16(offset + 2))
	fmt.Fprintf(w, "%-16s %4d %4d -> %d\n", op, slot, offset, offset+4+jump)
	return offset + 4
}

func invokeInstruction(w io.Writer, op chunk.Op, c *chunk.Chunk, offset int) int {
	idx := c.Code[offset+1]
	argc := c.Code[offset+2]
	fmt.Fprintf(w, "%-16s (%d args) %4d '%s'\n", op, argc, idx, c.Constants[idx].String())
	return offset + 3
}

// closureInstruction disassembles Closure and, following the Rust original's
// convention, annotates each of the function's declared upvalue captures on
// its own indented line (spec.md §3's upvalue descriptor list lives on the
// Function constant itself, not as trailing bytecode bytes).
func closureInstruction(w io.Writer, op chunk.Op, c *chunk.Chunk, offset int) int {
	idx := c.Code[offset+1]
	fn := c.Constants[idx].(*heap.Function)
	fmt.Fprintf(w, "%-16s %4d '%s'\n", op, idx, fn.String())
	for _, uv := range fn.Upvalues {
		kind := "upvalue"
		if uv.IsLocal {
			kind = "local"
		}
		fmt.Fprintf(w, "%04d      |                     %s %d\n", offset+2, kind, uv.Index)
	}
	return offset + 2
}
