package compiler

import (
	"github.com/rizonlang/rizon/lang/chunk"
	"github.com/rizonlang/rizon/lang/heap"
)

// maxLocals is the compile-time capacity of the local table, matching the
// 256-entry addressability of GetLocal/SetLocal's u8 operand (spec.md §4.2).
const maxLocals = 256

// maxUpvalues mirrors maxLocals: GetUpValue/SetUpValue also take a u8 slot.
const maxUpvalues = 256

// funcKind distinguishes the synthesized top-level script function from an
// ordinary fn declaration/expression and from a struct method, which
// reserves local slot 0 for "self" rather than the function itself.
type funcKind int

const (
	funcScript funcKind = iota
	funcFunction
	funcMethod
	funcInit
)

// local is one entry of the compile-time local table of spec.md §4.2:
// "ordered list of (name, depth, is_captured)".
type local struct {
	name       string
	depth      int // -1 while being declared but not yet initialized
	isCaptured bool
}

// funcCompiler holds per-function compiler state: the local table, the
// upvalue table, the scope-depth counter and the function under
// construction. Nesting (a fn declared inside another) is modeled by
// chaining funcCompiler values through enclosing, exactly matching the
// Go call stack of the recursive-descent compiler: compiling a nested fn
// pushes a new funcCompiler and pops back to the enclosing one when done.
type funcCompiler struct {
	enclosing *funcCompiler

	chunk *chunk.Chunk
	kind  funcKind
	name  string
	arity int

	locals     []local
	upvalues   []heap.UpvalueDesc
	scopeDepth int
}

func newFuncCompiler(enclosing *funcCompiler, kind funcKind, name string) *funcCompiler {
	fc := &funcCompiler{
		enclosing: enclosing,
		chunk:     chunk.New(),
		kind:      kind,
		name:      name,
	}
	// Slot 0 is reserved for the function itself (script/function) or the
	// receiver (method/init), per spec.md §4.2.
	slotName := ""
	if kind == funcMethod || kind == funcInit {
		slotName = "self"
	}
	fc.locals = append(fc.locals, local{name: slotName, depth: 0})
	return fc
}

// addLocal registers a new local in the current scope. Returns false if the
// local table is full (compile error, spec.md §7).
func (fc *funcCompiler) addLocal(name string) bool {
	if len(fc.locals) >= maxLocals {
		return false
	}
	fc.locals = append(fc.locals, local{name: name, depth: -1})
	return true
}

// markInitialized sets the depth of the most recently added local to the
// current scope depth, making it visible to subsequent resolution.
func (fc *funcCompiler) markInitialized() {
	if fc.scopeDepth == 0 {
		return
	}
	fc.locals[len(fc.locals)-1].depth = fc.scopeDepth
}

// resolveLocal walks the local table from top down (spec.md §4.2 step 1),
// returning its slot index, or -1 if not found.
func (fc *funcCompiler) resolveLocal(name string) int {
	for i := len(fc.locals) - 1; i >= 0; i-- {
		if fc.locals[i].name == name {
			return i
		}
	}
	return -1
}

// addUpvalue registers an upvalue descriptor, idempotently (spec.md §4.2).
func (fc *funcCompiler) addUpvalue(index uint8, isLocal bool) int {
	for i, uv := range fc.upvalues {
		if uv.Index == index && uv.IsLocal == isLocal {
			return i
		}
	}
	fc.upvalues = append(fc.upvalues, heap.UpvalueDesc{Index: index, IsLocal: isLocal})
	return len(fc.upvalues) - 1
}

// resolveUpvalue recursively resolves name as a local in an enclosing
// function, marking that local captured and chaining an upvalue descriptor
// through every intermediate function (spec.md §4.2 step 2). Returns its
// upvalue slot index, or -1 if name is not found in any enclosing function.
func (fc *funcCompiler) resolveUpvalue(name string) int {
	if fc.enclosing == nil {
		return -1
	}
	if slot := fc.enclosing.resolveLocal(name); slot >= 0 {
		fc.enclosing.locals[slot].isCaptured = true
		return fc.addUpvalue(uint8(slot), true)
	}
	if slot := fc.enclosing.resolveUpvalue(name); slot >= 0 {
		return fc.addUpvalue(uint8(slot), false)
	}
	return -1
}
