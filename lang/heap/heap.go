// Package heap owns every variable-sized ("heap") object kind described by
// spec.md §3: interned strings, range iterators, functions, closures,
// upvalues, structs, instances and bound methods. It hands out opaque
// handles (plain Go pointers into heap-owned structs) and implements the
// mark-sweep reachability closure of spec.md §5/§9.
//
// Object storage is ordinary Go-GC'd memory — idiomatic Go never hand-rolls
// a byte-slice arena for this sort of object graph, and github.com/mna/
// nenuphar's lang/machine package (cell.go, function.go, map.go) takes the
// same approach: a heap object is a small struct implementing value.Value,
// constructed by a factory method. What this package adds beyond that is
// its own liveness bookkeeping (the registries below) so that spec.md §9's
// reachability invariant is independently testable via Stats/Collect,
// rather than riding silently on the Go runtime's own collector.
package heap

import "github.com/rizonlang/rizon/lang/value"

// Heap owns the registries of allocated objects and performs the
// reachability sweep described in spec.md §9.
type Heap struct {
	strings map[string]*Str

	// live registries, used only for Collect/Stats bookkeeping; the
	// objects are reachable independently of these slices, which merely
	// let the heap account for what it has handed out.
	ranges       []*Range
	functions    []*Function
	closures     []*Closure
	upvalues     []*Upvalue
	structs      []*Struct
	instances    []*Instance
	boundMethods []*BoundMethod
	natives      []*NativeFn
}

// New returns an empty heap.
func New() *Heap {
	return &Heap{strings: make(map[string]*Str)}
}

// Stats reports the number of currently-live objects of each kind, as last
// computed by Collect (or, before the first Collect, everything ever
// allocated).
type Stats struct {
	Strings, Ranges, Functions, Closures, Upvalues, Structs, Instances, BoundMethods, Natives int
}

func (h *Heap) Stats() Stats {
	return Stats{
		Strings:      len(h.strings),
		Ranges:       len(h.ranges),
		Functions:    len(h.functions),
		Closures:     len(h.closures),
		Upvalues:     len(h.upvalues),
		Structs:      len(h.structs),
		Instances:    len(h.instances),
		BoundMethods: len(h.boundMethods),
		Natives:      len(h.natives),
	}
}

// Roots is the exact root set named by spec.md §5: the operand stack
// (including every call frame's window into it), call-frame closures, the
// open-upvalue list, the globals map, and (transitively, via Function and
// Closure) the constant pools of reachable functions.
type Roots struct {
	Stack    []value.Value
	Frames   []*Closure
	Upvalues []*Upvalue
	Globals  []value.Value
}

// Collect performs a mark-sweep pass: it marks every object reachable from
// roots, then drops unreached entries from the heap's own registries. It
// never touches Go-GC'd memory directly (the Go runtime still owns actual
// deallocation); this is the heap's accounting of spec.md §9's reachability
// invariant, exposed for tests via Stats.
func (h *Heap) Collect(roots Roots) {
	marked := make(map[any]bool)

	var markValue func(v value.Value)
	markValue = func(v value.Value) {
		switch o := v.(type) {
		case *Str:
			marked[o] = true
		case *Range:
			marked[o] = true
		case *Function:
			markFunction(marked, o)
		case *Closure:
			markClosure(marked, o, markValue)
		case *NativeFn:
			marked[o] = true
		case *Struct:
			markStruct(marked, o, markValue)
		case *Instance:
			markInstance(marked, o, markValue)
		case *BoundMethod:
			marked[o] = true
			markInstance(marked, o.Receiver, markValue)
			markClosure(marked, o.Method, markValue)
		}
	}

	for _, v := range roots.Stack {
		markValue(v)
	}
	for _, c := range roots.Frames {
		markClosure(marked, c, markValue)
	}
	for _, uv := range roots.Upvalues {
		marked[uv] = true
		if uv.closed {
			markValue(uv.value)
		}
	}
	for _, v := range roots.Globals {
		markValue(v)
	}

	h.sweep(marked)
}

func markFunction(marked map[any]bool, fn *Function) {
	if marked[fn] {
		return
	}
	marked[fn] = true
	for _, c := range fn.Chunk.Constants {
		switch k := c.(type) {
		case *Str:
			marked[k] = true
		case *Function:
			markFunction(marked, k)
		}
	}
}

func markClosure(marked map[any]bool, c *Closure, markValue func(value.Value)) {
	if marked[c] {
		return
	}
	marked[c] = true
	markFunction(marked, c.Fn)
	for _, uv := range c.Upvalues {
		marked[uv] = true
		if uv.closed {
			markValue(uv.value)
		}
	}
}

func markStruct(marked map[any]bool, st *Struct, markValue func(value.Value)) {
	if marked[st] {
		return
	}
	marked[st] = true
	st.Methods.Iter(func(_ string, c *Closure) bool {
		markClosure(marked, c, markValue)
		return false
	})
}

func markInstance(marked map[any]bool, in *Instance, markValue func(value.Value)) {
	if marked[in] {
		return
	}
	marked[in] = true
	markStruct(marked, in.Struct, markValue)
	in.Fields.Iter(func(_ string, v value.Value) bool {
		markValue(v)
		return false
	})
}

func (h *Heap) sweep(marked map[any]bool) {
	for s, ptr := range h.strings {
		if !marked[ptr] {
			delete(h.strings, s)
		}
	}
	h.ranges = sweepSlice(h.ranges, marked)
	h.functions = sweepSlice(h.functions, marked)
	h.closures = sweepSlice(h.closures, marked)
	h.upvalues = sweepSlice(h.upvalues, marked)
	h.structs = sweepSlice(h.structs, marked)
	h.instances = sweepSlice(h.instances, marked)
	h.boundMethods = sweepSlice(h.boundMethods, marked)
	h.natives = sweepSlice(h.natives, marked)
}

func sweepSlice[T any](objs []*T, marked map[any]bool) []*T {
	out := objs[:0]
	for _, o := range objs {
		if marked[o] {
			out = append(out, o)
		}
	}
	return out
}
