package heap

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/rizonlang/rizon/lang/chunk"
	"github.com/rizonlang/rizon/lang/value"
)

// Str is an interned string, spec.md §3's "handle to an interned string".
type Str struct{ s string }

var _ value.Value = (*Str)(nil)

func (s *Str) Type() string   { return "string" }
func (s *Str) String() string { return s.s }

// Equal reports whether two interned strings have the same content. Since
// Intern guarantees one handle per distinct content, this is also pointer
// equality, but comparing content keeps the invariant explicit regardless
// of how a *Str was obtained.
func (s *Str) Equal(o *Str) bool { return s.s == o.s }

// Intern returns the canonical *Str for s, allocating it on first use so
// that two occurrences of the same string content share one handle (this is
// what lets string equality and concatenation results be compared cheaply,
// and is what spec.md §3 calls an "interned string").
func (h *Heap) Intern(s string) *Str {
	if v, ok := h.strings[s]; ok {
		return v
	}
	v := &Str{s: s}
	h.strings[s] = v
	return v
}

// Concat allocates the interned concatenation of two strings, per spec.md
// §4.1's "Add on two strings concatenates".
func (h *Heap) Concat(a, b *Str) *Str { return h.Intern(a.s + b.s) }

// Range is the half-open integer range iterator of spec.md §3: "a half-open
// integer range [start, end) with a current cursor. Exhausted when
// cursor == end."
type Range struct {
	Start, End, Cursor int64
}

var _ value.Value = (*Range)(nil)

func (r *Range) Type() string   { return "iterator" }
func (r *Range) String() string { return fmt.Sprintf("<iter %d -> %d>", r.Start, r.End) }

// Done reports whether the range is exhausted.
func (r *Range) Done() bool { return r.Cursor >= r.End }

// Next returns the current cursor value and advances it, or reports !ok if
// the range is exhausted.
func (r *Range) Next() (int64, bool) {
	if r.Done() {
		return 0, false
	}
	v := r.Cursor
	r.Cursor++
	return v, true
}

// NewRange allocates a new range iterator over [0, n).
func (h *Heap) NewRange(n int64) *Range {
	r := &Range{End: n}
	h.ranges = append(h.ranges, r)
	return r
}

// Function is the compile-time artifact of spec.md §3: "containing its own
// Chunk, arity, upvalue descriptor list, and a name handle. Functions are
// immutable after compilation."
type Function struct {
	Chunk    *chunk.Chunk
	Arity    int
	Upvalues []UpvalueDesc
	Name     *Str
}

var _ value.Value = (*Function)(nil)

func (fn *Function) Type() string { return "function" }
func (fn *Function) String() string {
	if fn.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", fn.Name.s)
}

// UpvalueDesc is spec.md §3's upvalue descriptor: "a pair (index: u8,
// is_local: bool) captured by a Function".
type UpvalueDesc struct {
	Index   uint8
	IsLocal bool
}

// NewFunction allocates a compiled function.
func (h *Heap) NewFunction(c *chunk.Chunk, arity int, upvalues []UpvalueDesc, name *Str) *Function {
	fn := &Function{Chunk: c, Arity: arity, Upvalues: upvalues, Name: name}
	h.functions = append(h.functions, fn)
	return fn
}

// Upvalue is the runtime upvalue of spec.md §3: one of two states, open
// (pointing at an absolute operand-stack slot) or closed (owning the value
// that was resident in that slot at close time). The transition is one-way.
type Upvalue struct {
	closed    bool
	stackSlot int // valid while open
	value     value.Value
}

var _ value.Value = (*Upvalue)(nil)

func (*Upvalue) Type() string   { return "upvalue" }
func (*Upvalue) String() string { return "<upvalue>" }

// NewOpenUpvalue allocates an upvalue pointing at the given absolute
// operand-stack slot.
func (h *Heap) NewOpenUpvalue(stackSlot int) *Upvalue {
	uv := &Upvalue{stackSlot: stackSlot}
	h.upvalues = append(h.upvalues, uv)
	return uv
}

// StackSlot returns the upvalue's stack slot; only meaningful while Closed
// is false.
func (uv *Upvalue) StackSlot() int { return uv.stackSlot }

// Closed reports whether the upvalue has transitioned to the closed state.
func (uv *Upvalue) Closed() bool { return uv.closed }

// Close transitions the upvalue from open to closed, copying v (the value
// that lived in its stack slot) into its own owned cell. It is a no-op if
// the upvalue is already closed, since the transition is one-way.
func (uv *Upvalue) Close(v value.Value) {
	if uv.closed {
		return
	}
	uv.closed = true
	uv.value = v
}

// Get returns the upvalue's current value; only meaningful once Closed.
func (uv *Upvalue) Get() value.Value { return uv.value }

// Set overwrites the upvalue's current value; only meaningful once Closed.
func (uv *Upvalue) Set(v value.Value) { uv.value = v }

// Closure is a Function handle plus its captured runtime upvalues, spec.md
// §3.
type Closure struct {
	Fn       *Function
	Upvalues []*Upvalue
}

var _ value.Value = (*Closure)(nil)

func (c *Closure) Type() string   { return "closure" }
func (c *Closure) String() string { return c.Fn.String() }

// NewClosure allocates a closure over fn with the given captured upvalues.
func (h *Heap) NewClosure(fn *Function, upvalues []*Upvalue) *Closure {
	c := &Closure{Fn: fn, Upvalues: upvalues}
	h.closures = append(h.closures, c)
	return c
}

// NativeFn is a host-implemented function callable from scripts (spec.md
// §6). Fn receives a copy of its arguments as a slice, not an argument
// count and a base index into the VM's stack, and returns a Value or an
// error, which the VM reports as a runtime error.
type NativeFn struct {
	Name  string
	Arity int
	Fn    func(args []value.Value) (value.Value, error)
}

var _ value.Value = (*NativeFn)(nil)

func (n *NativeFn) Type() string   { return "native function" }
func (n *NativeFn) String() string { return fmt.Sprintf("<native fn %s>", n.Name) }

// NewNativeFn registers a native function handle with the given arity,
// enforced by the VM the same way it enforces a Closure's arity.
func (h *Heap) NewNativeFn(name string, arity int, fn func(args []value.Value) (value.Value, error)) *NativeFn {
	nf := &NativeFn{Name: name, Arity: arity, Fn: fn}
	h.natives = append(h.natives, nf)
	return nf
}

// Struct is a name handle plus a mapping from method-name handle to
// Closure handle (spec.md §3). It is mutable only between its Struct
// opcode emission and the end of its declaration; the compiler never
// touches it after the last Method opcode for it has executed.
type Struct struct {
	Name    *Str
	Methods *swiss.Map[string, *Closure]
}

var _ value.Value = (*Struct)(nil)

func (s *Struct) Type() string   { return "struct" }
func (s *Struct) String() string { return fmt.Sprintf("<struct %s>", s.Name.s) }

// Method looks up a method by name.
func (s *Struct) Method(name string) (*Closure, bool) { return s.Methods.Get(name) }

// AddMethod registers a method under name, implementing the Method opcode.
func (s *Struct) AddMethod(name string, c *Closure) { s.Methods.Put(name, c) }

// NewStruct allocates a struct value with no methods yet.
func (h *Heap) NewStruct(name *Str) *Struct {
	st := &Struct{Name: name, Methods: swiss.NewMap[string, *Closure](4)}
	h.structs = append(h.structs, st)
	return st
}

// Instance is a Struct handle plus a mapping from field-name handle to
// Value (spec.md §3). Fields are created on first assignment.
type Instance struct {
	Struct *Struct
	Fields *swiss.Map[string, value.Value]
}

var _ value.Value = (*Instance)(nil)

func (in *Instance) Type() string   { return "instance" }
func (in *Instance) String() string { return fmt.Sprintf("<instance of %s>", in.Struct.Name.s) }

// Field reads a field by name.
func (in *Instance) Field(name string) (value.Value, bool) { return in.Fields.Get(name) }

// SetField creates or overwrites a field by name.
func (in *Instance) SetField(name string, v value.Value) { in.Fields.Put(name, v) }

// NewInstance allocates an instance of st with no fields set yet.
func (h *Heap) NewInstance(st *Struct) *Instance {
	in := &Instance{Struct: st, Fields: swiss.NewMap[string, value.Value](4)}
	h.instances = append(h.instances, in)
	return in
}

// BoundMethod is an Instance handle plus a Closure handle: invoking it
// injects the Instance as slot 0 ("receiver") of the call frame (spec.md
// §3, §4.4).
type BoundMethod struct {
	Receiver *Instance
	Method   *Closure
}

var _ value.Value = (*BoundMethod)(nil)

func (bm *BoundMethod) Type() string   { return "bound method" }
func (bm *BoundMethod) String() string { return bm.Method.String() }

// NewBoundMethod allocates a bound method.
func (h *Heap) NewBoundMethod(receiver *Instance, method *Closure) *BoundMethod {
	bm := &BoundMethod{Receiver: receiver, Method: method}
	h.boundMethods = append(h.boundMethods, bm)
	return bm
}
