// Package value implements the Value model of spec.md §3: a tagged union of
// primitive and heap-handle variants, and the primitive arithmetic,
// comparison and logical operations of §4.5.
//
// Following the idiom of github.com/mna/nenuphar's lang/machine/value.go,
// the "tag" of the union is the dynamic type behind the Value interface
// rather than an explicit enum field: a type switch on Value plays the role
// spec.md §3 calls "tagged union". Heap-resident variants (strings, ranges,
// functions, closures, structs, instances, bound methods, native functions)
// are defined by package heap, which implements this interface; value.go
// only defines the interface and the primitive (non-heap) variants so that
// heap can depend on value without a cycle.
package value

import "fmt"

// Value is implemented by every value the VM can push on its operand stack.
type Value interface {
	// String returns the source-level display form used by the print
	// statement and by the disassembler.
	String() string
	// Type returns a short, stable name for the value's kind, used in
	// runtime error messages ("can only call functions and structs", etc).
	Type() string
}

// Int is the 64-bit signed integer primitive variant.
type Int int64

func (Int) Type() string     { return "int" }
func (i Int) String() string { return fmt.Sprintf("%d", int64(i)) }

// Float is the 64-bit binary float primitive variant.
type Float float64

func (Float) Type() string     { return "float" }
func (f Float) String() string { return fmt.Sprintf("%g", float64(f)) }

// Bool is the boolean primitive variant.
type Bool bool

func (Bool) Type() string     { return "bool" }
func (b Bool) String() string { return fmt.Sprintf("%t", bool(b)) }

// NullType is the type of Null. Its only legal value is Null.
type NullType struct{}

// Null is the sole Null value.
var Null = NullType{}

func (NullType) Type() string   { return "null" }
func (NullType) String() string { return "null" }

var (
	_ Value = Int(0)
	_ Value = Float(0)
	_ Value = Bool(false)
	_ Value = Null
)

// Truth returns the Bool's underlying boolean. Per spec.md §4.5 there is no
// truthiness coercion: the VM's JumpIfFalse type-asserts its operand to Bool
// rather than calling Truth. Truth exists only to give Bool a named accessor
// parallel to Int64()/Float64() below.
func (b Bool) Truth() bool { return bool(b) }

// Int64 returns the underlying int64.
func (i Int) Int64() int64 { return int64(i) }

// Float64 returns the underlying float64.
func (f Float) Float64() float64 { return float64(f) }
