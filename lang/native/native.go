// Package native implements the embedder-facing native function surface of
// spec.md §6, registering a host function as a global under a name, plus a
// small built-in library callable from Rizon source. A native function
// receives a copy of its arguments as a slice, not an argument count and a
// base index into the VM's stack, and returns a Value or an error.
//
// Grounded on github.com/mna/nenuphar's lang/machine/universe.go, which
// supplies the VM's predeclared identifiers from the embedder side; Rizon
// narrows that to the single native-function surface spec.md §6 names.
package native

import (
	"fmt"
	"time"

	"github.com/rizonlang/rizon/lang/heap"
	"github.com/rizonlang/rizon/lang/value"
)

// Registerer is satisfied by *vm.VM; kept narrow here so this package does
// not import vm (avoiding a dependency cycle, since vm may one day want to
// call back into native for its own bootstrapping).
type Registerer interface {
	DefineGlobal(name string, v value.Value)
}

// Register installs the standard library (clock, len, str, type) into vm's
// global namespace, backed by h for any handle allocation the functions
// need (str's result, for instance, must be an interned *heap.Str).
func Register(vm Registerer, h *heap.Heap) {
	define(vm, h, "clock", 0, clock)
	define(vm, h, "len", 1, length)
	define(vm, h, "str", 1, str(h))
	define(vm, h, "type", 1, typeOf(h))
}

func define(vm Registerer, h *heap.Heap, name string, arity int, fn func(args []value.Value) (value.Value, error)) {
	vm.DefineGlobal(name, h.NewNativeFn(name, arity, fn))
}

// clock returns the number of seconds since the Unix epoch as a Float, for
// benchmarking scripts, via time.Now().
func clock(_ []value.Value) (value.Value, error) {
	return value.Float(float64(time.Now().UnixNano()) / 1e9), nil
}

// length reports the size of a string (its rune count) or an iterator's
// remaining span; any other kind is a runtime error.
func length(args []value.Value) (value.Value, error) {
	switch v := args[0].(type) {
	case *heap.Str:
		return value.Int(len([]rune(v.String()))), nil
	case *heap.Range:
		return value.Int(v.End - v.Cursor), nil
	default:
		return nil, typeErrorf("len", v)
	}
}

// str converts any value to its display string, interned through h so the
// result participates in Rizon's normal string equality/concatenation.
func str(h *heap.Heap) func([]value.Value) (value.Value, error) {
	return func(args []value.Value) (value.Value, error) {
		if s, ok := args[0].(*heap.Str); ok {
			return s, nil
		}
		return h.Intern(args[0].String()), nil
	}
}

// typeOf returns the interned name of v's dynamic type (spec.md §3's
// tagged-union variants surfaced to script code).
func typeOf(h *heap.Heap) func([]value.Value) (value.Value, error) {
	return func(args []value.Value) (value.Value, error) {
		return h.Intern(args[0].Type()), nil
	}
}

func typeErrorf(fn string, v value.Value) error {
	return fmt.Errorf("%s: unsupported operand type %s", fn, v.Type())
}
