package vm

import (
	"github.com/rizonlang/rizon/lang/heap"
	"github.com/rizonlang/rizon/lang/value"
)

// callValue dispatches a Call instruction on the value at stack position
// len(vm.stack)-1-argc, implementing the callee-kind cases of spec.md §4.4:
// a Closure pushes a new frame; a NativeFn calls straight through; a Struct
// allocates an Instance and, if it defines init, calls it; a BoundMethod
// injects its receiver as frame slot 0 and calls its underlying Closure.
func (vm *VM) callValue(callee value.Value, argc int) error {
	switch fn := callee.(type) {
	case *heap.Closure:
		return vm.call(fn, argc)
	case *heap.NativeFn:
		return vm.callNative(fn, argc)
	case *heap.Struct:
		return vm.callStruct(fn, argc)
	case *heap.BoundMethod:
		// Replace the bound method on the stack with its receiver, so the
		// callee window's slot 0 ("self") lines up exactly like an ordinary
		// method closure call.
		base := len(vm.stack) - argc - 1
		vm.stack[base] = fn.Receiver
		return vm.call(fn.Method, argc)
	default:
		return vm.runtimeErr("can only call functions and structs, got %s", callee.Type())
	}
}

func (vm *VM) call(closure *heap.Closure, argc int) error {
	if argc != closure.Fn.Arity {
		return vm.runtimeErr("expected %d arguments but got %d", closure.Fn.Arity, argc)
	}
	if len(vm.frames) >= maxFrames {
		return vm.runtimeErr("stack overflow")
	}
	vm.frames = append(vm.frames, callFrame{
		closure: closure,
		base:    len(vm.stack) - argc - 1,
	})
	return nil
}

func (vm *VM) callNative(fn *heap.NativeFn, argc int) error {
	if argc != fn.Arity {
		return vm.runtimeErr("expected %d arguments but got %d", fn.Arity, argc)
	}
	base := len(vm.stack) - argc
	args := append([]value.Value(nil), vm.stack[base:]...)
	result, err := fn.Fn(args)
	if err != nil {
		return vm.runtimeErr("%s", err)
	}
	vm.stack = vm.stack[:base-1]
	vm.push(result)
	return nil
}

func (vm *VM) callStruct(st *heap.Struct, argc int) error {
	base := len(vm.stack) - argc - 1
	inst := vm.heap.NewInstance(st)
	vm.stack[base] = inst
	if init, ok := st.Method("init"); ok {
		return vm.call(init, argc)
	}
	if argc != 0 {
		return vm.runtimeErr("expected 0 arguments but got %d", argc)
	}
	return nil
}

// invoke implements the Invoke optimization of spec.md §4.1: a fused
// GetProperty+Call for the common "obj.method(args)" call shape, avoiding
// an intermediate BoundMethod allocation.
func (vm *VM) invoke(name string, argc int) error {
	inst, ok := vm.peek(argc).(*heap.Instance)
	if !ok {
		return vm.runtimeErr("only instances have methods, got %s", vm.peek(argc).Type())
	}
	if field, ok := inst.Field(name); ok {
		base := len(vm.stack) - argc - 1
		vm.stack[base] = field
		return vm.callValue(field, argc)
	}
	method, ok := inst.Struct.Method(name)
	if !ok {
		return vm.runtimeErr("undefined property '%s'", name)
	}
	return vm.call(method, argc)
}

// captureUpvalue returns the open upvalue for an absolute stack slot,
// reusing an existing one if another closure already captured that slot
// (spec.md §4.2/§9's "shared-cell canonicalization").
func (vm *VM) captureUpvalue(stackSlot int) *heap.Upvalue {
	for _, uv := range vm.openUpvalues {
		if !uv.Closed() && uv.StackSlot() == stackSlot {
			return uv
		}
	}
	uv := vm.heap.NewOpenUpvalue(stackSlot)
	vm.openUpvalues = append(vm.openUpvalues, uv)
	return uv
}

// closeUpvalues closes every still-open upvalue pointing at or above
// stackSlot, copying its value out of the stack before the slot goes away
// (spec.md §3: upvalues transition open -> closed exactly once).
func (vm *VM) closeUpvalues(stackSlot int) {
	kept := vm.openUpvalues[:0]
	for _, uv := range vm.openUpvalues {
		if uv.StackSlot() >= stackSlot {
			uv.Close(vm.stack[uv.StackSlot()])
		} else {
			kept = append(kept, uv)
		}
	}
	vm.openUpvalues = kept
}

func (vm *VM) readUpvalue(uv *heap.Upvalue) value.Value {
	if uv.Closed() {
		return uv.Get()
	}
	return vm.stack[uv.StackSlot()]
}

func (vm *VM) writeUpvalue(uv *heap.Upvalue, v value.Value) {
	if uv.Closed() {
		uv.Set(v)
		return
	}
	vm.stack[uv.StackSlot()] = v
}
