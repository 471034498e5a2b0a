// Package vm implements Rizon's stack-based bytecode interpreter (spec.md
// §4.3/§4.4): a single operand stack shared across call frames, a call-frame
// stack bounded by a maximum depth, and a switch-dispatched execution loop
// over chunk.Op.
//
// The frame/operand-stack split and the call/return plumbing are grounded on
// github.com/mna/nenuphar's lang/machine/thread.go and frame.go, adapted
// from that package's tree-walking frame model to a flat byte-code
// instruction pointer per frame.
package vm

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dolthub/swiss"
	"github.com/rizonlang/rizon/lang/chunk"
	"github.com/rizonlang/rizon/lang/disasm"
	"github.com/rizonlang/rizon/lang/heap"
	"github.com/rizonlang/rizon/lang/value"
)

// maxFrames is the call-depth limit of spec.md §4.4 ("stack overflow" error
// past this many nested calls).
const maxFrames = 64

// callFrame is one activation record: the closure being run, its bytecode
// instruction pointer, and its window's base slot into the VM's shared
// operand stack.
type callFrame struct {
	closure *heap.Closure
	ip      int
	base    int
}

// VM is a Rizon bytecode interpreter instance. Each VM owns one heap, one
// operand stack and one global namespace; it is not safe for concurrent use.
type VM struct {
	heap    *heap.Heap
	stack   []value.Value
	frames  []callFrame
	globals *swiss.Map[string, value.Value]

	openUpvalues []*heap.Upvalue

	// Stdout is where the Print opcode writes; defaults to os.Stdout.
	Stdout io.Writer

	// TraceInstructions, when set, disassembles each instruction to Stdout
	// just before executing it (the VM's disassemble_instructions flag of
	// spec.md §6). TraceStack additionally dumps the operand stack first
	// (print_stack).
	TraceInstructions bool
	TraceStack        bool
}

// New returns a VM sharing h with the compiler that produced the code it
// will run (so interned string constants compare equal to runtime strings).
func New(h *heap.Heap) *VM {
	return &VM{
		heap:    h,
		globals: swiss.NewMap[string, value.Value](32),
		Stdout:  os.Stdout,
	}
}

// DefineGlobal registers a host value (typically a *heap.NativeFn) under
// name before running any script, for native.Register to call into.
func (vm *VM) DefineGlobal(name string, v value.Value) {
	vm.globals.Put(name, v)
}

// Interpret wraps fn as a closure with no upvalues and runs it to
// completion, implementing the top-level entry point of spec.md §4.4.
func (vm *VM) Interpret(fn *heap.Function) error {
	closure := vm.heap.NewClosure(fn, nil)
	vm.push(closure)
	if err := vm.call(closure, 0); err != nil {
		return err
	}
	return vm.run()
}

func (vm *VM) push(v value.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() value.Value {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[len(vm.stack)-1-distance]
}

func (vm *VM) frame() *callFrame { return &vm.frames[len(vm.frames)-1] }

// run is the main fetch-decode-execute loop, dispatching on the current
// frame's next opcode (spec.md §4.1's instruction table).
func (vm *VM) run() error {
	for {
		fr := vm.frame()
		c := fr.closure.Fn.Chunk

		if vm.TraceStack {
			vm.printStack()
		}
		if vm.TraceInstructions {
			disasm.Instruction(vm.Stdout, c, fr.ip)
		}

		op := chunk.Op(c.Code[fr.ip])
		fr.ip++

		switch op {
		case chunk.Constant:
			idx := vm.readByte()
			vm.push(c.Constants[idx])

		case chunk.Null:
			vm.push(value.Null)
		case chunk.True:
			vm.push(value.Bool(true))
		case chunk.False:
			vm.push(value.Bool(false))
		case chunk.Pop:
			vm.pop()

		case chunk.GetLocal:
			slot := vm.readByte()
			vm.push(vm.stack[fr.base+int(slot)])
		case chunk.SetLocal:
			slot := vm.readByte()
			vm.stack[fr.base+int(slot)] = vm.peek(0)

		case chunk.DefineGlobal:
			name := vm.readString()
			vm.globals.Put(name, vm.pop())
		case chunk.GetGlobal:
			name := vm.readString()
			v, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeErr("undefined variable '%s'", name)
			}
			vm.push(v)
		case chunk.SetGlobal:
			name := vm.readString()
			if _, ok := vm.globals.Get(name); !ok {
				return vm.runtimeErr("undefined variable '%s'", name)
			}
			vm.globals.Put(name, vm.peek(0))

		case chunk.GetUpValue:
			slot := vm.readByte()
			uv := fr.closure.Upvalues[slot]
			vm.push(vm.readUpvalue(uv))
		case chunk.SetUpValue:
			slot := vm.readByte()
			uv := fr.closure.Upvalues[slot]
			vm.writeUpvalue(uv, vm.peek(0))
		case chunk.CloseUpValue:
			vm.closeUpvalues(len(vm.stack) - 1)
			vm.pop()

		case chunk.Negate:
			v, err := value.Negate(vm.peek(0))
			if err != nil {
				return vm.runtimeErr("%s", err)
			}
			vm.pop()
			vm.push(v)
		case chunk.Not:
			v, err := value.Not(vm.peek(0))
			if err != nil {
				return vm.runtimeErr("%s", err)
			}
			vm.pop()
			vm.push(v)

		case chunk.Add:
			if err := vm.binaryAdd(); err != nil {
				return err
			}
		case chunk.Subtract:
			if err := vm.binaryNumeric(value.Sub); err != nil {
				return err
			}
		case chunk.Multiply:
			if err := vm.binaryNumeric(value.Mul); err != nil {
				return err
			}
		case chunk.Divide:
			if err := vm.binaryNumeric(value.Div); err != nil {
				return err
			}
		case chunk.Equal:
			if err := vm.binaryEqual(); err != nil {
				return err
			}
		case chunk.Greater:
			if err := vm.binaryNumeric(value.Greater); err != nil {
				return err
			}
		case chunk.Less:
			if err := vm.binaryNumeric(value.Less); err != nil {
				return err
			}

		case chunk.Print:
			fmt.Fprintln(vm.Stdout, displayString(vm.pop()))

		case chunk.Jump:
			offset := vm.readUint16()
			fr.ip += int(offset)
		case chunk.JumpIfFalse:
			offset := vm.readUint16()
			b, ok := vm.peek(0).(value.Bool)
			if !ok {
				return vm.runtimeErr("condition must be a bool, got %s", vm.peek(0).Type())
			}
			if !bool(b) {
				fr.ip += int(offset)
			}
		case chunk.Loop:
			offset := vm.readUint16()
			fr.ip -= int(offset)

		case chunk.CreateIter:
			n, ok := vm.peek(0).(value.Int)
			if !ok {
				return vm.runtimeErr("for loop range must be an int, got %s", vm.peek(0).Type())
			}
			vm.pop()
			vm.push(vm.heap.NewRange(int64(n)))
		case chunk.ForIter:
			slot := vm.readByte()
			offset := vm.readUint16()
			r, ok := vm.stack[fr.base+int(slot)].(*heap.Range)
			if !ok {
				return vm.runtimeErr("internal error: for-loop slot is not an iterator")
			}
			next, more := r.Next()
			if !more {
				fr.ip += int(offset)
				continue
			}
			// the loop variable's slot sits right above the iterator's
			vm.stack[fr.base+int(slot)+1] = value.Int(next)

		case chunk.Call:
			argc := int(vm.readByte())
			if err := vm.callValue(vm.peek(argc), argc); err != nil {
				return err
			}
		case chunk.Invoke:
			name := vm.readString()
			argc := int(vm.readByte())
			if err := vm.invoke(name, argc); err != nil {
				return err
			}

		case chunk.Closure:
			idx := vm.readByte()
			fn := c.Constants[idx].(*heap.Function)
			upvalues := make([]*heap.Upvalue, len(fn.Upvalues))
			for i, desc := range fn.Upvalues {
				if desc.IsLocal {
					upvalues[i] = vm.captureUpvalue(fr.base + int(desc.Index))
				} else {
					upvalues[i] = fr.closure.Upvalues[desc.Index]
				}
			}
			vm.push(vm.heap.NewClosure(fn, upvalues))

		case chunk.Struct:
			name := vm.readString()
			vm.push(vm.heap.NewStruct(vm.heap.Intern(name)))
		case chunk.Method:
			name := vm.readString()
			method := vm.peek(0).(*heap.Closure)
			st := vm.peek(1).(*heap.Struct)
			st.AddMethod(name, method)
			vm.pop()

		case chunk.GetProperty:
			name := vm.readString()
			if err := vm.getProperty(name); err != nil {
				return err
			}
		case chunk.SetProperty:
			name := vm.readString()
			val := vm.pop()
			inst, ok := vm.peek(0).(*heap.Instance)
			if !ok {
				return vm.runtimeErr("only instances have fields, got %s", vm.peek(0).Type())
			}
			inst.SetField(name, val)
			vm.pop()
			vm.push(val)

		case chunk.Return:
			result := vm.pop()
			vm.closeUpvalues(fr.base)
			retBase := fr.base
			done := len(vm.frames) == 1
			vm.frames = vm.frames[:len(vm.frames)-1]
			vm.stack = vm.stack[:retBase]
			if done {
				return nil
			}
			vm.push(result)

		default:
			return vm.runtimeErr("internal error: unknown opcode %d", op)
		}
	}
}

func (vm *VM) printStack() {
	fmt.Fprint(vm.Stdout, "          ")
	for _, v := range vm.stack {
		fmt.Fprintf(vm.Stdout, "[ %s ]", displayString(v))
	}
	fmt.Fprintln(vm.Stdout)
}

func (vm *VM) readByte() byte {
	fr := vm.frame()
	b := fr.closure.Fn.Chunk.Code[fr.ip]
	fr.ip++
	return b
}

func (vm *VM) readUint16() uint16 {
	fr := vm.frame()
	v := fr.closure.Fn.Chunk.ReadUint16(fr.ip)
	fr.ip += 2
	return v
}

func (vm *VM) readString() string {
	idx := vm.readByte()
	return vm.frame().closure.Fn.Chunk.Constants[idx].(*heap.Str).String()
}

func (vm *VM) runtimeErr(format string, args ...any) *RuntimeError {
	err := newRuntimeError(format, args...)
	for i := len(vm.frames) - 1; i >= 0; i-- {
		fn := vm.frames[i].closure.Fn
		line := fn.Chunk.Lines[vm.frames[i].ip-1]
		name := "<script>"
		if fn.Name != nil {
			name = fn.Name.String()
		}
		err.Traceback = append(err.Traceback, fmt.Sprintf("[line %d] in %s", line, name))
	}
	return err
}

func (vm *VM) binaryAdd() error {
	rhs, lhs := vm.peek(0), vm.peek(1)
	if ls, ok := lhs.(*heap.Str); ok {
		rs, ok := rhs.(*heap.Str)
		if !ok {
			return vm.runtimeErr("operands must be two numbers or two strings, got %s and %s", lhs.Type(), rhs.Type())
		}
		vm.pop()
		vm.pop()
		vm.push(vm.heap.Concat(ls, rs))
		return nil
	}
	v, err := value.Add(lhs, rhs)
	if err != nil {
		return vm.runtimeErr("%s", err)
	}
	vm.pop()
	vm.pop()
	vm.push(v)
	return nil
}

func (vm *VM) binaryNumeric(op func(lhs, rhs value.Value) (value.Value, error)) error {
	rhs, lhs := vm.peek(0), vm.peek(1)
	v, err := op(lhs, rhs)
	if err != nil {
		return vm.runtimeErr("%s", err)
	}
	vm.pop()
	vm.pop()
	vm.push(v)
	return nil
}

func (vm *VM) binaryEqual() error {
	rhs, lhs := vm.peek(0), vm.peek(1)
	if ls, ok := lhs.(*heap.Str); ok {
		if rs, ok := rhs.(*heap.Str); ok {
			vm.pop()
			vm.pop()
			vm.push(value.Bool(ls.Equal(rs)))
			return nil
		}
		vm.pop()
		vm.pop()
		vm.push(value.Bool(false))
		return nil
	}
	v, err := value.Equal(lhs, rhs)
	if err != nil {
		return vm.runtimeErr("%s", err)
	}
	vm.pop()
	vm.pop()
	vm.push(v)
	return nil
}

// displayString renders v the way print shows it: a string literal is
// quoted (spec.md §8 scenario 2: `print a + b;` over two strings shows
// `"hi there"`), every other kind uses its own plain String() form.
func displayString(v value.Value) string {
	if s, ok := v.(*heap.Str); ok {
		return strconv.Quote(s.String())
	}
	return v.String()
}

func (vm *VM) getProperty(name string) error {
	inst, ok := vm.peek(0).(*heap.Instance)
	if !ok {
		return vm.runtimeErr("only instances have properties, got %s", vm.peek(0).Type())
	}
	if v, ok := inst.Field(name); ok {
		vm.pop()
		vm.push(v)
		return nil
	}
	if m, ok := inst.Struct.Method(name); ok {
		vm.pop()
		vm.push(vm.heap.NewBoundMethod(inst, m))
		return nil
	}
	return vm.runtimeErr("undefined property '%s'", name)
}
