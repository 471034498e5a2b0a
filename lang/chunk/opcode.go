package chunk

// Op is a Rizon bytecode opcode. All instructions are fixed-layout: an
// opcode byte followed by zero, one or two fixed-width operand bytes,
// exactly as the instruction-set contract in spec.md §4.1 describes (no
// varint encoding, unlike nenuphar's Starlark-derived compiler — spec.md
// §4.1's own instruction table fixes the byte widths per opcode).
type Op byte

//nolint:revive
const (
	Constant Op = iota
	Null
	True
	False
	Pop
	GetLocal
	SetLocal
	DefineGlobal
	GetGlobal
	SetGlobal
	GetUpValue
	SetUpValue
	CloseUpValue
	Negate
	Not
	Add
	Subtract
	Multiply
	Divide
	Equal
	Greater
	Less
	Print
	Jump
	JumpIfFalse
	Loop
	CreateIter
	ForIter
	Call
	Closure
	Struct
	Method
	GetProperty
	SetProperty
	Invoke
	Return

	maxOp
)

var opNames = [...]string{
	Constant:     "OP_CONSTANT",
	Null:         "OP_NULL",
	True:         "OP_TRUE",
	False:        "OP_FALSE",
	Pop:          "OP_POP",
	GetLocal:     "OP_GET_LOCAL",
	SetLocal:     "OP_SET_LOCAL",
	DefineGlobal: "OP_DEFINE_GLOBAL",
	GetGlobal:    "OP_GET_GLOBAL",
	SetGlobal:    "OP_SET_GLOBAL",
	GetUpValue:   "OP_GET_UPVALUE",
	SetUpValue:   "OP_SET_UPVALUE",
	CloseUpValue: "OP_CLOSE_UPVALUE",
	Negate:       "OP_NEGATE",
	Not:          "OP_NOT",
	Add:          "OP_ADD",
	Subtract:     "OP_SUBTRACT",
	Multiply:     "OP_MULTIPLY",
	Divide:       "OP_DIVIDE",
	Equal:        "OP_EQUAL",
	Greater:      "OP_GREATER",
	Less:         "OP_LESS",
	Print:        "OP_PRINT",
	Jump:         "OP_JUMP",
	JumpIfFalse:  "OP_JUMP_IF_FALSE",
	Loop:         "OP_LOOP",
	CreateIter:   "OP_CREATE_ITER",
	ForIter:      "OP_FOR_ITER",
	Call:         "OP_CALL",
	Closure:      "OP_CLOSURE",
	Struct:       "OP_STRUCT",
	Method:       "OP_METHOD",
	GetProperty:  "OP_GET_PROPERTY",
	SetProperty:  "OP_SET_PROPERTY",
	Invoke:       "OP_INVOKE",
	Return:       "OP_RETURN",
}

func (op Op) String() string {
	if op < maxOp {
		return opNames[op]
	}
	return "OP_ILLEGAL"
}

// OperandWidth is the number of operand bytes that follow the opcode byte
// in the instruction stream, per the "Operand" column of spec.md §4.1's
// instruction table.
func (op Op) OperandWidth() int {
	switch op {
	case Constant, GetLocal, SetLocal, DefineGlobal, GetGlobal, SetGlobal,
		GetUpValue, SetUpValue, Call, Closure, Struct, Method,
		GetProperty, SetProperty:
		return 1
	case Jump, JumpIfFalse, Loop:
		return 2
	case ForIter:
		return 3 // u8 slot, u16 offset
	case Invoke:
		return 2 // u8 idx, u8 argc
	default:
		return 0
	}
}
