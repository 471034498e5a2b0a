package value

import "fmt"

// OpError is returned by the operations below when the operand types do not
// support the requested operation. The VM turns it into a RuntimeError with
// the failing instruction's source line attached.
type OpError struct {
	Op  string
	msg string
}

func (e *OpError) Error() string { return e.msg }

func opErrf(op, format string, args ...any) *OpError {
	return &OpError{Op: op, msg: fmt.Sprintf(format, args...)}
}

// Add implements the '+' operator for int+int and float+float. It does not
// handle strings: the VM concatenates two strings itself through heap.Concat
// before calling Add, since value cannot depend on heap.
func Add(lhs, rhs Value) (Value, error) {
	switch l := lhs.(type) {
	case Int:
		if r, ok := rhs.(Int); ok {
			return l + r, nil
		}
	case Float:
		if r, ok := rhs.(Float); ok {
			return l + r, nil
		}
	}
	return nil, opErrf("add", "operands must be two numbers of the same kind or two strings, got %s and %s", lhs.Type(), rhs.Type())
}

// Sub implements the '-' binary operator.
func Sub(lhs, rhs Value) (Value, error) {
	switch l := lhs.(type) {
	case Int:
		if r, ok := rhs.(Int); ok {
			return l - r, nil
		}
	case Float:
		if r, ok := rhs.(Float); ok {
			return l - r, nil
		}
	}
	return nil, opErrf("subtract", "operands must be two numbers of the same kind, got %s and %s", lhs.Type(), rhs.Type())
}

// Mul implements the '*' operator.
func Mul(lhs, rhs Value) (Value, error) {
	switch l := lhs.(type) {
	case Int:
		if r, ok := rhs.(Int); ok {
			return l * r, nil
		}
	case Float:
		if r, ok := rhs.(Float); ok {
			return l * r, nil
		}
	}
	return nil, opErrf("multiply", "operands must be two numbers of the same kind, got %s and %s", lhs.Type(), rhs.Type())
}

// Div implements the '/' operator. Int division truncates toward zero;
// division by zero of either kind is a runtime error.
func Div(lhs, rhs Value) (Value, error) {
	switch l := lhs.(type) {
	case Int:
		if r, ok := rhs.(Int); ok {
			if r == 0 {
				return nil, opErrf("divide", "division by zero")
			}
			return l / r, nil
		}
	case Float:
		if r, ok := rhs.(Float); ok {
			if r == 0 {
				return nil, opErrf("divide", "division by zero")
			}
			return l / r, nil
		}
	}
	return nil, opErrf("divide", "operands must be two numbers of the same kind, got %s and %s", lhs.Type(), rhs.Type())
}

// Negate implements the unary '-' operator. Int or Float only.
func Negate(v Value) (Value, error) {
	switch n := v.(type) {
	case Int:
		return -n, nil
	case Float:
		return -n, nil
	default:
		return nil, opErrf("negate", "can't negate a %s", v.Type())
	}
}

// Not implements the unary '!' operator. Bool only, no truthiness coercion.
func Not(v Value) (Value, error) {
	b, ok := v.(Bool)
	if !ok {
		return nil, opErrf("not", "operand of '!' must be a bool, got %s", v.Type())
	}
	return !b, nil
}

// Equal implements '=='. Equality is defined within a matching primitive
// variant and between Null and Null; Null compared to anything else yields
// Bool(false) without error; any other type mismatch is a runtime error.
// The VM compares strings itself, by content, and falls back to this
// function for everything else; other heap-handle variants compared here
// are a type error unless one side is Null.
func Equal(lhs, rhs Value) (Value, error) {
	switch l := lhs.(type) {
	case NullType:
		_, rIsNull := rhs.(NullType)
		if rIsNull {
			return Bool(true), nil
		}
		return Bool(false), nil
	case Int:
		if r, ok := rhs.(Int); ok {
			return Bool(l == r), nil
		}
	case Float:
		if r, ok := rhs.(Float); ok {
			return Bool(l == r), nil
		}
	case Bool:
		if r, ok := rhs.(Bool); ok {
			return Bool(l == r), nil
		}
	}
	if _, rIsNull := rhs.(NullType); rIsNull {
		return Bool(false), nil
	}
	return nil, opErrf("eq", "can't compare %s with %s", lhs.Type(), rhs.Type())
}

// Less implements '<'. Ordering is defined only on int/int and float/float.
func Less(lhs, rhs Value) (Value, error) {
	switch l := lhs.(type) {
	case Int:
		if r, ok := rhs.(Int); ok {
			return Bool(l < r), nil
		}
	case Float:
		if r, ok := rhs.(Float); ok {
			return Bool(l < r), nil
		}
	}
	return nil, opErrf("less", "can't order %s and %s", lhs.Type(), rhs.Type())
}

// Greater implements '>'.
func Greater(lhs, rhs Value) (Value, error) {
	switch l := lhs.(type) {
	case Int:
		if r, ok := rhs.(Int); ok {
			return Bool(l > r), nil
		}
	case Float:
		if r, ok := rhs.(Float); ok {
			return Bool(l > r), nil
		}
	}
	return nil, opErrf("greater", "can't order %s and %s", lhs.Type(), rhs.Type())
}
