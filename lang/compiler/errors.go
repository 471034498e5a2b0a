package compiler

import "fmt"

// Error is returned by Compile when one or more syntactic or semantic
// errors were found. It aggregates every diagnostic seen across the single
// pass, since the compiler keeps going in panic-mode recovery after the
// first one (spec.md §4.2, §7).
type Error struct {
	Diagnostics []string
}

func (e *Error) Error() string {
	if len(e.Diagnostics) == 1 {
		return e.Diagnostics[0]
	}
	return fmt.Sprintf("%d compile errors, first: %s", len(e.Diagnostics), e.Diagnostics[0])
}
