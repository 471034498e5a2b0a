package vm

import "fmt"

// RuntimeError is returned by Interpret when script execution fails, carrying the
// message plus a frame-by-frame traceback (spec.md §4.4: "a runtime error
// unwinds every frame and reports a traceback").
type RuntimeError struct {
	Message   string
	Traceback []string
}

func (e *RuntimeError) Error() string {
	return e.Message
}

func newRuntimeError(format string, args ...any) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...)}
}
