// Package invariant provides contract assertions for the scanner and tree
// builder. Violations here are programming errors in this module, not bad
// user input — they panic rather than participate in the kerrors error
// flow.
package invariant

import (
	"fmt"
	"runtime"
)

// Precondition checks an input contract at function entry.
//
// Example:
//
//	invariant.Precondition(len(tokens) > 0, "tokens must not be empty")
func Precondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Invariant checks an internal invariant during function execution, such
// as cursor monotonicity.
//
// Example:
//
//	prev := p.pos
//	p.pop()
//	invariant.Invariant(p.pos > prev, "cursor must advance")
func Invariant(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// InRange panics if value is outside [min, max].
func InRange(value, minVal, maxVal int, name string) {
	if value < minVal || value > maxVal {
		fail("PRECONDITION", "%s must be in range [%d, %d], got %d",
			name, minVal, maxVal, value)
	}
}

// NotNil panics if value is nil.
func NotNil(value interface{}, name string) {
	if value == nil {
		fail("PRECONDITION", "%s must not be nil", name)
	}
}

// fail panics with a formatted message including the call site.
func fail(kind, format string, args ...interface{}) {
	pc := make([]uintptr, 10)
	n := runtime.Callers(3, pc)
	frames := runtime.CallersFrames(pc[:n])

	msg := fmt.Sprintf("%s VIOLATION: "+format, append([]interface{}{kind}, args...)...)
	if frame, ok := frames.Next(); ok {
		msg += fmt.Sprintf("\n  at %s:%d", frame.File, frame.Line)
	}
	panic(msg)
}
