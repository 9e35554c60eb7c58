package mines

import "fmt"

// AssertionError reports a broken engine invariant or a position outside the
// grid. It is raised with panic: callers are expected to validate input
// before it reaches the engine.
type AssertionError struct {
	message string
}

func assertf(format string, args ...any) AssertionError {
	return AssertionError{fmt.Sprintf(format, args...)}
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return "assertion failed: " + e.message
}
