package toolkit

import (
	"errors"
	"fmt"
)

var (
	// ErrToolNotFound is returned when a registry has no tool of the requested name.
	ErrToolNotFound = errors.New("tool not found")
	// ErrDuplicateTool is returned when a name is registered twice.
	ErrDuplicateTool = errors.New("tool already registered")
)

// Failure is implemented by every generated error type. Only the text of the
// original error survives normalization.
type Failure interface {
	error
	ExecutionMessage() string
}

// ErrorText is the conversion applied to a wrapped function's error at the
// call boundary.
func ErrorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ExecutionFailed formats the Error() text of generated error types.
func ExecutionFailed(msg string) string {
	return "tool execution failed: " + msg
}

// ArgumentsError reports a payload that could not be decoded into a tool's
// arguments type.
type ArgumentsError struct {
	Tool string
	Err  error
}

func (e *ArgumentsError) Error() string {
	return fmt.Sprintf("tool %s: invalid arguments: %v", e.Tool, e.Err)
}

func (e *ArgumentsError) Unwrap() error { return e.Err }
