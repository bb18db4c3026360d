package signature

import (
	"fmt"
	"go/token"
)

// DeclError reports a declaration that cannot be turned into a tool.
type DeclError struct {
	Pos  token.Position
	Func string
	Msg  string
}

func (e *DeclError) Error() string {
	if e.Func == "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Func, e.Msg)
}

func declErrorf(pos token.Position, fn, format string, args ...any) *DeclError {
	return &DeclError{Pos: pos, Func: fn, Msg: fmt.Sprintf(format, args...)}
}
