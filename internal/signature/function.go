package signature

import (
	"go/ast"
	"go/token"
)

// ResultShape is how a function reports success and failure.
type ResultShape int

const (
	// Plain functions return a single non-error value and always succeed.
	Plain ResultShape = iota
	// Fallible functions return (T, error).
	Fallible
	// ErrorOnly functions return error alone; their output is struct{}.
	ErrorOnly
)

func (s ResultShape) String() string {
	switch s {
	case Fallible:
		return "fallible"
	case ErrorOnly:
		return "error-only"
	default:
		return "plain"
	}
}

// Param is one tool parameter, in declaration order.
type Param struct {
	Name     string
	Type     ast.Expr
	Variadic bool
}

// ToolAttributes are the directive arguments. Description is nil when the
// directive has none.
type ToolAttributes struct {
	Description *string
}

// Function is the descriptor of one annotated function.
type Function struct {
	Name       string
	Params     []Param
	Result     ResultShape
	Output     ast.Expr // nil for ErrorOnly
	Async      bool
	Attributes ToolAttributes
	Pos        token.Position
}

// Import is an import spec of the source file; Name is empty when the spec
// has no explicit name.
type Import struct {
	Name string
	Path string
}

// Source is everything extracted from one file or manifest.
type Source struct {
	Path      string
	Package   string
	Imports   []Import
	Functions []Function
}
