package toolkit

import (
	"context"

	"github.com/invopop/jsonschema"
)

// ImportPath is the path generated files use to import this package.
const ImportPath = "github.com/petasbytes/go-toolgen/toolkit"

// Definition is the descriptor a tool advertises for discovery.
type Definition struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`
}

// Tool is implemented by every generated marker type. A is the generated
// arguments type and O the success payload of the wrapped function.
type Tool[A, O any] interface {
	// Name returns the unaltered identifier of the wrapped function.
	Name() string
	// Definition describes the tool. The prompt is accepted for parity with
	// orchestration layers that tailor definitions; generated tools ignore it.
	Definition(ctx context.Context, prompt string) Definition
	// Call invokes the wrapped function. Failures of the wrapped function are
	// returned as the tool's generated error type.
	Call(ctx context.Context, args A) (O, error)
}

// DefaultDescription is used when a tool declares no description.
func DefaultDescription(name string) string {
	return "Function to " + name
}
