// Package typeclass maps the surface syntax of a parameter type to a coarse
// JSON Schema category. It looks at spelling only; no type checking is done.
package typeclass

import (
	"go/ast"

	"github.com/invopop/jsonschema"

	"github.com/petasbytes/go-toolgen/toolkit"
)

type Kind int

const (
	Opaque Kind = iota
	Number
	Text
	Boolean
	Sequence
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Text:
		return "string"
	case Boolean:
		return "boolean"
	case Sequence:
		return "array"
	default:
		return "object"
	}
}

// Descriptor is a classified type. Elem is set only for sequences whose
// element type is visible.
type Descriptor struct {
	Kind Kind
	Elem *Descriptor
}

var numeric = map[string]bool{
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"uintptr": true, "byte": true, "rune": true,
	"float32": true, "float64": true,
}

// Classify never fails; anything unrecognised is Opaque. []byte classifies as
// a sequence of numbers.
func Classify(expr ast.Expr) Descriptor {
	switch t := expr.(type) {
	case *ast.ParenExpr:
		return Classify(t.X)
	case *ast.ArrayType:
		// Fixed-length arrays are not sequences.
		if t.Len != nil {
			return Descriptor{Kind: Opaque}
		}
		return sequence(t.Elt)
	case *ast.Ellipsis:
		return sequence(t.Elt)
	case *ast.Ident:
		switch {
		case numeric[t.Name]:
			return Descriptor{Kind: Number}
		case t.Name == "string":
			return Descriptor{Kind: Text}
		case t.Name == "bool":
			return Descriptor{Kind: Boolean}
		}
	}
	return Descriptor{Kind: Opaque}
}

func sequence(elem ast.Expr) Descriptor {
	if elem == nil {
		return Descriptor{Kind: Sequence}
	}
	e := Classify(elem)
	return Descriptor{Kind: Sequence, Elem: &e}
}

// Fragment renders the schema fragment of d.
func (d Descriptor) Fragment() *jsonschema.Schema {
	switch d.Kind {
	case Number:
		return toolkit.Number()
	case Text:
		return toolkit.Text()
	case Boolean:
		return toolkit.Boolean()
	case Sequence:
		if d.Elem == nil {
			return toolkit.Array(nil)
		}
		return toolkit.Array(d.Elem.Fragment())
	default:
		return toolkit.Opaque()
	}
}

// Constructor is the toolkit expression generated code uses to build the
// fragment of d, e.g. toolkit.Array(toolkit.Number()).
func (d Descriptor) Constructor(pkg string) string {
	switch d.Kind {
	case Number:
		return pkg + ".Number()"
	case Text:
		return pkg + ".Text()"
	case Boolean:
		return pkg + ".Boolean()"
	case Sequence:
		if d.Elem == nil {
			return pkg + ".Array(nil)"
		}
		return pkg + ".Array(" + d.Elem.Constructor(pkg) + ")"
	default:
		return pkg + ".Opaque()"
	}
}
