// Package emitter turns analyzed functions into the Go source of their tools.
package emitter

import (
	"errors"
	"fmt"
	"go/ast"
	"go/types"
	"path"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/petasbytes/go-toolgen/internal/naming"
	"github.com/petasbytes/go-toolgen/internal/signature"
	"github.com/petasbytes/go-toolgen/internal/typeclass"
	"github.com/petasbytes/go-toolgen/toolkit"
)

// File is the plan of one generated file.
type File struct {
	Package string
	Source  string // base name of the annotated file or manifest
	Imports []signature.Import
	Tools   []Tool
}

// Tool is the plan of one tool.
type Tool struct {
	Func        string
	Names       naming.Names
	Description string
	Async       bool
	Result      signature.ResultShape
	Output      string
	Fields      []Field
}

// Field is one member of the generated arguments type.
type Field struct {
	Param    string
	Name     string
	Type     string
	Variadic bool
	Class    typeclass.Descriptor
}

// GoType is the field's declared type; variadic parameters become slices.
func (f Field) GoType() string {
	if f.Variadic {
		return "[]" + f.Type
	}
	return f.Type
}

// Schema is the toolkit expression building the field's schema fragment.
func (f Field) Schema() string { return f.Class.Constructor("toolkit") }

func (t Tool) Fallible() bool  { return t.Result == signature.Fallible }
func (t Tool) ErrorOnly() bool { return t.Result == signature.ErrorOnly }

// CallExpr is the call of the wrapped function inside Call.
func (t Tool) CallExpr() string {
	args := make([]string, 0, len(t.Fields)+1)
	if t.Async {
		args = append(args, "ctx")
	}
	for _, f := range t.Fields {
		a := "args." + f.Name
		if f.Variadic {
			a += "..."
		}
		args = append(args, a)
	}
	return t.Func + "(" + strings.Join(args, ", ") + ")"
}

// Definition is the descriptor the generated Definition method returns.
func (t Tool) Definition() toolkit.Definition {
	props := make([]toolkit.Property, 0, len(t.Fields))
	for _, f := range t.Fields {
		props = append(props, toolkit.Param(f.Param, f.Class.Fragment()))
	}
	return toolkit.Definition{
		Name:        t.Func,
		Description: t.Description,
		Parameters:  toolkit.Object(props...),
	}
}

// Plan builds the file plan for src. errorSuffix overrides the default error
// type suffix when non-empty. Types whose package qualifier cannot be matched
// to an import of src are reported as *signature.DeclError.
func Plan(src *signature.Source, errorSuffix string) (*File, error) {
	file := &File{Package: src.Package, Source: path.Base(src.Path)}

	needed := map[string]signature.Import{}
	var errs []error
	for _, fn := range src.Functions {
		tool := planTool(fn, errorSuffix)

		exprs := make([]ast.Expr, 0, len(fn.Params)+1)
		for _, p := range fn.Params {
			exprs = append(exprs, p.Type)
		}
		if fn.Output != nil {
			exprs = append(exprs, fn.Output)
			for _, name := range shadowed(fn.Output) {
				errs = append(errs, &signature.DeclError{Pos: fn.Pos, Func: fn.Name,
					Msg: fmt.Sprintf("result type uses %s, which the generated Call method declares", name)})
			}
		}
		for _, q := range qualifiers(exprs...) {
			imp, ok := resolve(q, src.Imports)
			if !ok {
				errs = append(errs, &signature.DeclError{Pos: fn.Pos, Func: fn.Name,
					Msg: fmt.Sprintf("package %s is not imported", q)})
				continue
			}
			if (q == "toolkit" && imp.Path != toolkit.ImportPath) || (q == "context" && imp.Path != "context") {
				errs = append(errs, &signature.DeclError{Pos: fn.Pos, Func: fn.Name,
					Msg: fmt.Sprintf("package name %s is reserved in generated code", q)})
				continue
			}
			needed[imp.Path+" "+imp.Name] = imp
		}
		file.Tools = append(file.Tools, tool)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for _, imp := range needed {
		if imp.Name == "" && (imp.Path == "context" || imp.Path == toolkit.ImportPath) {
			continue
		}
		file.Imports = append(file.Imports, imp)
	}
	sort.Slice(file.Imports, func(i, j int) bool {
		if file.Imports[i].Path != file.Imports[j].Path {
			return file.Imports[i].Path < file.Imports[j].Path
		}
		return file.Imports[i].Name < file.Imports[j].Name
	})
	return file, nil
}

func planTool(fn signature.Function, errorSuffix string) Tool {
	t := Tool{
		Func:        fn.Name,
		Names:       naming.Derive(fn.Name, errorSuffix),
		Description: toolkit.DefaultDescription(fn.Name),
		Async:       fn.Async,
		Result:      fn.Result,
		Output:      "struct{}",
	}
	if d := fn.Attributes.Description; d != nil {
		t.Description = *d
	}
	if fn.Output != nil {
		t.Output = types.ExprString(fn.Output)
	}
	for _, p := range fn.Params {
		class := p.Type
		if p.Variadic {
			class = &ast.Ellipsis{Elt: p.Type}
		}
		t.Fields = append(t.Fields, Field{
			Param:    p.Name,
			Name:     naming.Field(p.Name),
			Type:     types.ExprString(p.Type),
			Variadic: p.Variadic,
			Class:    typeclass.Classify(class),
		})
	}
	return t
}

// callLocals are the names bound inside a generated Call method. A result type
// referring to one of them would resolve to the local instead.
var callLocals = map[string]bool{"args": true, "ctx": true, "out": true, "err": true, "zero": true}

// shadowed returns the identifiers of typ, qualifiers included, that a Call
// method local would hide. Struct field names and selected names are skipped.
func shadowed(typ ast.Expr) []string {
	seen := map[string]bool{}
	var out []string
	var visit func(n ast.Node) bool
	visit = func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Field:
			ast.Inspect(n.Type, visit)
			return false
		case *ast.SelectorExpr:
			ast.Inspect(n.X, visit)
			return false
		case *ast.Ident:
			if callLocals[n.Name] && !seen[n.Name] {
				seen[n.Name] = true
				out = append(out, n.Name)
			}
		}
		return true
	}
	ast.Inspect(typ, visit)
	return out
}

// qualifiers returns the package names used in qualified identifiers of exprs.
func qualifiers(exprs ...ast.Expr) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range exprs {
		ast.Inspect(e, func(n ast.Node) bool {
			sel, ok := n.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			if x, ok := sel.X.(*ast.Ident); ok && !seen[x.Name] {
				seen[x.Name] = true
				out = append(out, x.Name)
			}
			return false
		})
	}
	return out
}

func resolve(qualifier string, imports []signature.Import) (signature.Import, bool) {
	for _, imp := range imports {
		if imp.Name == qualifier {
			return imp, true
		}
	}
	for _, imp := range imports {
		if imp.Name == "" && AssumedName(imp.Path) == qualifier {
			return imp, true
		}
	}
	return signature.Import{}, false
}

// AssumedName guesses the package name of an import path the way goimports
// does: the last element, skipping a major version suffix, without a "go-"
// prefix and cut at the first character that cannot appear in an identifier.
func AssumedName(importPath string) string {
	base := path.Base(importPath)
	if strings.HasPrefix(base, "v") {
		if _, err := strconv.Atoi(base[1:]); err == nil {
			if dir := path.Dir(importPath); dir != "." {
				base = path.Base(dir)
			}
		}
	}
	base = strings.TrimPrefix(base, "go-")
	if i := strings.IndexFunc(base, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	}); i >= 0 {
		base = base[:i]
	}
	return base
}
