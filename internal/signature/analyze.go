package signature

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"

	"go.uber.org/zap"

	"github.com/petasbytes/go-toolgen/internal/naming"
)

// Options control the analyzer.
type Options struct {
	// Strict rejects directive arguments other than description.
	Strict bool
	// Logger receives warnings in non-strict mode; nil disables them.
	Logger *zap.Logger
}

// reserved are identifiers generated code declares or imports in the scope
// of a tool's Call method. A wrapped function of that name would be shadowed.
var reserved = map[string]bool{
	"args": true, "ctx": true, "out": true, "err": true,
	"zero": true, "toolkit": true, "context": true,
}

// ParseFile parses one Go source file and extracts every annotated function.
// src follows go/parser.ParseFile: nil reads path from disk. The returned
// Source lists the functions that passed; err joins every *DeclError found.
func ParseFile(fset *token.FileSet, path string, src any, opts Options) (*Source, error) {
	f, err := parser.ParseFile(fset, path, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	out := &Source{Path: path, Package: f.Name.Name}
	var dotImports []*ast.ImportSpec
	for _, spec := range f.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			return nil, fmt.Errorf("parse %s: import %s: %w", path, spec.Path.Value, err)
		}
		imp := Import{Path: p}
		if spec.Name != nil {
			imp.Name = spec.Name.Name
		}
		if imp.Name == "." {
			dotImports = append(dotImports, spec)
		}
		out.Imports = append(out.Imports, imp)
	}
	ctxName := contextName(out.Imports)

	var (
		errs      []error
		annotated int
	)
	for _, decl := range f.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		args, dpos, ok := findDirective(fd.Doc)
		if !ok {
			continue
		}
		annotated++
		name := fd.Name.Name
		pos := fset.Position(fd.Name.Pos())

		attrs, ignored, err := ParseAttributes(args, opts.Strict)
		if err != nil {
			errs = append(errs, &DeclError{Pos: fset.Position(dpos), Func: name, Msg: err.Error()})
			continue
		}
		if len(ignored) > 0 && opts.Logger != nil {
			opts.Logger.Warn("ignoring unknown directive arguments",
				zap.String("func", name), zap.Strings("keys", ignored), zap.Stringer("pos", pos))
		}

		if fd.Recv != nil {
			errs = append(errs, declErrorf(pos, name, "methods cannot be tools"))
			continue
		}
		if fd.Type.TypeParams != nil && len(fd.Type.TypeParams.List) > 0 {
			errs = append(errs, declErrorf(pos, name, "generic functions cannot be tools"))
			continue
		}

		params, async, perr := fieldParams(fset, name, fd.Type.Params, ctxName)
		if perr != nil {
			errs = append(errs, perr)
			continue
		}
		fn, ferr := build(pos, name, params, resultTypes(fd.Type.Results), async, attrs)
		if ferr != nil {
			errs = append(errs, ferr)
			continue
		}
		out.Functions = append(out.Functions, fn)
	}
	// Types from a dot import look local and the generated file could not
	// name them.
	if annotated > 0 {
		for _, spec := range dotImports {
			errs = append(errs, declErrorf(fset.Position(spec.Pos()), "", "dot import of %s is not supported in a file with %s functions", spec.Path.Value, Directive))
		}
	}
	return out, errors.Join(errs...)
}

// contextName is the local name of the "context" import, or "" when the file
// does not import it.
func contextName(imports []Import) string {
	for _, imp := range imports {
		if imp.Path != "context" {
			continue
		}
		if imp.Name == "_" || imp.Name == "." {
			return ""
		}
		if imp.Name != "" {
			return imp.Name
		}
		return "context"
	}
	return ""
}

func isContext(expr ast.Expr, ctxName string) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok || ctxName == "" {
		return false
	}
	x, ok := sel.X.(*ast.Ident)
	return ok && x.Name == ctxName && sel.Sel.Name == "Context"
}

func fieldParams(fset *token.FileSet, fn string, list *ast.FieldList, ctxName string) ([]Param, bool, error) {
	if list == nil {
		return nil, false, nil
	}
	var (
		params []Param
		async  bool
	)
	for i, field := range list.List {
		if i == 0 && isContext(field.Type, ctxName) && len(field.Names) <= 1 {
			async = true
			continue
		}
		if len(field.Names) == 0 {
			return nil, false, declErrorf(fset.Position(field.Pos()), fn, "parameters must be named")
		}
		typ, variadic := field.Type, false
		if e, ok := typ.(*ast.Ellipsis); ok {
			typ, variadic = e.Elt, true
		}
		for _, id := range field.Names {
			if id.Name == "_" {
				return nil, false, declErrorf(fset.Position(id.Pos()), fn, "blank parameters cannot be tool arguments")
			}
			params = append(params, Param{Name: id.Name, Type: typ, Variadic: variadic})
		}
	}
	return params, async, nil
}

// resultTypes flattens a result list, repeating the type of grouped names.
func resultTypes(list *ast.FieldList) []ast.Expr {
	if list == nil {
		return nil
	}
	var out []ast.Expr
	for _, field := range list.List {
		n := len(field.Names)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			out = append(out, field.Type)
		}
	}
	return out
}

func isError(expr ast.Expr) bool {
	id, ok := expr.(*ast.Ident)
	return ok && id.Name == "error"
}

// build applies the rules shared by the source and manifest front ends.
func build(pos token.Position, name string, params []Param, results []ast.Expr, async bool, attrs ToolAttributes) (Function, error) {
	fn := Function{Name: name, Params: params, Async: async, Attributes: attrs, Pos: pos}

	switch {
	case len(results) == 0:
		return Function{}, declErrorf(pos, name, "a tool function must declare a return type")
	case len(results) == 1 && isError(results[0]):
		fn.Result = ErrorOnly
	case len(results) == 1:
		fn.Result, fn.Output = Plain, results[0]
	case len(results) == 2 && isError(results[1]) && !isError(results[0]):
		fn.Result, fn.Output = Fallible, results[0]
	default:
		return Function{}, declErrorf(pos, name, "cannot decompose %d results: want (T, error), T or error", len(results))
	}

	if !naming.Derive(name, "").Exported() {
		return Function{}, declErrorf(pos, name, "name does not derive an exported identifier")
	}
	if reserved[name] {
		return Function{}, declErrorf(pos, name, "name is shadowed in generated code; rename the function")
	}

	seen := make(map[string]string, len(params))
	for i, p := range params {
		if p.Variadic && i != len(params)-1 {
			return Function{}, declErrorf(pos, name, "only the final parameter may be variadic")
		}
		field := naming.Field(p.Name)
		if !token.IsExported(field) {
			return Function{}, declErrorf(pos, name, "parameter %s does not derive an exported field", p.Name)
		}
		if prev, dup := seen[field]; dup {
			return Function{}, declErrorf(pos, name, "parameters %s and %s map to the same field %s", prev, p.Name, field)
		}
		seen[field] = p.Name
	}
	return fn, nil
}
