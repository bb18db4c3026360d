package signature

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest describes tools without Go source.
type Manifest struct {
	Package string         `yaml:"package"`
	Imports []string       `yaml:"imports"`
	Tools   []ManifestTool `yaml:"tools"`
}

type ManifestTool struct {
	Name        string          `yaml:"name"`
	Description *string         `yaml:"description"`
	Async       bool            `yaml:"async"`
	Params      []ManifestParam `yaml:"params"`
	Returns     []string        `yaml:"returns"`
}

// ManifestParam types are Go type expressions; a "..." prefix marks the final
// parameter variadic.
type ManifestParam struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// LoadManifest reads and parses the manifest at path.
func LoadManifest(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(path, data)
}

// ParseManifest converts a manifest into a Source. Tool errors carry the line
// of the tool's entry and are joined like those of ParseFile.
func ParseManifest(path string, data []byte) (*Source, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("parse manifest %s: empty document", path)
	}
	root := doc.Content[0]

	var m Manifest
	if err := root.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.Package == "" {
		return nil, fmt.Errorf("parse manifest %s: package is required", path)
	}
	if !token.IsIdentifier(m.Package) {
		return nil, fmt.Errorf("parse manifest %s: invalid package name %q", path, m.Package)
	}

	src := &Source{Path: path, Package: m.Package}
	var errs []error
	for _, p := range m.Imports {
		imp := parseImport(p)
		if imp.Name == "." {
			errs = append(errs, declErrorf(token.Position{Filename: path}, "", "dot import of %q is not supported", imp.Path))
			continue
		}
		src.Imports = append(src.Imports, imp)
	}

	nodes := toolNodes(root)
	for i, t := range m.Tools {
		pos := token.Position{Filename: path}
		if i < len(nodes) {
			pos.Line, pos.Column = nodes[i].Line, nodes[i].Column
		}
		fn, err := manifestFunction(pos, t)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		src.Functions = append(src.Functions, fn)
	}
	return src, errors.Join(errs...)
}

// parseImport accepts "path" or "name path".
func parseImport(s string) Import {
	fields := strings.Fields(s)
	if len(fields) == 2 {
		return Import{Name: fields[0], Path: fields[1]}
	}
	return Import{Path: strings.TrimSpace(s)}
}

func toolNodes(root *yaml.Node) []*yaml.Node {
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "tools" && root.Content[i+1].Kind == yaml.SequenceNode {
			return root.Content[i+1].Content
		}
	}
	return nil
}

func manifestFunction(pos token.Position, t ManifestTool) (Function, error) {
	if t.Name == "" {
		return Function{}, declErrorf(pos, "", "tool entry has no name")
	}
	if !token.IsIdentifier(t.Name) {
		return Function{}, declErrorf(pos, t.Name, "name is not a Go identifier")
	}

	params := make([]Param, 0, len(t.Params))
	for _, p := range t.Params {
		if p.Name == "" || p.Name == "_" {
			return Function{}, declErrorf(pos, t.Name, "parameters must be named")
		}
		if !token.IsIdentifier(p.Name) {
			return Function{}, declErrorf(pos, t.Name, "parameter %q is not a Go identifier", p.Name)
		}
		spelled, variadic := strings.CutPrefix(strings.TrimSpace(p.Type), "...")
		typ, err := parseType(spelled)
		if err != nil {
			return Function{}, declErrorf(pos, t.Name, "parameter %s: %v", p.Name, err)
		}
		params = append(params, Param{Name: p.Name, Type: typ, Variadic: variadic})
	}

	results := make([]ast.Expr, 0, len(t.Returns))
	for _, r := range t.Returns {
		typ, err := parseType(r)
		if err != nil {
			return Function{}, declErrorf(pos, t.Name, "return type: %v", err)
		}
		results = append(results, typ)
	}

	return build(pos, t.Name, params, results, t.Async, ToolAttributes{Description: t.Description})
}

func parseType(s string) (ast.Expr, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.New("empty type")
	}
	expr, err := parser.ParseExpr(s)
	if err != nil {
		return nil, fmt.Errorf("invalid type %q: %w", s, err)
	}
	return expr, nil
}
