package generator

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/petasbytes/go-toolgen/internal/emitter"
	"github.com/petasbytes/go-toolgen/internal/signature"
)

// CollisionError reports a generated identifier that is already taken.
type CollisionError struct {
	Pos  token.Position
	Func string
	Name string
	With string // another tool or a file of the package
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s: %s: generated identifier %s collides with %s", e.Pos, e.Func, e.Name, e.With)
}

// fileScan is the cached result of reading one file's package-level names.
type fileScan struct {
	modTime time.Time
	size    int64
	pkg     string
	header  string // first line when it is a generated-code header
	names   []string
}

func (g *Generator) checkCollisions(src *signature.Source, file *emitter.File, output string) error {
	var errs []error

	owner := map[string]string{}
	for i, t := range file.Tools {
		for _, name := range t.Names.All() {
			if prev, taken := owner[name]; taken {
				errs = append(errs, &CollisionError{Pos: src.Functions[i].Pos, Func: t.Func, Name: name, With: "tool " + prev})
				continue
			}
			owner[name] = t.Func
		}
	}

	declared, err := g.packageNames(filepath.Dir(output), src.Package, output, emitter.Header(file.Source))
	if err != nil {
		return err
	}
	for i, t := range file.Tools {
		for _, name := range t.Names.All() {
			if where, taken := declared[name]; taken {
				errs = append(errs, &CollisionError{Pos: src.Functions[i].Pos, Func: t.Func, Name: name, With: where})
			}
		}
	}
	return errors.Join(errs...)
}

// packageNames maps the package-level identifiers of pkg in dir to the file
// declaring them. Test files, the output file and files generated from the
// same source are skipped.
func (g *Generator) packageNames(dir, pkg, output, header string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan package: %w", err)
	}
	outAbs, _ := filepath.Abs(output)

	declared := map[string]string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		path := filepath.Join(dir, name)
		if abs, _ := filepath.Abs(path); abs == outAbs {
			continue
		}
		scan, err := g.scanFile(path)
		if err != nil {
			return nil, err
		}
		if scan.pkg != pkg || scan.header == header {
			continue
		}
		for _, n := range scan.names {
			if _, dup := declared[n]; !dup {
				declared[n] = name
			}
		}
	}
	return declared, nil
}

func (g *Generator) scanFile(path string) (fileScan, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileScan{}, fmt.Errorf("scan %s: %w", path, err)
	}
	if cached, ok := g.scans.Get(path); ok && cached.modTime.Equal(info.ModTime()) && cached.size == info.Size() {
		return cached, nil
	}

	f, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return fileScan{}, fmt.Errorf("scan %s: %w", path, err)
	}
	scan := fileScan{modTime: info.ModTime(), size: info.Size(), pkg: f.Name.Name, names: topLevelNames(f)}
	if ast.IsGenerated(f) && len(f.Comments) > 0 {
		scan.header = f.Comments[0].List[0].Text
	}
	g.scans.Add(path, scan)
	return scan, nil
}

func topLevelNames(f *ast.File) []string {
	var names []string
	add := func(id *ast.Ident) {
		if id.Name != "_" && id.Name != "init" {
			names = append(names, id.Name)
		}
	}
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				add(d.Name)
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					add(s.Name)
				case *ast.ValueSpec:
					for _, id := range s.Names {
						add(id)
					}
				}
			}
		}
	}
	sort.Strings(names)
	return names
}
