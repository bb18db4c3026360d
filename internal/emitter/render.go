package emitter

import (
	"bytes"
	"fmt"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/petasbytes/go-toolgen/toolkit"
)

// Header is the first line of every generated file; tools recognise the
// "Code generated ... DO NOT EDIT." form.
func Header(source string) string {
	return "// Code generated by toolgen from " + source + ". DO NOT EDIT."
}

var fileTemplate = template.Must(template.New("tools").Funcs(template.FuncMap{
	"quote":   func(s string) string { return fmt.Sprintf("%q", s) },
	"header":  Header,
	"toolkit": func() string { return toolkit.ImportPath },
}).Parse(`{{header .Source}}

package {{.Package}}

import (
	"context"
{{- range .Imports}}
	{{if .Name}}{{.Name}} {{end}}{{quote .Path}}
{{- end}}

	{{quote toolkit}}
)
{{range .Tools}}
// {{.Names.Error}} is the error returned when {{.Func}} fails.
type {{.Names.Error}} struct {
	Message string
}

func (e *{{.Names.Error}}) Error() string { return toolkit.ExecutionFailed(e.Message) }

func (e *{{.Names.Error}}) ExecutionMessage() string { return e.Message }

// {{.Names.Args}} holds the arguments of {{.Func}}.
type {{.Names.Args}} struct {
{{- range .Fields}}
	{{.Name}} {{.GoType}} ` + "`json:\"{{.Param}}\"`" + `
{{- end}}
}

// {{.Names.Marker}} exposes {{.Func}} as a tool.
type {{.Names.Marker}} struct{}

// {{.Names.Singleton}} is the {{.Func}} tool.
var {{.Names.Singleton}} = {{.Names.Marker}}{}

var _ toolkit.Tool[{{.Names.Args}}, {{.Output}}] = {{.Names.Marker}}{}

func ({{.Names.Marker}}) Name() string { return {{quote .Func}} }

func ({{.Names.Marker}}) Definition(_ context.Context, _ string) toolkit.Definition {
	return toolkit.Definition{
		Name:        {{quote .Func}},
		Description: {{quote .Description}},
{{- if .Fields}}
		Parameters: toolkit.Object(
{{- range .Fields}}
			toolkit.Param({{quote .Param}}, {{.Schema}}),
{{- end}}
		),
{{- else}}
		Parameters: toolkit.Object(),
{{- end}}
	}
}

func ({{.Names.Marker}}) Call({{if .Async}}ctx{{else}}_{{end}} context.Context, {{if .Fields}}args{{else}}_{{end}} {{.Names.Args}}) ({{.Output}}, error) {
{{- if .Fallible}}
	out, err := {{.CallExpr}}
	if err != nil {
		var zero {{.Output}}
		return zero, &{{.Names.Error}}{Message: toolkit.ErrorText(err)}
	}
	return out, nil
{{- else if .ErrorOnly}}
	if err := {{.CallExpr}}; err != nil {
		return struct{}{}, &{{.Names.Error}}{Message: toolkit.ErrorText(err)}
	}
	return struct{}{}, nil
{{- else}}
	return {{.CallExpr}}, nil
{{- end}}
}
{{end}}`))

// Render executes the file template and formats the result. filename is only
// used in error messages.
func Render(filename string, f *File) ([]byte, error) {
	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, f); err != nil {
		return nil, fmt.Errorf("render %s: %w", filename, err)
	}
	out, err := imports.Process(filename, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("format %s: %w\n%s", filename, err, buf.Bytes())
	}
	return out, nil
}
