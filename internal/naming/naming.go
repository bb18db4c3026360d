// Package naming derives the identifiers of generated declarations from a
// function's snake_case name.
package naming

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Default suffixes of generated types.
const (
	MarkerSuffix = "Tool"
	ErrorSuffix  = "ToolError"
	ArgsSuffix   = "Args"
)

// Names holds the identifiers generated for one tool.
type Names struct {
	Singleton string
	Marker    string
	Args      string
	Error     string
}

// Pascal splits name on '_' and upper-cases the first rune of every segment,
// leaving the rest of the segment untouched. Empty segments contribute nothing.
func Pascal(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, seg := range strings.Split(name, "_") {
		if seg == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(seg)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(seg[size:])
	}
	return b.String()
}

// Field is the exported struct field name of a parameter.
func Field(param string) string {
	if param == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(param)
	return string(unicode.ToUpper(r)) + param[size:]
}

// Derive returns the generated names for fn. An empty errorSuffix selects
// ErrorSuffix.
func Derive(fn, errorSuffix string) Names {
	if errorSuffix == "" {
		errorSuffix = ErrorSuffix
	}
	base := Pascal(fn)
	return Names{
		Singleton: base,
		Marker:    base + MarkerSuffix,
		Args:      base + ArgsSuffix,
		Error:     base + errorSuffix,
	}
}

// All lists the names in declaration order of the generated file.
func (n Names) All() []string {
	return []string{n.Error, n.Marker, n.Singleton, n.Args}
}

// Exported reports whether the derived base is a usable exported identifier.
// Names made only of underscores, or starting with a digit, are not.
func (n Names) Exported() bool {
	return token.IsIdentifier(n.Singleton) && token.IsExported(n.Singleton)
}
