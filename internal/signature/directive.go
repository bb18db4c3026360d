package signature

import (
	"fmt"
	"go/ast"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"
)

// Directive is the comment prefix that marks a function as a tool.
const Directive = "//toolgen:tool"

// findDirective returns the argument text of the directive in doc.
func findDirective(doc *ast.CommentGroup) (args string, pos token.Pos, ok bool) {
	if doc == nil {
		return "", token.NoPos, false
	}
	for _, c := range doc.List {
		rest, found := strings.CutPrefix(c.Text, Directive)
		if !found {
			continue
		}
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			continue
		}
		return strings.TrimSpace(rest), c.Slash, true
	}
	return "", token.NoPos, false
}

// ParseAttributes parses directive arguments. The grammar is empty or
// `description = <string literal>`; either literal form is accepted and escape
// sequences are interpreted. In non-strict mode other `key = value` pairs are
// skipped and returned as ignored keys.
func ParseAttributes(args string, strict bool) (attrs ToolAttributes, ignored []string, err error) {
	toks, err := tokenize(args)
	if err != nil {
		return ToolAttributes{}, nil, err
	}
	for len(toks) > 0 {
		if len(toks) < 3 || toks[0].tok != token.IDENT || toks[1].tok != token.ASSIGN {
			return ToolAttributes{}, nil, fmt.Errorf("malformed directive arguments %q: want key = value", args)
		}
		key, val := toks[0].lit, toks[2]
		toks = toks[3:]
		if len(toks) > 0 {
			if toks[0].tok != token.COMMA {
				return ToolAttributes{}, nil, fmt.Errorf("malformed directive arguments %q: unexpected %s after %s", args, toks[0], key)
			}
			toks = toks[1:]
		}

		if key != "description" {
			if strict {
				return ToolAttributes{}, nil, fmt.Errorf("unknown directive argument %q", key)
			}
			ignored = append(ignored, key)
			continue
		}
		if val.tok != token.STRING {
			return ToolAttributes{}, nil, fmt.Errorf("description must be a string literal, got %s", val)
		}
		if attrs.Description != nil {
			return ToolAttributes{}, nil, fmt.Errorf("description given more than once")
		}
		s, err := strconv.Unquote(val.lit)
		if err != nil {
			return ToolAttributes{}, nil, fmt.Errorf("description: %w", err)
		}
		attrs.Description = &s
	}
	return attrs, ignored, nil
}

type lexeme struct {
	tok token.Token
	lit string
}

func (l lexeme) String() string {
	if l.lit != "" {
		return l.lit
	}
	return l.tok.String()
}

func tokenize(src string) ([]lexeme, error) {
	fset := token.NewFileSet()
	file := fset.AddFile("directive", -1, len(src))

	var errs scanner.ErrorList
	var s scanner.Scanner
	s.Init(file, []byte(src), func(pos token.Position, msg string) { errs.Add(pos, msg) }, 0)

	var out []lexeme
	for {
		_, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		// Automatic semicolons at end of input.
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}
		out = append(out, lexeme{tok: tok, lit: lit})
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("directive arguments: %w", errs.Err())
	}
	return out, nil
}
