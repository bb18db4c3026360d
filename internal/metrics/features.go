// Package metrics derives size features of generated Go sources.
package metrics

import (
	"strings"
	"unicode/utf8"
)

// Features holds size features of a Go source text.
type Features struct {
	Bytes    int
	Runes    int
	Lines    int
	Code     int // lines that are neither blank nor comment-only
	Comments int
}

// CountFeatures computes the features of src.
func CountFeatures(src string) Features {
	f := Features{
		Bytes: len(src),
		Runes: utf8.RuneCountInString(src),
		Lines: countLines(src),
	}
	if src == "" {
		return f
	}
	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
		case strings.HasPrefix(trimmed, "//"):
			f.Comments++
		default:
			f.Code++
		}
	}
	return f
}

// countLines returns 0 for empty strings; otherwise 1 plus the number of '\n'
// runes, not counting a single trailing newline.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	s = strings.TrimSuffix(s, "\n")
	return 1 + strings.Count(s, "\n")
}
