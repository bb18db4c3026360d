package metrics_test

import (
	"testing"

	"github.com/petasbytes/go-toolgen/internal/metrics"
)

func TestCountFeatures_Table(t *testing.T) {
	cases := []struct {
		name string
		in   string
		exp  metrics.Features
	}{
		{
			name: "Empty",
			in:   "",
			exp:  metrics.Features{},
		},
		{
			name: "SingleLine",
			in:   "package p",
			exp:  metrics.Features{Bytes: 9, Runes: 9, Lines: 1, Code: 1},
		},
		{
			name: "TrailingNewline",
			in:   "package p\n",
			exp:  metrics.Features{Bytes: 10, Runes: 10, Lines: 1, Code: 1},
		},
		{
			name: "HeaderBlankAndCode",
			in:   "// Code generated. DO NOT EDIT.\n\npackage p\n\n\t// doc\nvar X = 1\n",
			exp:  metrics.Features{Bytes: 62, Runes: 62, Lines: 6, Code: 2, Comments: 2},
		},
		{
			name: "Multibyte",
			in:   "// héllo\nvar s = \"世界\"",
			exp:  metrics.Features{Bytes: 26, Runes: 21, Lines: 2, Code: 1, Comments: 1},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := metrics.CountFeatures(tc.in)
			if got != tc.exp {
				t.Fatalf("CountFeatures(%q) = %+v, want %+v", tc.in, got, tc.exp)
			}
		})
	}
}
