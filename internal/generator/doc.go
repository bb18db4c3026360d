// Package generator drives one toolgen run: analyze a source file or
// manifest, check the generated identifiers against the package, render and
// write the tools file.
package generator
