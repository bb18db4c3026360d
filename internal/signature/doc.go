// Package signature extracts tool descriptors from annotated Go declarations
// and from YAML manifests.
//
// A function becomes a tool when its doc comment carries a directive line:
//
//	// add returns the sum of a and b.
//	//
//	//toolgen:tool description="Adds two numbers"
//	func add(a, b uint64) (uint64, error)
//
// Rules:
//   - A leading context.Context parameter marks the function async; it is not
//     part of the tool's arguments.
//   - Results must be (T, error), a single T, or error alone.
//   - Methods, generic functions and unnamed or blank parameters are rejected.
//   - Every violation is reported as a *DeclError; callers generate nothing
//     for a source that has any.
package signature
