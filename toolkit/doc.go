// Package toolkit defines the runtime contract implemented by generated tools.
//
// Includes:
//   - Definition: name, description, JSON parameter schema.
//   - Tool[A, O]: identify (Name), describe (Definition), invoke (Call).
//   - Object/Param/Number/Text/Boolean/Array/Opaque: schema helpers used by generated code.
//   - Handler, Bind and Registry: JSON-level dispatch for orchestration layers.
//   - Invariant: properties of a Definition keep the declaration order of the wrapped function's parameters.
package toolkit
