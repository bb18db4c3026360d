package toolkit

import (
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Property is one named entry of an object schema.
type Property struct {
	Name   string
	Schema *jsonschema.Schema
}

// Object returns {"type": "object", "properties": {...}}. Properties keep the
// order they are passed in; an empty call still yields an empty properties object.
func Object(props ...Property) *jsonschema.Schema {
	m := orderedmap.New[string, *jsonschema.Schema]()
	for _, p := range props {
		m.Set(p.Name, p.Schema)
	}
	return &jsonschema.Schema{Type: "object", Properties: m}
}

// Param names a classified fragment and attaches its "Parameter <name>" description.
func Param(name string, fragment *jsonschema.Schema) Property {
	fragment.Description = ParamDescription(name)
	return Property{Name: name, Schema: fragment}
}

// ParamDescription is the placeholder description of a parameter property.
func ParamDescription(name string) string {
	return "Parameter " + name
}

func Number() *jsonschema.Schema  { return &jsonschema.Schema{Type: "number"} }
func Text() *jsonschema.Schema    { return &jsonschema.Schema{Type: "string"} }
func Boolean() *jsonschema.Schema { return &jsonschema.Schema{Type: "boolean"} }

// Opaque is the untyped object used for every type the classifier does not recognise.
func Opaque() *jsonschema.Schema { return &jsonschema.Schema{Type: "object"} }

// Array returns {"type": "array"}; items is omitted when nil.
func Array(items *jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "array", Items: items}
}
