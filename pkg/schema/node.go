package schema

import (
	"maps"
	"slices"

	"github.com/dmitrymomot/tournament-auth/pkg/validator"
)

// Node validates a single raw value found at path.
// scope holds the raw sibling values of the enclosing object.
type Node interface {
	Validate(path string, raw any, scope map[string]any) (any, validator.ValidationErrors)
}

// Field binds a Node to an object key.
type Field struct {
	Name     string
	Required bool
	Node     Node
}

func Required(name string, node Node) Field {
	return Field{Name: name, Required: true, Node: node}
}

func Optional(name string, node Node) Field {
	return Field{Name: name, Node: node}
}

// ObjectNode validates a JSON object with a fixed set of keys.
type ObjectNode struct {
	fields       []Field
	allowUnknown bool
}

// Object builds an ObjectNode. Keys not declared by fields are rejected.
func Object(fields ...Field) *ObjectNode {
	return &ObjectNode{fields: fields}
}

// Extend returns a copy of o with additional fields appended.
// A field with an existing name replaces the previous declaration.
func (o *ObjectNode) Extend(fields ...Field) *ObjectNode {
	out := &ObjectNode{allowUnknown: o.allowUnknown}
	out.fields = slices.Clone(o.fields)
	for _, f := range fields {
		if i := slices.IndexFunc(out.fields, func(e Field) bool { return e.Name == f.Name }); i >= 0 {
			out.fields[i] = f
			continue
		}
		out.fields = append(out.fields, f)
	}
	return out
}

// AllowUnknown returns a copy of o that silently drops undeclared keys.
func (o *ObjectNode) AllowUnknown() *ObjectNode {
	return &ObjectNode{fields: slices.Clone(o.fields), allowUnknown: true}
}

// Fields returns the declared field names in order.
func (o *ObjectNode) Fields() []string {
	names := make([]string, 0, len(o.fields))
	for _, f := range o.fields {
		names = append(names, f.Name)
	}
	return names
}

func (o *ObjectNode) Validate(path string, raw any, _ map[string]any) (any, validator.ValidationErrors) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, validator.ValidationErrors{
			validator.Failure(fieldPath(path), "must be an object", "validation.type_object"),
		}
	}

	var errs validator.ValidationErrors
	out := make(Values, len(o.fields))
	declared := make(map[string]bool, len(o.fields))

	for _, f := range o.fields {
		declared[f.Name] = true
		p := join(path, f.Name)

		v, present := obj[f.Name]
		if !present {
			if f.Required {
				errs.Add(validator.Failure(p, "field is required", "validation.required"))
			}
			continue
		}

		norm, ferrs := f.Node.Validate(p, v, obj)
		if len(ferrs) > 0 {
			errs = append(errs, ferrs...)
			continue
		}
		out[f.Name] = norm
	}

	if !o.allowUnknown {
		for _, key := range slices.Sorted(maps.Keys(obj)) {
			if !declared[key] {
				errs.Add(validator.Failure(join(path, key), "field is not allowed", "validation.unknown_field"))
			}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func join(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func fieldPath(path string) string {
	if path == "" {
		return "body"
	}
	return path
}
