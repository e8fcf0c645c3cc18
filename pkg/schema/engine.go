package schema

import (
	"fmt"
	"maps"
)

// Engine holds named root schemas. It is immutable after construction and safe
// for concurrent use.
type Engine struct {
	schemas map[string]*ObjectNode
}

func NewEngine(schemas map[string]*ObjectNode) *Engine {
	return &Engine{schemas: maps.Clone(schemas)}
}

// Validate checks payload against the schema registered under name.
// On failure the error is a validator.ValidationErrors listing every violation.
func (e *Engine) Validate(name string, payload map[string]any) (Values, error) {
	root, ok := e.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}

	if payload == nil {
		payload = map[string]any{}
	}

	v, errs := root.Validate("", payload, nil)
	if len(errs) > 0 {
		return nil, errs
	}
	return v.(Values), nil
}

// Has reports whether a schema is registered under name.
func (e *Engine) Has(name string) bool {
	_, ok := e.schemas[name]
	return ok
}
