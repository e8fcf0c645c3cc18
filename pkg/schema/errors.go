package schema

import "errors"

var (
	// ErrUnknownSchema is returned by Engine.Validate for an unregistered schema name.
	ErrUnknownSchema = errors.New("unknown schema")
)
