package tools

import (
	"github.com/invopop/jsonschema"
)

// CountSchema is the schema published to models for a count argument.
// Models send the count as a string of digits; the Go field stays untyped
// and is coerced by ResolveCount, so "seven" still reaches the fallback.
func CountSchema(description string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: description,
	}
}

// SetCountProperty replaces the inferred schema of an untyped count field.
// Call it from an input type's JSONSchemaExtend.
func SetCountProperty(s *jsonschema.Schema, name, description string) {
	if s == nil || s.Properties == nil {
		return
	}
	s.Properties.Set(name, CountSchema(description))
}
