// Package schema validates untyped request payloads against declarative,
// named schemas and returns normalized, type-coerced values.
//
// A schema is built from Nodes: String, Email, URI, Enum, Int, Date, Password,
// Object and Switch. Object lists its fields as Required or Optional; a Switch
// selects the sub-schema for a field from the raw value of a sibling field,
// so the set of required keys can depend on another key of the same payload.
//
//	register := schema.Object(
//	    schema.Required("role", schema.Enum("organisateur", "joueur")),
//	    schema.Required("profileData", schema.Switch("role", base, map[string]schema.Node{
//	        "organisateur": organizer,
//	    })),
//	)
//	engine := schema.NewEngine(map[string]*schema.ObjectNode{"register": register})
//	values, err := engine.Validate("register", payload)
//
// Validation never stops at the first failing field: every independent field
// is checked and all failures are returned as validator.ValidationErrors with
// dotted field paths such as "profileData.city". Within one field, a missing
// value or a type mismatch suppresses the remaining constraint checks.
package schema
