// Package validator provides small, composable validation rules used by the
// payload schemas of the gateway.
//
// A Rule couples a boolean Check with the ValidationError reported when the
// check fails. Apply evaluates every rule it is given and aggregates all
// failures into a ValidationErrors value, so callers always receive the full
// list of violated constraints instead of the first one only.
//
// # Architecture
//
// Each source file groups one family of rules (`string_rules.go`,
// `choice_rules.go`, `date_rules.go`, `password_rules.go`, ...). Every exported
// function only builds a Rule; there is no global state, so the package is
// safe for concurrent use.
//
// Core building blocks:
//   - Rule             – Check func plus error metadata
//   - ValidationError  – field path, message and translation key
//   - ValidationErrors – slice type implementing error
//
// # Usage
//
//	err := validator.Apply(
//	    validator.RequiredString("email", email),
//	    validator.ValidEmail("email", email),
//	    validator.MinLenString("display_name", name, 2),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    for _, e := range verrs {
//	        fmt.Println(e.Field, e.Message, e.TranslationKey)
//	    }
//	}
//
// Messages are English fallbacks. TranslationKey and TranslationValues are
// meant to be rendered by pkg/i18n in the caller's locale.
package validator
