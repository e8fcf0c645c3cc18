package validator

import (
	"fmt"
	"time"
)

// NotAfter validates that value is not later than limit.
// Schemas pass time.Now() to express "not in the future".
func NotAfter(field string, value, limit time.Time) Rule {
	return Rule{
		Check: func() bool {
			return !value.After(limit)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "date must not be in the future",
			TranslationKey: "validation.date_not_future",
			TranslationValues: map[string]any{
				"field": field,
				"max":   limit.Format(time.DateOnly),
			},
		},
	}
}

func DateBefore(field string, value time.Time, before time.Time) Rule {
	return Rule{
		Check: func() bool {
			return value.Before(before)
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("date must be before %s", before.Format(time.DateOnly)),
			TranslationKey: "validation.date_before",
			TranslationValues: map[string]any{
				"field":  field,
				"before": before.Format(time.DateOnly),
			},
		},
	}
}
