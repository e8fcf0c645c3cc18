package validator

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// PasswordPolicy describes the composition rules for account passwords.
type PasswordPolicy struct {
	MinLength int
	MaxLength int
	// Symbols is the closed set of accepted special characters.
	Symbols string
}

// DefaultPasswordPolicy requires 8 to 100 characters drawn from letters,
// digits and @$!%*?&, with at least one of each class.
var DefaultPasswordPolicy = PasswordPolicy{
	MinLength: 8,
	MaxLength: 100,
	Symbols:   "@$!%*?&",
}

var (
	uppercaseRegex = regexp.MustCompile(`[A-Z]`)
	lowercaseRegex = regexp.MustCompile(`[a-z]`)
	digitRegex     = regexp.MustCompile(`[0-9]`)
)

// PasswordPattern validates the character composition of a password.
// Length is checked separately with MinLenString and MaxLenString.
func PasswordPattern(field, value string, policy PasswordPolicy) Rule {
	return Rule{
		Check: func() bool {
			return policy.composed(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must contain an uppercase letter, a lowercase letter, a digit and a special character",
			TranslationKey: "validation.password_pattern",
			TranslationValues: map[string]any{
				"field":   field,
				"symbols": policy.Symbols,
			},
		},
	}
}

// Rules returns the full rule set for value under this policy.
func (p PasswordPolicy) Rules(field, value string) []Rule {
	return []Rule{
		MinLenString(field, value, p.MinLength),
		MaxLenString(field, value, p.MaxLength),
		PasswordPattern(field, value, p),
	}
}

func (p PasswordPolicy) composed(value string) bool {
	if !utf8.ValidString(value) {
		return false
	}
	hasSymbol := false
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune(p.Symbols, r):
			hasSymbol = true
		default:
			return false
		}
	}
	return hasSymbol &&
		uppercaseRegex.MatchString(value) &&
		lowercaseRegex.MatchString(value) &&
		digitRegex.MatchString(value)
}
