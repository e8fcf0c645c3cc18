package schema

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/tournament-auth/pkg/validator"
)

type stringKind int

const (
	kindPlain stringKind = iota
	kindEmail
	kindURI
)

// StringNode validates a non-empty string.
type StringNode struct {
	kind        stringKind
	min, max    int
	pattern     *regexp.Regexp
	patternDesc string
	enum        []string
	password    *validator.PasswordPolicy
}

func String() *StringNode { return &StringNode{} }

func Email() *StringNode { return &StringNode{kind: kindEmail} }

func URI() *StringNode { return &StringNode{kind: kindURI} }

// Enum accepts exactly one of values.
func Enum(values ...string) *StringNode { return &StringNode{enum: values} }

// Password applies the length and composition rules of policy.
func Password(policy validator.PasswordPolicy) *StringNode {
	return &StringNode{password: &policy}
}

func (s *StringNode) Min(n int) *StringNode {
	c := *s
	c.min = n
	return &c
}

func (s *StringNode) Max(n int) *StringNode {
	c := *s
	c.max = n
	return &c
}

func (s *StringNode) Len(min, max int) *StringNode {
	return s.Min(min).Max(max)
}

// Pattern requires a match of re; description names the format in messages.
func (s *StringNode) Pattern(re *regexp.Regexp, description string) *StringNode {
	c := *s
	c.pattern = re
	c.patternDesc = description
	return &c
}

func (s *StringNode) Validate(path string, raw any, _ map[string]any) (any, validator.ValidationErrors) {
	str, ok := raw.(string)
	if !ok {
		return nil, validator.ValidationErrors{
			validator.Failure(path, "must be a string", "validation.type_string"),
		}
	}

	// Present but blank strings are rejected the same way as missing required ones.
	if err := validator.Apply(validator.RequiredString(path, str)); err != nil {
		return nil, validator.ExtractValidationErrors(err)
	}

	var rules []validator.Rule
	if s.min > 0 {
		rules = append(rules, validator.MinLenString(path, str, s.min))
	}
	if s.max > 0 {
		rules = append(rules, validator.MaxLenString(path, str, s.max))
	}
	if s.pattern != nil {
		rules = append(rules, validator.MatchesRegex(path, str, s.pattern, s.patternDesc))
	}
	if len(s.enum) > 0 {
		rules = append(rules, validator.InListString(path, str, s.enum))
	}
	if s.password != nil {
		rules = append(rules, s.password.Rules(path, str)...)
	}
	switch s.kind {
	case kindEmail:
		rules = append(rules, validator.ValidEmail(path, str))
	case kindURI:
		rules = append(rules, validator.ValidURL(path, str))
	}

	if err := validator.Apply(rules...); err != nil {
		return nil, validator.ExtractValidationErrors(err)
	}
	return str, nil
}

// IntNode validates an integral number. Numeric strings are coerced.
type IntNode struct {
	min, max       int
	hasMin, hasMax bool
}

func Int() *IntNode { return &IntNode{} }

func (n *IntNode) Min(v int) *IntNode {
	c := *n
	c.min, c.hasMin = v, true
	return &c
}

func (n *IntNode) Max(v int) *IntNode {
	c := *n
	c.max, c.hasMax = v, true
	return &c
}

func (n *IntNode) Validate(path string, raw any, _ map[string]any) (any, validator.ValidationErrors) {
	v, ok := toInt(raw)
	if !ok {
		return nil, validator.ValidationErrors{
			validator.Failure(path, "must be an integer", "validation.type_integer"),
		}
	}

	var rules []validator.Rule
	if n.hasMin {
		rules = append(rules, validator.MinNum(path, v, n.min))
	}
	if n.hasMax {
		rules = append(rules, validator.MaxNum(path, v, n.max))
	}
	if err := validator.Apply(rules...); err != nil {
		return nil, validator.ExtractValidationErrors(err)
	}
	return v, nil
}

func toInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || v > math.MaxInt32 || v < math.MinInt32 {
			return 0, false
		}
		return int(v), true
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			f, ferr := v.Float64()
			if ferr != nil {
				return 0, false
			}
			return toInt(f)
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		return i, err == nil
	}
	return 0, false
}

// DateNode validates an ISO 8601 date (YYYY-MM-DD) or timestamp (RFC 3339).
type DateNode struct {
	notAfter func() time.Time
}

func Date() *DateNode { return &DateNode{} }

// NotAfter rejects dates later than the instant returned by limit at validation time.
func (d *DateNode) NotAfter(limit func() time.Time) *DateNode {
	c := *d
	c.notAfter = limit
	return &c
}

// NotInFuture is NotAfter(time.Now).
func (d *DateNode) NotInFuture() *DateNode {
	return d.NotAfter(time.Now)
}

func (d *DateNode) Validate(path string, raw any, _ map[string]any) (any, validator.ValidationErrors) {
	str, ok := raw.(string)
	if !ok {
		return nil, validator.ValidationErrors{
			validator.Failure(path, "must be a date in ISO 8601 format", "validation.type_date"),
		}
	}

	t, ok := parseISODate(strings.TrimSpace(str))
	if !ok {
		return nil, validator.ValidationErrors{
			validator.Failure(path, "must be a date in ISO 8601 format", "validation.type_date"),
		}
	}

	if d.notAfter != nil {
		if err := validator.Apply(validator.NotAfter(path, t, d.notAfter())); err != nil {
			return nil, validator.ExtractValidationErrors(err)
		}
	}
	return t, nil
}

func parseISODate(s string) (time.Time, bool) {
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
