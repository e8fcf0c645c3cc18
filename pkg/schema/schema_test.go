package schema_test

import (
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tournament-auth/pkg/schema"
	"github.com/dmitrymomot/tournament-auth/pkg/validator"
)

var phoneRe = regexp.MustCompile(`^[0-9+\-\s()]{8,20}$`)

func testEngine() *schema.Engine {
	base := schema.Object(
		schema.Required("name", schema.String().Len(2, 50)),
	)
	shop := base.Extend(
		schema.Required("phone", schema.String().Pattern(phoneRe, "phone")),
		schema.Optional("site", schema.URI()),
	)
	person := base.Extend(
		schema.Required("born", schema.Date().NotAfter(func() time.Time {
			return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		})),
		schema.Optional("height", schema.Int().Min(100).Max(250)),
	)

	return schema.NewEngine(map[string]*schema.ObjectNode{
		"account": schema.Object(
			schema.Required("email", schema.Email()),
			schema.Required("kind", schema.Enum("shop", "person", "guest")),
			schema.Required("details", schema.Switch("kind", base, map[string]schema.Node{
				"shop":   shop,
				"person": person,
			})),
		),
	})
}

func decode(t *testing.T, body string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	return m
}

func TestEngine_Validate(t *testing.T) {
	t.Parallel()

	t.Run("unknown schema", func(t *testing.T) {
		t.Parallel()
		_, err := testEngine().Validate("nope", map[string]any{})
		assert.ErrorIs(t, err, schema.ErrUnknownSchema)
	})

	t.Run("valid payload is normalized", func(t *testing.T) {
		t.Parallel()
		v, err := testEngine().Validate("account", decode(t, `{
			"email": "a@b.co",
			"kind": "person",
			"details": {"name": "Jo", "born": "2000-01-31", "height": "180"}
		}`))
		require.NoError(t, err)

		details := v.Object("details")
		require.NotNil(t, details)
		h, ok := details.Int("height")
		assert.True(t, ok)
		assert.Equal(t, 180, h)
		born, ok := details.Time("born")
		assert.True(t, ok)
		assert.Equal(t, 2000, born.Year())
		assert.Equal(t, "2000-01-31", v.Map()["details"].(map[string]any)["born"])
	})

	t.Run("reports every independent failure", func(t *testing.T) {
		t.Parallel()
		_, err := testEngine().Validate("account", decode(t, `{
			"email": "nope",
			"kind": "shop",
			"details": {"name": "J"}
		}`))
		verrs := validator.ExtractValidationErrors(err)
		require.NotNil(t, verrs)

		assert.ElementsMatch(t, []string{"email", "details.name", "details.phone"}, verrs.Fields())
		assert.Equal(t, []string{"validation.required"}, verrs.Keys("details.phone"))
	})

	t.Run("switch makes fields required per tag", func(t *testing.T) {
		t.Parallel()
		_, err := testEngine().Validate("account", decode(t, `{
			"email": "a@b.co",
			"kind": "person",
			"details": {"name": "Jo"}
		}`))
		verrs := validator.ExtractValidationErrors(err)
		require.NotNil(t, verrs)
		assert.Equal(t, []string{"details.born"}, verrs.Fields())
	})

	t.Run("switch falls back to base shape", func(t *testing.T) {
		t.Parallel()
		_, err := testEngine().Validate("account", decode(t, `{
			"email": "a@b.co",
			"kind": "guest",
			"details": {"name": "Jo"}
		}`))
		assert.NoError(t, err)
	})

	t.Run("invalid tag reports tag and validates base shape", func(t *testing.T) {
		t.Parallel()
		_, err := testEngine().Validate("account", decode(t, `{
			"email": "a@b.co",
			"kind": "alien",
			"details": {"name": "Jo", "phone": "0102030405"}
		}`))
		verrs := validator.ExtractValidationErrors(err)
		require.NotNil(t, verrs)
		assert.Equal(t, []string{"validation.in_list"}, verrs.Keys("kind"))
		assert.Equal(t, []string{"validation.unknown_field"}, verrs.Keys("details.phone"))
	})

	t.Run("future date rejected", func(t *testing.T) {
		t.Parallel()
		_, err := testEngine().Validate("account", decode(t, `{
			"email": "a@b.co",
			"kind": "person",
			"details": {"name": "Jo", "born": "2030-01-01"}
		}`))
		verrs := validator.ExtractValidationErrors(err)
		require.NotNil(t, verrs)
		assert.Equal(t, []string{"validation.date_not_future"}, verrs.Keys("details.born"))
	})

	t.Run("type mismatch stops field checks", func(t *testing.T) {
		t.Parallel()
		_, err := testEngine().Validate("account", decode(t, `{
			"email": 42,
			"kind": "person",
			"details": {"name": "Jo", "born": "yesterday", "height": 12.5}
		}`))
		verrs := validator.ExtractValidationErrors(err)
		require.NotNil(t, verrs)
		assert.Equal(t, []string{"validation.type_string"}, verrs.Keys("email"))
		assert.Equal(t, []string{"validation.type_date"}, verrs.Keys("details.born"))
		assert.Equal(t, []string{"validation.type_integer"}, verrs.Keys("details.height"))
	})

	t.Run("nested object type mismatch", func(t *testing.T) {
		t.Parallel()
		_, err := testEngine().Validate("account", decode(t, `{
			"email": "a@b.co",
			"kind": "guest",
			"details": "x"
		}`))
		verrs := validator.ExtractValidationErrors(err)
		require.NotNil(t, verrs)
		assert.Equal(t, []string{"validation.type_object"}, verrs.Keys("details"))
	})

	t.Run("nil payload reports required fields", func(t *testing.T) {
		t.Parallel()
		_, err := testEngine().Validate("account", nil)
		verrs := validator.ExtractValidationErrors(err)
		require.NotNil(t, verrs)
		assert.Equal(t, []string{"email", "kind", "details"}, verrs.Fields())
	})
}

func TestStringNode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		node schema.Node
		raw  any
		keys []string
	}{
		{"blank string", schema.String(), "  ", []string{"validation.required"}},
		{"length bounds", schema.String().Len(2, 3), "abcd", []string{"validation.max_length"}},
		{"enum", schema.Enum("a", "b"), "c", []string{"validation.in_list"}},
		{"uri", schema.URI(), "not a uri", []string{"validation.url"}},
		{"pattern", schema.String().Pattern(phoneRe, "phone"), "abc", []string{"validation.regex_pattern"}},
		{"password weak", schema.Password(validator.DefaultPasswordPolicy), "password", []string{"validation.password_pattern"}},
		{"password ok", schema.Password(validator.DefaultPasswordPolicy), "Password123!", nil},
		{"not a string", schema.String(), true, []string{"validation.type_string"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, errs := tt.node.Validate("f", tt.raw, nil)
			if tt.keys == nil {
				assert.Empty(t, errs)
				return
			}
			assert.Equal(t, tt.keys, errs.Keys("f"))
		})
	}
}

func TestIntNode_Coercion(t *testing.T) {
	t.Parallel()

	node := schema.Int().Min(1).Max(10)
	for _, raw := range []any{5, float64(5), json.Number("5"), "5"} {
		v, errs := node.Validate("n", raw, nil)
		assert.Empty(t, errs)
		assert.Equal(t, 5, v)
	}

	_, errs := node.Validate("n", float64(11), nil)
	assert.Equal(t, []string{"validation.max"}, errs.Keys("n"))
}

func TestObjectNode_Extend(t *testing.T) {
	t.Parallel()

	base := schema.Object(schema.Required("a", schema.String()), schema.Required("b", schema.String()))
	ext := base.Extend(schema.Optional("b", schema.String()), schema.Optional("c", schema.String()))

	assert.Equal(t, []string{"a", "b"}, base.Fields())
	assert.Equal(t, []string{"a", "b", "c"}, ext.Fields())

	_, errs := ext.Validate("", map[string]any{"a": "x"}, nil)
	assert.Empty(t, errs)

	_, errs = ext.AllowUnknown().Validate("", map[string]any{"a": "x", "z": 1}, nil)
	assert.Empty(t, errs)
}
