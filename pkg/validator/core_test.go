package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tournament-auth/pkg/validator"
)

func TestValidationErrors_Error(t *testing.T) {
	t.Parallel()

	t.Run("returns default message when no errors", func(t *testing.T) {
		t.Parallel()
		var errs validator.ValidationErrors
		assert.Equal(t, "validation failed", errs.Error())
	})

	t.Run("returns formatted message with multiple errors", func(t *testing.T) {
		t.Parallel()
		var errs validator.ValidationErrors
		errs.Add(validator.ValidationError{Field: "email", Message: "is required"})
		errs.Add(validator.ValidationError{Field: "password", Message: "too short"})

		assert.Equal(t, "validation failed: email: is required; password: too short", errs.Error())
	})
}

func TestValidationErrors_Accessors(t *testing.T) {
	t.Parallel()

	var errs validator.ValidationErrors
	errs.Add(validator.ValidationError{Field: "password", Message: "too short", TranslationKey: "validation.min_length"})
	errs.Add(validator.ValidationError{Field: "password", Message: "bad pattern", TranslationKey: "validation.password_pattern"})
	errs.Add(validator.ValidationError{Field: "email", Message: "is required", TranslationKey: "validation.required"})

	assert.True(t, errs.Has("password"))
	assert.False(t, errs.Has("role"))
	assert.Equal(t, []string{"too short", "bad pattern"}, errs.Get("password"))
	assert.Equal(t, []string{"validation.min_length", "validation.password_pattern"}, errs.Keys("password"))
	assert.Equal(t, []string{"password", "email"}, errs.Fields())
	assert.False(t, errs.IsEmpty())
}

func TestValidationErrors_Merge(t *testing.T) {
	t.Parallel()

	t.Run("appends validation errors", func(t *testing.T) {
		t.Parallel()
		var errs validator.ValidationErrors
		errs.Merge(validator.Apply(validator.RequiredString("email", "")))
		errs.Merge(validator.Apply(validator.RequiredString("password", "")))

		assert.Equal(t, []string{"email", "password"}, errs.Fields())
	})

	t.Run("ignores nil and foreign errors", func(t *testing.T) {
		t.Parallel()
		var errs validator.ValidationErrors
		errs.Merge(nil)
		errs.Merge(errors.New("boom"))

		assert.True(t, errs.IsEmpty())
		assert.NoError(t, errs.Err())
	})
}

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("returns nil when all rules pass", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.RequiredString("name", "Jane"),
			validator.MinLenString("name", "Jane", 2),
		)
		assert.NoError(t, err)
	})

	t.Run("aggregates every failing rule", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.RequiredString("name", ""),
			validator.MinLenString("name", "", 2),
			validator.MaxLenString("other", "ok", 10),
		)
		require.Error(t, err)

		verrs := validator.ExtractValidationErrors(err)
		require.Len(t, verrs, 2)
		assert.Equal(t, []string{"validation.required", "validation.min_length"}, verrs.Keys("name"))
	})
}

func TestExtractValidationErrors(t *testing.T) {
	t.Parallel()

	assert.Nil(t, validator.ExtractValidationErrors(nil))
	assert.Nil(t, validator.ExtractValidationErrors(errors.New("plain")))

	wrapped := fmt.Errorf("register: %w", validator.Apply(validator.RequiredString("email", "")))
	verrs := validator.ExtractValidationErrors(wrapped)
	require.Len(t, verrs, 1)
	assert.Equal(t, "email", verrs[0].Field)

	assert.True(t, validator.IsValidationError(wrapped))
	assert.False(t, validator.IsValidationError(errors.New("plain")))
	assert.False(t, validator.IsValidationError(nil))
}

func TestFailure(t *testing.T) {
	t.Parallel()

	e := validator.Failure("profileData.heightCm", "must be a number", "validation.type_number")
	assert.Equal(t, "profileData.heightCm", e.Field)
	assert.Equal(t, "validation.type_number", e.TranslationKey)
	assert.Equal(t, "profileData.heightCm", e.TranslationValues["field"])
}
