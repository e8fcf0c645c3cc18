package i18n

import (
	"context"
)

type localeContextKey struct{}

// SetLocale sets the locale in the context.
func SetLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeContextKey{}, locale)
}

// GetLocale returns the locale from the context, or DefaultLanguage.
func GetLocale(ctx context.Context) string {
	return localeOrDefault(ctx, DefaultLanguage)
}

func localeOrDefault(ctx context.Context, fallback string) string {
	if ctx == nil {
		return fallback
	}
	if locale, _ := ctx.Value(localeContextKey{}).(string); locale != "" {
		return locale
	}
	return fallback
}
