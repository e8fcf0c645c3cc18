// Package i18n resolves the response language and translates message keys.
//
// Catalogs are YAML files whose single top-level key is the language code:
//
//	fr:
//	  validation:
//	    required: "Ce champ est requis"
//	    min_length: "Doit contenir au moins %{min} caractères"
//
// Keys use dot notation ("validation.required") and placeholders use the
// `%{name}` syntax. Catalogs are usually embedded and loaded once at start-up:
//
//	tr, err := i18n.NewTranslator(locales.FS, i18n.WithDefaultLanguage("fr"))
//	msg := tr.T("fr", "validation.min_length", "min", "2")
//
// # Language negotiation
//
// Matcher wraps golang.org/x/text/language to pick the best supported
// language from an Accept-Language header. Middleware stores the result in
// the request context (see GetLocale) and sets the Content-Language and
// X-Content-Type-Options headers on every response.
//
// Translator is safe for concurrent use; catalogs are read-only after load.
package i18n
