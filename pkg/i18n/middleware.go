package i18n

import (
	"net/http"
)

// Middleware resolves the response language from Accept-Language, stores it in
// the request context and announces it through Content-Language. It also sets
// X-Content-Type-Options so assistive tools never sniff a different type.
func Middleware(m *Matcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := m.Match(r.Header.Get("Accept-Language"))

			w.Header().Set("Content-Language", lang)
			w.Header().Set("X-Content-Type-Options", "nosniff")

			next.ServeHTTP(w, r.WithContext(SetLocale(r.Context(), lang)))
		})
	}
}
