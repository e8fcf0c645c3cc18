package handler

import (
	"net/http"
	"runtime/debug"
)

// Recoverer turns panics in downstream handlers into 500 error envelopes.
// http.ErrAbortHandler is re-panicked so the server can abort the connection.
func Recoverer(ew *ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				ew.Write(w, r, &PanicError{Value: rec, Stack: debug.Stack()})
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// NotFound writes the 404 envelope for unmatched routes.
func NotFound(ew *ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ew.Write(w, r, ErrRouteNotFound)
	}
}

// MethodNotAllowed writes the 405 envelope for known paths with the wrong verb.
func MethodNotAllowed(ew *ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ew.Write(w, r, ErrMethodNotAllowed)
	}
}
