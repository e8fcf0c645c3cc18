package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrymomot/tournament-auth/pkg/i18n"
	"github.com/dmitrymomot/tournament-auth/pkg/validator"
)

// Status markers carried in Meta.Status.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Meta describes the response for clients and assistive tooling.
type Meta struct {
	Timestamp        time.Time `json:"timestamp"`
	Language         string    `json:"language"`
	Status           string    `json:"status"`
	ErrorDescription string    `json:"errorDescription,omitempty"`
}

// Envelope is the body shape of every JSON response.
type Envelope struct {
	Data  any    `json:"data"`
	Meta  Meta   `json:"meta"`
	Trace string `json:"trace,omitempty"`
}

// ErrorBody is the data of an error envelope.
type ErrorBody struct {
	Error   string                      `json:"error"`
	Details []validator.ValidationError `json:"details,omitempty"`
}

var now = func() time.Time { return time.Now().UTC() }

func newMeta(r *http.Request, status string) Meta {
	return Meta{
		Timestamp: now(),
		Language:  i18n.GetLocale(r.Context()),
		Status:    status,
	}
}

func writeJSON(w http.ResponseWriter, status int, body Envelope) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

type jsonResponse struct {
	status  int
	data    any
	cookies []*http.Cookie
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	for _, c := range j.cookies {
		http.SetCookie(w, c)
	}
	return writeJSON(w, j.status, Envelope{
		Data: j.data,
		Meta: newMeta(r, StatusSuccess),
	})
}

// JSONOption configures JSON response
type JSONOption func(*jsonResponse)

// WithJSONStatus sets custom HTTP status code
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// WithCookies sets cookies before the body is written.
func WithCookies(cookies ...*http.Cookie) JSONOption {
	return func(r *jsonResponse) {
		r.cookies = append(r.cookies, cookies...)
	}
}

// JSON wraps v into a success envelope, 200 OK unless overridden.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, data: v}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type errorResponse struct {
	err error
}

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error {
	return e.err
}

// Error returns a Response that hands err to the configured ErrorHandler
// instead of writing anything itself.
func Error(err error) Response {
	return errorResponse{err: err}
}
