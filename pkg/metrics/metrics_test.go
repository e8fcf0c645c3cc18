package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tournament-auth/pkg/metrics"
)

func TestNew(t *testing.T) {
	t.Parallel()

	m, err := metrics.New(nil)
	require.NoError(t, err)
	assert.NotNil(t, m.Registry())

	reg := prometheus.NewRegistry()
	_, err = metrics.New(reg)
	require.NoError(t, err)

	_, err = metrics.New(reg)
	require.Error(t, err, "registering the same collectors twice must fail")
}

func TestMiddleware_RouteLabels(t *testing.T) {
	t.Parallel()

	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/auth/me", "/users/1", "/users/2", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	expected := `
# HELP http_requests_total Total HTTP requests processed.
# TYPE http_requests_total counter
http_requests_total{method="GET",route="/auth/me",status="401"} 1
http_requests_total{method="GET",route="/users/{id}",status="200"} 2
http_requests_total{method="GET",route="unmatched",status="404"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "http_requests_total"))
}

func TestRecorders(t *testing.T) {
	t.Parallel()

	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordRejection("token_missing")
	m.RecordRejection("token_missing")
	m.RecordRejection("role_mismatch")
	m.RecordRateLimited("login")

	expected := `
# HELP auth_pipeline_rejections_total Requests rejected by the authorization pipeline, by reason.
# TYPE auth_pipeline_rejections_total counter
auth_pipeline_rejections_total{reason="role_mismatch"} 1
auth_pipeline_rejections_total{reason="token_missing"} 2
# HELP rate_limit_rejections_total Requests rejected by a rate limiter, by limiter scope.
# TYPE rate_limit_rejections_total counter
rate_limit_rejections_total{scope="login"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"auth_pipeline_rejections_total", "rate_limit_rejections_total"))
}

func TestHandler(t *testing.T) {
	t.Parallel()

	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	m.RecordRejection("token_invalid")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `auth_pipeline_rejections_total{reason="token_invalid"} 1`)
}
