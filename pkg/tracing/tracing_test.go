package tracing_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/dmitrymomot/tournament-auth/pkg/tracing"
)

func newRecorder() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	rec := tracetest.NewSpanRecorder()
	return rec, sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
}

func TestSetup_Disabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  tracing.Config
	}{
		{"disabled", tracing.Config{Enabled: false, Endpoint: "http://collector:4318"}},
		{"no endpoint", tracing.Config{Enabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			shutdown, err := tracing.Setup(context.Background(), tt.cfg, "development")
			require.NoError(t, err)
			require.NotNil(t, shutdown)
			assert.NoError(t, shutdown(context.Background()))
		})
	}
}

func TestEnd(t *testing.T) {
	t.Parallel()
	rec, tp := newRecorder()
	tracer := tp.Tracer("test")

	_, ok := tracer.Start(context.Background(), "ok")
	tracing.End(ok, nil)

	_, failed := tracer.Start(context.Background(), "failed")
	tracing.End(failed, errors.New("provider unreachable"))

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "provider unreachable", spans[1].Status().Description)
	require.Len(t, spans[1].Events(), 1)
	assert.Equal(t, "exception", spans[1].Events()[0].Name)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()
	rec, tp := newRecorder()

	r := chi.NewRouter()
	r.Use(tracing.Middleware(tp))
	r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "GET /auth/me", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, "GET /boom", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
