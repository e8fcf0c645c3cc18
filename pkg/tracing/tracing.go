// Package tracing wires OpenTelemetry tracing for the gateway.
//
// Tracing is opt-in: Setup installs an OTLP/HTTP exporter and a global tracer
// provider only when OTEL_ENABLED is true and an endpoint is configured.
// Otherwise the global no-op provider stays in place and spans cost nothing.
package tracing

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// ErrExporter wraps failures to build the OTLP exporter or resource.
var ErrExporter = errors.New("tracing: failed to initialise exporter")

// Config selects the exporter target and sampling.
type Config struct {
	Enabled        bool    `env:"OTEL_ENABLED" envDefault:"false"`
	Endpoint       string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" validate:"required_if=Enabled true,omitempty,url"`
	ServiceName    string  `env:"OTEL_SERVICE_NAME" envDefault:"tournament-auth"`
	ServiceVersion string  `env:"OTEL_SERVICE_VERSION" envDefault:"1.0.0"`
	SampleRate     float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1" validate:"gte=0,lte=1"`
}

// ShutdownFunc flushes pending spans.
type ShutdownFunc func(context.Context) error

func noop(context.Context) error { return nil }

// Setup installs the global tracer provider and W3C trace-context propagator.
// The returned function must be called on exit to flush spans.
func Setup(ctx context.Context, cfg Config, environment string) (ShutdownFunc, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.Endpoint))
	if err != nil {
		return noop, errors.Join(ErrExporter, err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(environment),
		),
	)
	if err != nil {
		return noop, errors.Join(ErrExporter, fmt.Errorf("resource: %w", err))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
	}
}

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// End records err on span, if any, and ends it. Meant for defer:
//
//	ctx, span := tracer.Start(ctx, "identity.SignUp")
//	defer func() { tracing.End(span, err) }()
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
