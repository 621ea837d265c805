// Package observability sets up OpenTelemetry tracing for vents and offers
// the span helpers provider sessions use.
package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName names the tracer vents spans are created with
const InstrumentationName = "github.com/ajitpratap0/vents"

// Exporter types
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

// TracingConfig contains tracing configuration
type TracingConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	SamplingRate   float64
	ExporterType   string    // "stdout" or "none"
	Writer         io.Writer // stdout exporter destination, os.Stderr when nil
	BatchTimeout   time.Duration
}

// DefaultTracingConfig returns a config that exports nothing
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName:  "vents",
		Environment:  "development",
		SamplingRate: 1.0,
		ExporterType: ExporterNone,
		BatchTimeout: 5 * time.Second,
	}
}

// InitTracing installs a global tracer provider. The returned function
// flushes and shuts it down. With ExporterNone tracing stays a no-op.
func InitTracing(ctx context.Context, config TracingConfig) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if config.ExporterType == "" || config.ExporterType == ExporterNone {
		return noop, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(config.Environment),
		),
	)
	if err != nil {
		return noop, fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdktrace.SpanExporter
	switch config.ExporterType {
	case ExporterStdout:
		w := config.Writer
		if w == nil {
			w = os.Stderr
		}
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return noop, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
	default:
		return noop, fmt.Errorf("unsupported trace exporter %q", config.ExporterType)
	}

	var sampler sdktrace.Sampler
	switch {
	case config.SamplingRate <= 0:
		sampler = sdktrace.NeverSample()
	case config.SamplingRate >= 1.0:
		sampler = sdktrace.AlwaysSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(config.SamplingRate)
	}

	batchTimeout := config.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 5 * time.Second
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(batchTimeout)),
	)
	SetTracerProvider(tp)

	return tp.Shutdown, nil
}

// SetTracerProvider installs tp as the global tracer provider
func SetTracerProvider(tp *sdktrace.TracerProvider) {
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}

// Tracer returns the vents tracer from the global provider
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// StartSpan starts a span named operation with the given attributes
func StartSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, operation, trace.WithAttributes(attrs...))
}

// EndSpan records err on span, if any, and ends it
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
