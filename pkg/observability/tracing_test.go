package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitTracingNone(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), DefaultTracingConfig())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracingUnsupported(t *testing.T) {
	cfg := DefaultTracingConfig()
	cfg.ExporterType = "zipkin"

	_, err := InitTracing(context.Background(), cfg)
	assert.Error(t, err)
}

func TestInitTracingStdout(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultTracingConfig()
	cfg.ExporterType = ExporterStdout
	cfg.Writer = &buf

	shutdown, err := InitTracing(context.Background(), cfg)
	require.NoError(t, err)

	_, span := StartSpan(context.Background(), "test.operation", attribute.String("kind", "redis"))
	EndSpan(span, nil)

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "test.operation")
}

func TestEndSpanRecordsError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))

	_, span := StartSpan(context.Background(), "failing")
	EndSpan(span, errors.New("dial tcp: refused"))

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "failing", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "dial tcp: refused", ended[0].Status().Description)
}
