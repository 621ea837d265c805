package providers

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
	"github.com/ajitpratap0/vents/pkg/logger"
	"github.com/ajitpratap0/vents/pkg/metrics"
	"github.com/ajitpratap0/vents/pkg/observability"
)

// BuildFunc constructs a provider's native client
type BuildFunc[T any] func(ctx context.Context) (T, error)

// Session lazily builds and caches one native client. Concurrent first
// callers share a single build; a failed build is not cached, so the next
// call builds again. The zero value is ready to use.
type Session[T any] struct {
	Kind connections.Kind

	mu    sync.Mutex
	value T
	built bool
}

// NewSession returns a session for the given kind
func NewSession[T any](kind connections.Kind) *Session[T] {
	return &Session[T]{Kind: kind}
}

// GetOrCreate returns the cached client or builds it with build
func (s *Session[T]) GetOrCreate(ctx context.Context, build BuildFunc[T]) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.built {
		return s.value, nil
	}

	kind := string(s.Kind)
	ctx = context.WithValue(ctx, logger.KindKey, kind)
	ctx, span := observability.StartSpan(ctx, "providers.session.build",
		attribute.String("vents.kind", kind))
	timer := metrics.NewTimer(kind)

	value, err := build(ctx)
	metrics.ObserveSession(kind, timer.Stop(), err)
	observability.EndSpan(span, err)

	if err != nil {
		logger.WithContext(ctx).Warn("failed to build session", zap.Error(err))
		var zero T
		if errors.IsType(err, errors.ErrorTypeConnection) {
			return zero, err
		}
		return zero, errors.Wrap(err, errors.ErrorTypeConnection, "failed to build session").
			WithDetail("kind", kind)
	}

	logger.WithContext(ctx).Debug("session built")
	s.value = value
	s.built = true
	return value, nil
}

// Get returns the cached client without building
func (s *Session[T]) Get() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.built
}

// Reset drops the cached client and returns it so the caller can release it
func (s *Session[T]) Reset() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, built := s.value, s.built
	var zero T
	s.value = zero
	s.built = false
	return value, built
}

// CloseWith resets the session and releases the cached client with release
func (s *Session[T]) CloseWith(release func(T) error) error {
	value, built := s.Reset()
	if !built || release == nil {
		return nil
	}
	return release(value)
}
