package clients

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/vents/pkg/errors"
)

// CircuitBreakerConfig is the configuration for circuit breaker
type CircuitBreakerConfig struct {
	FailureThreshold int           // Number of consecutive failures before opening
	SuccessThreshold int           // Number of half-open successes before closing
	Timeout          time.Duration // Time spent open before probing again
}

// CircuitState represents the state of a circuit breaker
type CircuitState int32

const (
	// StateClosed allows all requests to pass through
	StateClosed CircuitState = iota
	// StateOpen blocks all requests
	StateOpen
	// StateHalfOpen allows a limited number of probe requests
	StateHalfOpen
)

// String returns the state name
func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// halfOpenLimit bounds concurrent probes while half-open
const halfOpenLimit = 3

// HTTPCircuitBreaker stops calling an endpoint that keeps failing, then lets a
// few probe requests through once Timeout has passed.
type HTTPCircuitBreaker struct {
	config CircuitBreakerConfig
	logger *zap.Logger
	now    func() time.Time

	mu                   sync.Mutex
	state                CircuitState
	consecutiveFailures  int
	consecutiveSuccesses int
	halfOpenInFlight     int
	nextRetryTime        time.Time
}

// NewHTTPCircuitBreaker creates a circuit breaker in the closed state.
// Non-positive thresholds default to 1.
func NewHTTPCircuitBreaker(config CircuitBreakerConfig, logger *zap.Logger) *HTTPCircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 1
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPCircuitBreaker{
		config: config,
		logger: logger.With(zap.String("component", "circuit_breaker")),
		now:    time.Now,
		state:  StateClosed,
	}
}

// Execute runs fn if the circuit allows it and records the result
func (cb *HTTPCircuitBreaker) Execute(fn func() error) error {
	if !cb.Allow() {
		return errors.New(errors.ErrorTypeConnection, "circuit breaker is open")
	}
	if err := fn(); err != nil {
		cb.RecordFailure()
		return err
	}
	cb.RecordSuccess()
	return nil
}

// Allow reports whether a request may proceed
func (cb *HTTPCircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if cb.now().Before(cb.nextRetryTime) {
			return false
		}
		cb.state = StateHalfOpen
		cb.consecutiveSuccesses = 0
		cb.halfOpenInFlight = 0
		cb.logger.Info("circuit breaker half-open")
		fallthrough
	case StateHalfOpen:
		if cb.halfOpenInFlight >= halfOpenLimit {
			return false
		}
		cb.halfOpenInFlight++
		return true
	default:
		return false
	}
}

// RecordSuccess records a successful request
func (cb *HTTPCircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.consecutiveFailures = 0
	case StateHalfOpen:
		cb.consecutiveSuccesses++
		if cb.halfOpenInFlight > 0 {
			cb.halfOpenInFlight--
		}
		if cb.consecutiveSuccesses >= cb.config.SuccessThreshold {
			cb.state = StateClosed
			cb.consecutiveFailures = 0
			cb.logger.Info("circuit breaker closed")
		}
	}
}

// RecordFailure records a failed request. Any failure while half-open
// reopens the circuit.
func (cb *HTTPCircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.consecutiveFailures++
		if cb.consecutiveFailures >= cb.config.FailureThreshold {
			cb.open()
		}
	case StateHalfOpen:
		cb.open()
	}
}

func (cb *HTTPCircuitBreaker) open() {
	cb.state = StateOpen
	cb.nextRetryTime = cb.now().Add(cb.config.Timeout)
	cb.consecutiveSuccesses = 0
	cb.halfOpenInFlight = 0
	cb.logger.Warn("circuit breaker opened",
		zap.Time("retry_after", cb.nextRetryTime),
		zap.Int("consecutive_failures", cb.consecutiveFailures))
}

// State returns the current state
func (cb *HTTPCircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
