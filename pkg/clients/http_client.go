// Package clients provides the HTTP client used as the session of HTTP-style
// providers: webhooks, chat APIs and LLM REST endpoints.
package clients

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/http2"

	"github.com/ajitpratap0/vents/pkg/errors"
)

// RequestIDHeader carries a per-request UUID on every outgoing request
const RequestIDHeader = "X-Request-ID"

// HTTPClient is an HTTP client bound to one integration: a base URL, default
// headers and credentials, behind a circuit breaker.
type HTTPClient struct {
	config     *HTTPConfig
	logger     *zap.Logger
	httpClient *http.Client
	transport  *http.Transport
	baseURL    *url.URL

	totalRequests  int64
	failedRequests int64

	circuitBreaker *HTTPCircuitBreaker
}

// HTTPConfig configures the HTTP client
type HTTPConfig struct {
	// Endpoint settings
	BaseURL   string            `json:"base_url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	UserAgent string            `json:"user_agent"`

	// Credentials. BearerToken is sent as "Authorization: Bearer <token>";
	// APIKeyHeader names a header that carries APIKey instead.
	BearerToken  string `json:"-"`
	APIKeyHeader string `json:"api_key_header"`
	APIKey       string `json:"-"`

	// Connection settings
	MaxIdleConns        int           `json:"max_idle_conns"`
	MaxIdleConnsPerHost int           `json:"max_idle_conns_per_host"`
	IdleConnTimeout     time.Duration `json:"idle_conn_timeout"`
	EnableHTTP2         bool          `json:"enable_http2"`

	// Timeouts
	DialTimeout           time.Duration `json:"dial_timeout"`
	TLSHandshakeTimeout   time.Duration `json:"tls_handshake_timeout"`
	ResponseHeaderTimeout time.Duration `json:"response_header_timeout"`
	RequestTimeout        time.Duration `json:"request_timeout"`
	KeepAlive             time.Duration `json:"keep_alive"`

	// TLS settings
	InsecureSkipVerify bool   `json:"insecure_skip_verify"`
	TLSMinVersion      uint16 `json:"tls_min_version"`

	// Circuit breaker
	CircuitBreakerEnabled bool          `json:"circuit_breaker_enabled"`
	FailureThreshold      int           `json:"failure_threshold"`
	SuccessThreshold      int           `json:"success_threshold"`
	Timeout               time.Duration `json:"timeout"`
}

// DefaultHTTPConfig returns the default configuration
func DefaultHTTPConfig() *HTTPConfig {
	return &HTTPConfig{
		Method:                http.MethodPost,
		Headers:               map[string]string{},
		UserAgent:             "vents/1.0",
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		EnableHTTP2:           true,
		DialTimeout:           30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		RequestTimeout:        60 * time.Second,
		KeepAlive:             30 * time.Second,
		TLSMinVersion:         tls.VersionTLS12,
		CircuitBreakerEnabled: true,
		FailureThreshold:      5,
		SuccessThreshold:      2,
		Timeout:               30 * time.Second,
	}
}

// NewHTTPClient creates a new HTTP client. A malformed BaseURL is an error.
func NewHTTPClient(config *HTTPConfig, logger *zap.Logger) (*HTTPClient, error) {
	if config == nil {
		config = DefaultHTTPConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := &HTTPClient{
		config: config,
		logger: logger.With(zap.String("component", "http_client")),
	}

	if config.BaseURL != "" {
		u, err := url.Parse(config.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, errors.New(errors.ErrorTypeValidation, "invalid base URL").
				WithDetail("base_url", redactURL(config.BaseURL))
		}
		client.baseURL = u
	}

	client.transport = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: config.KeepAlive,
		}).DialContext,
		MaxIdleConns:          config.MaxIdleConns,
		MaxIdleConnsPerHost:   config.MaxIdleConnsPerHost,
		IdleConnTimeout:       config.IdleConnTimeout,
		TLSHandshakeTimeout:   config.TLSHandshakeTimeout,
		ResponseHeaderTimeout: config.ResponseHeaderTimeout,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: config.InsecureSkipVerify, //nolint:gosec // G402: opt-in per connection
			MinVersion:         config.TLSMinVersion,
		},
	}

	if config.EnableHTTP2 {
		if err := http2.ConfigureTransport(client.transport); err != nil {
			client.logger.Warn("failed to configure HTTP/2", zap.Error(err))
		}
	}

	client.httpClient = &http.Client{
		Transport: client.transport,
		Timeout:   config.RequestTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}

	if config.CircuitBreakerEnabled {
		client.circuitBreaker = NewHTTPCircuitBreaker(CircuitBreakerConfig{
			FailureThreshold: config.FailureThreshold,
			SuccessThreshold: config.SuccessThreshold,
			Timeout:          config.Timeout,
		}, client.logger)
	}

	return client, nil
}

// Config returns the client configuration
func (c *HTTPClient) Config() *HTTPConfig {
	return c.config
}

// BaseURL returns the configured base URL, or ""
func (c *HTTPClient) BaseURL() string {
	if c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// StandardClient returns the underlying *http.Client. Requests sent through
// it skip the default headers and the circuit breaker.
func (c *HTTPClient) StandardClient() *http.Client {
	return c.httpClient
}

// Get performs an HTTP GET request
func (c *HTTPClient) Get(ctx context.Context, path string, headers map[string]string) (*http.Response, error) {
	req, err := c.NewRequest(ctx, http.MethodGet, path, nil, headers)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Post performs an HTTP POST request
func (c *HTTPClient) Post(ctx context.Context, path string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := c.NewRequest(ctx, http.MethodPost, path, body, headers)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Send posts payload to the base URL with the configured method, the way a
// webhook is called.
func (c *HTTPClient) Send(ctx context.Context, payload []byte, headers map[string]string) (*http.Response, error) {
	method := c.config.Method
	if method == "" {
		method = http.MethodPost
	}
	req, err := c.NewRequest(ctx, strings.ToUpper(method), "", bytes.NewReader(payload), headers)
	if err != nil {
		return nil, err
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.Do(req)
}

// Do performs an HTTP request through the circuit breaker
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	if c.circuitBreaker != nil && !c.circuitBreaker.Allow() {
		atomic.AddInt64(&c.failedRequests, 1)
		return nil, errors.New(errors.ErrorTypeConnection, "circuit breaker open").
			WithDetail("host", req.URL.Host)
	}

	atomic.AddInt64(&c.totalRequests, 1)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		atomic.AddInt64(&c.failedRequests, 1)
		if c.circuitBreaker != nil {
			c.circuitBreaker.RecordFailure()
		}
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "request failed").
			WithDetail("host", req.URL.Host)
	}

	if c.circuitBreaker != nil {
		if resp.StatusCode >= http.StatusInternalServerError {
			c.circuitBreaker.RecordFailure()
		} else {
			c.circuitBreaker.RecordSuccess()
		}
	}

	c.logger.Debug("request completed",
		zap.String("method", req.Method),
		zap.String("host", req.URL.Host),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	return resp, nil
}

// NewRequest builds a request against the base URL. path may be absolute, in
// which case the base URL is ignored, or relative to the base URL.
func (c *HTTPClient) NewRequest(ctx context.Context, method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	target, err := c.resolve(path)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "failed to build request")
	}

	for key, value := range c.config.Headers {
		req.Header.Set(key, value)
	}
	if c.config.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.BearerToken)
	}
	if c.config.APIKeyHeader != "" && c.config.APIKey != "" {
		req.Header.Set(c.config.APIKeyHeader, c.config.APIKey)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	if req.Header.Get("User-Agent") == "" && c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}

	return req, nil
}

func (c *HTTPClient) resolve(path string) (string, error) {
	if path != "" {
		u, err := url.Parse(path)
		if err != nil {
			return "", errors.Wrap(err, errors.ErrorTypeValidation, "invalid request path")
		}
		if u.IsAbs() {
			return u.String(), nil
		}
	}
	if c.baseURL == nil {
		return "", errors.New(errors.ErrorTypeValidation, "no base URL configured for relative request").
			WithDetail("path", path)
	}
	if path == "" {
		return c.baseURL.String(), nil
	}
	return strings.TrimRight(c.baseURL.String(), "/") + "/" + strings.TrimLeft(path, "/"), nil
}

// GetStats returns current client statistics
func (c *HTTPClient) GetStats() HTTPStats {
	totalRequests := atomic.LoadInt64(&c.totalRequests)
	failedRequests := atomic.LoadInt64(&c.failedRequests)

	stats := HTTPStats{
		TotalRequests:  totalRequests,
		FailedRequests: failedRequests,
	}
	if totalRequests > 0 {
		stats.SuccessRate = float64(totalRequests-failedRequests) / float64(totalRequests) * 100
	}
	if c.circuitBreaker != nil {
		stats.CircuitState = c.circuitBreaker.State().String()
	}
	return stats
}

// Close releases idle connections
func (c *HTTPClient) Close() error {
	c.transport.CloseIdleConnections()
	return nil
}

// HTTPStats represents HTTP client statistics
type HTTPStats struct {
	TotalRequests  int64   `json:"total_requests"`
	FailedRequests int64   `json:"failed_requests"`
	SuccessRate    float64 `json:"success_rate"`
	CircuitState   string  `json:"circuit_state,omitempty"`
}

// CheckResponse returns a connection error for non-2xx responses, including
// up to 512 bytes of the body. The body is left for the caller to close.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return errors.Newf(errors.ErrorTypeConnection, "unexpected status %d", resp.StatusCode).
		WithDetail("status", resp.StatusCode).
		WithDetail("body", string(snippet))
}

// redactURL drops user info and query from u for logging
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable>"
	}
	u.User = nil
	u.RawQuery = ""
	return u.String()
}
