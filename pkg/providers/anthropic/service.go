// Package anthropic loads Anthropic API credentials from a connection.
package anthropic

import (
	"context"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ajitpratap0/vents/pkg/clients"
	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
	"github.com/ajitpratap0/vents/pkg/providers"
)

// Resolved variable names and defaults
const (
	KeyAPIKey = "ANTHROPIC_API_KEY"
	KeyKwargs = "ANTHROPIC_KWARGS"

	DefaultBaseURL = "https://api.anthropic.com/v1"
	DefaultVersion = "2023-06-01"

	apiKeyHeader  = "x-api-key"
	versionHeader = "anthropic-version"
)

// Service holds resolved Anthropic settings
type Service struct {
	APIKey string
	// Kwargs carries extra client settings: "base_url", "version" and
	// "timeout" (seconds).
	Kwargs map[string]any

	logger  *zap.Logger
	session *providers.Session[*clients.HTTPClient]
}

// LoadFromConnection resolves the service from conn. conn may be nil.
func LoadFromConnection(cfg *config.AppConfig, conn *connections.Connection) (*Service, error) {
	pctx := providers.ContextFromConnection(conn)

	s := &Service{
		APIKey:  pctx.Read(cfg, KeyAPIKey).String(),
		logger:  cfg.Logger().With(zap.String("provider", "anthropic")),
		session: providers.NewSession[*clients.HTTPClient](connections.KindAnthropic),
	}
	if err := pctx.Read(cfg, KeyKwargs).JSON(&s.Kwargs); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "invalid "+KeyKwargs)
	}
	return s, nil
}

// LoadFromCatalog resolves the service for the named catalog connection
func LoadFromCatalog(cfg *config.AppConfig, name string) (*Service, error) {
	conn := cfg.GetConnectionFor(name)
	if conn == nil {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "connection %q not found in catalog", name)
	}
	return LoadFromConnection(cfg, conn)
}

// Kind returns the connection kind the service serves
func (s *Service) Kind() connections.Kind {
	return connections.KindAnthropic
}

// EnvVars returns the resolved variables that are set
func (s *Service) EnvVars() map[string]string {
	vars := providers.EnvVars(KeyAPIKey, s.APIKey)
	if len(s.Kwargs) > 0 {
		if raw, err := json.Marshal(s.Kwargs); err == nil {
			vars[KeyKwargs] = string(raw)
		}
	}
	return vars
}

// SetEnvVars exports EnvVars to the process environment
func (s *Service) SetEnvVars() error {
	return providers.SetEnv(s.EnvVars())
}

// HTTPConfig returns the client configuration the session is built from
func (s *Service) HTTPConfig() *clients.HTTPConfig {
	hc := clients.DefaultHTTPConfig()
	hc.BaseURL = DefaultBaseURL
	if base, ok := s.Kwargs["base_url"].(string); ok && base != "" {
		hc.BaseURL = strings.TrimRight(base, "/")
	}
	hc.APIKeyHeader = apiKeyHeader
	hc.APIKey = s.APIKey

	hc.Headers[versionHeader] = DefaultVersion
	if version, ok := s.Kwargs["version"].(string); ok && version != "" {
		hc.Headers[versionHeader] = version
	}
	if timeout, ok := s.Kwargs["timeout"].(float64); ok && timeout > 0 {
		hc.RequestTimeout = time.Duration(timeout * float64(time.Second))
	}
	return hc
}

// Session returns the lazily built HTTP client
func (s *Service) Session(ctx context.Context) (*clients.HTTPClient, error) {
	return s.session.GetOrCreate(ctx, func(context.Context) (*clients.HTTPClient, error) {
		if s.APIKey == "" {
			return nil, errors.New(errors.ErrorTypeMissingValue, KeyAPIKey+" is not set")
		}
		return clients.NewHTTPClient(s.HTTPConfig(), s.logger)
	})
}

// Close releases the cached session, if any
func (s *Service) Close() error {
	return s.session.CloseWith(func(c *clients.HTTPClient) error { return c.Close() })
}
