// Package openai loads OpenAI API credentials from a connection.
package openai

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
	KeyAPIKey  = "OPENAI_API_KEY"
	KeyBaseURL = "OPENAI_BASE_URL"
	KeyKwargs  = "OPENAI_KWARGS"

	DefaultBaseURL = "https://api.openai.com/v1"
)

// Service holds resolved OpenAI settings
type Service struct {
	APIKey  string
	BaseURL string
	// Kwargs carries extra client settings. "organization", "project" and
	// "timeout" (seconds) are applied to the session.
	Kwargs map[string]any

	logger  *zap.Logger
	session *providers.Session[*clients.HTTPClient]
}

// LoadFromConnection resolves the service from conn's secret and config map
// mounts, schema and env. conn may be nil.
func LoadFromConnection(cfg *config.AppConfig, conn *connections.Connection) (*Service, error) {
	pctx := providers.ContextFromConnection(conn)

	s := &Service{
		APIKey:  pctx.Read(cfg, KeyAPIKey).String(),
		BaseURL: pctx.Read(cfg, KeyBaseURL).String(),
		logger:  cfg.Logger().With(zap.String("provider", "openai")),
		session: providers.NewSession[*clients.HTTPClient](connections.KindOpenAI),
	}
	if err := pctx.Read(cfg, KeyKwargs).JSON(&s.Kwargs); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "invalid "+KeyKwargs)
	}
	return s, nil
}

// LoadFromCatalog loads the named connection from cfg's catalog
func LoadFromCatalog(cfg *config.AppConfig, name string) (*Service, error) {
	conn := cfg.GetConnectionFor(name)
	if conn == nil {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "connection %q not found in catalog", name)
	}
	return LoadFromConnection(cfg, conn)
}

// Kind returns the connection kind the service serves
func (s *Service) Kind() connections.Kind {
	return connections.KindOpenAI
}

// EnvVars returns the resolved variables that are set
func (s *Service) EnvVars() map[string]string {
	vars := providers.EnvVars(
		KeyAPIKey, s.APIKey,
		KeyBaseURL, s.BaseURL,
	)
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
	hc.BaseURL = strings.TrimRight(s.BaseURL, "/")
	if hc.BaseURL == "" {
		hc.BaseURL = DefaultBaseURL
	}
	hc.BearerToken = s.APIKey

	if org, ok := s.Kwargs["organization"].(string); ok && org != "" {
		hc.Headers["OpenAI-Organization"] = org
	}
	if project, ok := s.Kwargs["project"].(string); ok && project != "" {
		hc.Headers["OpenAI-Project"] = project
	}
	if timeout, ok := s.Kwargs["timeout"].(float64); ok && timeout > 0 {
		hc.RequestTimeout = time.Duration(timeout * float64(time.Second))
	}
	return hc
}

// Session returns an HTTP client authenticated against the API
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
