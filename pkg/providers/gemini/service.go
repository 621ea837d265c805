// Package gemini loads Gemini API credentials from a connection and builds a
// genai client.
package gemini

import (
	"context"

	"github.com/goccy/go-json"
	"google.golang.org/genai"

	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
	"github.com/ajitpratap0/vents/pkg/providers"
)

// Variables the service resolves
const (
	KeyAPIKey = "GEMINI_API_KEY"
	KeyKwargs = "GEMINI_KWARGS"
)

// Kwargs are the client settings accepted in GEMINI_KWARGS
type Kwargs struct {
	BaseURL    string `json:"base_url,omitempty"`
	APIVersion string `json:"api_version,omitempty"`
}

// Service holds resolved Gemini settings
type Service struct {
	APIKey string
	Kwargs *Kwargs

	session *providers.Session[*genai.Client]
}

// LoadFromConnection resolves the service from conn. conn may be nil.
func LoadFromConnection(cfg *config.AppConfig, conn *connections.Connection) (*Service, error) {
	pctx := providers.ContextFromConnection(conn)

	s := &Service{
		APIKey:  pctx.Read(cfg, KeyAPIKey).String(),
		session: providers.NewSession[*genai.Client](connections.KindGemini),
	}
	if v := pctx.Read(cfg, KeyKwargs); v.Found() {
		s.Kwargs = &Kwargs{}
		if err := v.JSON(s.Kwargs); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeValidation, "invalid "+KeyKwargs)
		}
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
	return connections.KindGemini
}

// EnvVars returns the resolved variables that are set
func (s *Service) EnvVars() map[string]string {
	vars := providers.EnvVars(KeyAPIKey, s.APIKey)
	if s.Kwargs != nil {
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

// ClientConfig returns the genai configuration the session is built from
func (s *Service) ClientConfig() *genai.ClientConfig {
	cc := &genai.ClientConfig{
		APIKey:  s.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if s.Kwargs != nil {
		cc.HTTPOptions.BaseURL = s.Kwargs.BaseURL
		cc.HTTPOptions.APIVersion = s.Kwargs.APIVersion
	}
	return cc
}

// Session returns the genai client
func (s *Service) Session(ctx context.Context) (*genai.Client, error) {
	return s.session.GetOrCreate(ctx, func(ctx context.Context) (*genai.Client, error) {
		if s.APIKey == "" {
			return nil, errors.New(errors.ErrorTypeMissingValue, KeyAPIKey+" is not set")
		}
		return genai.NewClient(ctx, s.ClientConfig())
	})
}
