// Package webhook loads generic HTTP endpoints from a connection. Chat
// webhooks (Slack, Discord) and feed readers reuse it with their own keys.
package webhook

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ajitpratap0/vents/pkg/clients"
	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
	"github.com/ajitpratap0/vents/pkg/providers"
)

// Keys names the variables a webhook is resolved from. Empty names are not
// read.
type Keys struct {
	URL          string
	Method       string
	SessionAttrs string
}

// DefaultKeys are used by the http and webhook kinds
var DefaultKeys = Keys{
	URL:          "HTTP_URL",
	Method:       "HTTP_METHOD",
	SessionAttrs: "HTTP_SESSION_ATTRS",
}

// Service is a resolved HTTP endpoint
type Service struct {
	URL          string
	Method       string
	SessionAttrs *SessionAttrs

	kind    connections.Kind
	keys    Keys
	logger  *zap.Logger
	session *providers.Session[*clients.HTTPClient]
}

// Options tune Load
type Options struct {
	Kind          connections.Kind
	Keys          Keys
	DefaultURL    string
	DefaultMethod string
}

// Load resolves a webhook from pctx. Every field is resolved independently,
// so a missing URL is not an error until the session is built.
func Load(cfg *config.AppConfig, pctx providers.Context, opts Options) (*Service, error) {
	s := &Service{
		kind:    opts.Kind,
		keys:    opts.Keys,
		logger:  cfg.Logger().With(zap.String("provider", string(opts.Kind))),
		session: providers.NewSession[*clients.HTTPClient](opts.Kind),
	}

	s.URL = opts.DefaultURL
	if opts.Keys.URL != "" {
		s.URL = pctx.Read(cfg, opts.Keys.URL).StringOr(opts.DefaultURL)
	}
	s.Method = opts.DefaultMethod
	if opts.Keys.Method != "" {
		s.Method = normalizeMethod(pctx.Read(cfg, opts.Keys.Method).StringOr(opts.DefaultMethod))
	}
	if opts.Keys.SessionAttrs != "" {
		attrs, err := ParseSessionAttrs(pctx.Read(cfg, opts.Keys.SessionAttrs))
		if err != nil {
			return nil, err
		}
		s.SessionAttrs = attrs
	}
	return s, nil
}

// LoadFromConnection resolves HTTP_URL, HTTP_METHOD and HTTP_SESSION_ATTRS
// from the connection's secret url mount, then its secret and config map
// mounts. conn may be nil.
func LoadFromConnection(cfg *config.AppConfig, conn *connections.Connection) (*Service, error) {
	kind := connections.KindHTTP
	if conn != nil && conn.Kind != "" {
		kind = conn.Kind
	}

	pctx := providers.ContextFromConnection(conn)
	if url := providers.ContextFromSecretURL(conn); len(url.Paths) > 0 {
		pctx.Paths = append(url.Paths, pctx.Paths...)
	}
	return Load(cfg, pctx, Options{Kind: kind, Keys: DefaultKeys, DefaultMethod: http.MethodPost})
}

// LoadFromCatalog loads the named connection from cfg's catalog
func LoadFromCatalog(cfg *config.AppConfig, name string) (*Service, error) {
	conn := cfg.GetConnectionFor(name)
	if conn == nil {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "connection %q not found in catalog", name)
	}
	return LoadFromConnection(cfg, conn)
}

// Kind returns the connection kind
func (s *Service) Kind() connections.Kind {
	return s.kind
}

// EnvVars returns the resolved fields under the service's key names
func (s *Service) EnvVars() map[string]string {
	vars := map[string]string{}
	if s.keys.URL != "" && s.URL != "" {
		vars[s.keys.URL] = s.URL
	}
	if s.keys.Method != "" && s.Method != "" {
		vars[s.keys.Method] = s.Method
	}
	if s.keys.SessionAttrs != "" && s.SessionAttrs != nil {
		if raw, err := json.Marshal(s.SessionAttrs); err == nil {
			vars[s.keys.SessionAttrs] = string(raw)
		}
	}
	return vars
}

// SetEnvVars exports the resolved fields
func (s *Service) SetEnvVars() error {
	return providers.SetEnv(s.EnvVars())
}

// HTTPConfig returns the client configuration the session is built from
func (s *Service) HTTPConfig() *clients.HTTPConfig {
	hc := clients.DefaultHTTPConfig()
	hc.BaseURL = s.URL
	if s.Method != "" {
		hc.Method = s.Method
	}
	s.SessionAttrs.Apply(hc)
	return hc
}

// Session returns the HTTP client bound to the webhook URL
func (s *Service) Session(ctx context.Context) (*clients.HTTPClient, error) {
	return s.session.GetOrCreate(ctx, func(context.Context) (*clients.HTTPClient, error) {
		if s.URL == "" {
			return nil, errors.New(errors.ErrorTypeMissingValue, "webhook url is not set").
				WithDetail("key", s.keys.URL)
		}
		return clients.NewHTTPClient(s.HTTPConfig(), s.logger)
	})
}

// Execute sends payload to the webhook with the configured method
func (s *Service) Execute(ctx context.Context, payload []byte) (*http.Response, error) {
	client, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}
	return client.Send(ctx, payload, nil)
}

// Close releases the HTTP session
func (s *Service) Close() error {
	return s.session.CloseWith(func(c *clients.HTTPClient) error { return c.Close() })
}
