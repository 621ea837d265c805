// Package slack loads Slack bot tokens and incoming webhooks from a
// connection.
package slack

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/ajitpratap0/vents/pkg/clients"
	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
	"github.com/ajitpratap0/vents/pkg/providers"
	"github.com/ajitpratap0/vents/pkg/providers/webhook"
)

// Resolved variable names and defaults
const (
	KeyToken        = "SLACK_TOKEN"
	KeyURL          = "SLACK_URL"
	KeyMethod       = "SLACK_METHOD"
	KeySessionAttrs = "SLACK_SESSION_ATTRS"

	// DefaultAPIURL is the Web API base the token session talks to
	DefaultAPIURL = "https://slack.com/api"
)

// Service is a Slack bot token, read from the secret mount
type Service struct {
	Token string

	logger  *zap.Logger
	session *providers.Session[*clients.HTTPClient]
}

// LoadFromConnection resolves the service from conn. conn may be nil.
func LoadFromConnection(cfg *config.AppConfig, conn *connections.Connection) (*Service, error) {
	pctx := providers.ContextFromSecretMount(conn)
	return &Service{
		Token:   pctx.Read(cfg, KeyToken).String(),
		logger:  cfg.Logger().With(zap.String("provider", "slack")),
		session: providers.NewSession[*clients.HTTPClient](connections.KindSlack),
	}, nil
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
func (s *Service) Kind() connections.Kind { return connections.KindSlack }

// EnvVars returns the resolved variables that are set
func (s *Service) EnvVars() map[string]string {
	return providers.EnvVars(KeyToken, s.Token)
}

// SetEnvVars exports EnvVars to the process environment
func (s *Service) SetEnvVars() error {
	return providers.SetEnv(s.EnvVars())
}

// Session returns a Web API client authenticated with the bot token
func (s *Service) Session(ctx context.Context) (*clients.HTTPClient, error) {
	return s.session.GetOrCreate(ctx, func(context.Context) (*clients.HTTPClient, error) {
		if s.Token == "" {
			return nil, errors.New(errors.ErrorTypeMissingValue, KeyToken+" is not set")
		}
		hc := clients.DefaultHTTPConfig()
		hc.BaseURL = DefaultAPIURL
		hc.BearerToken = s.Token
		return clients.NewHTTPClient(hc, s.logger)
	})
}

// Close releases the cached session, if any
func (s *Service) Close() error {
	return s.session.CloseWith(func(c *clients.HTTPClient) error { return c.Close() })
}

// LoadWebhook resolves an incoming webhook URL from the secret's url mount
func LoadWebhook(cfg *config.AppConfig, conn *connections.Connection) (*webhook.Service, error) {
	return webhook.Load(cfg, providers.ContextFromSecretURL(conn), webhook.Options{
		Kind:          connections.KindSlackWebhook,
		Keys:          webhook.Keys{URL: KeyURL},
		DefaultMethod: http.MethodPost,
	})
}

// LoadHTTPWebhook is LoadWebhook with the method and session attributes
// also resolved.
func LoadHTTPWebhook(cfg *config.AppConfig, conn *connections.Connection) (*webhook.Service, error) {
	return webhook.Load(cfg, providers.ContextFromSecretURL(conn), webhook.Options{
		Kind:          connections.KindSlackWebhook,
		Keys:          webhook.Keys{URL: KeyURL, Method: KeyMethod, SessionAttrs: KeySessionAttrs},
		DefaultMethod: http.MethodPost,
	})
}
