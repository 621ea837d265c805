// Package discord loads Discord bot tokens and webhooks from a connection.
package discord

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
	"github.com/ajitpratap0/vents/pkg/providers/webhook"
)

// Resolved variable names and defaults
const (
	KeyToken      = "DISCORD_TOKEN"
	KeyIntents    = "DISCORD_INTENTS"
	KeyWebhookURL = "DISCORD_WEBHOOK_URL"

	DefaultAPIURL = "https://discord.com/api/v10"
)

// Service is a Discord bot token and its gateway intents
type Service struct {
	Token string
	// Intents toggles named gateway intents, e.g. {"message_content": true}
	Intents map[string]bool

	logger  *zap.Logger
	session *providers.Session[*clients.HTTPClient]
}

// LoadFromConnection resolves the token and intents from the secret mount
func LoadFromConnection(cfg *config.AppConfig, conn *connections.Connection) (*Service, error) {
	pctx := providers.ContextFromSecretMount(conn)

	s := &Service{
		Token:   pctx.Read(cfg, KeyToken).String(),
		logger:  cfg.Logger().With(zap.String("provider", "discord")),
		session: providers.NewSession[*clients.HTTPClient](connections.KindDiscord),
	}
	if err := pctx.Read(cfg, KeyIntents).JSON(&s.Intents); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "invalid "+KeyIntents)
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
func (s *Service) Kind() connections.Kind { return connections.KindDiscord }

// EnvVars returns the resolved variables that are set
func (s *Service) EnvVars() map[string]string {
	vars := providers.EnvVars(KeyToken, s.Token)
	if len(s.Intents) > 0 {
		if raw, err := json.Marshal(s.Intents); err == nil {
			vars[KeyIntents] = string(raw)
		}
	}
	return vars
}

// SetEnvVars exports EnvVars to the process environment
func (s *Service) SetEnvVars() error {
	return providers.SetEnv(s.EnvVars())
}

// Session returns a REST client authenticated as the bot
func (s *Service) Session(ctx context.Context) (*clients.HTTPClient, error) {
	return s.session.GetOrCreate(ctx, func(context.Context) (*clients.HTTPClient, error) {
		if s.Token == "" {
			return nil, errors.New(errors.ErrorTypeMissingValue, KeyToken+" is not set")
		}
		hc := clients.DefaultHTTPConfig()
		hc.BaseURL = DefaultAPIURL
		hc.APIKeyHeader = "Authorization"
		hc.APIKey = "Bot " + s.Token
		return clients.NewHTTPClient(hc, s.logger)
	})
}

// Close releases the cached session, if any
func (s *Service) Close() error {
	return s.session.CloseWith(func(c *clients.HTTPClient) error { return c.Close() })
}

// LoadWebhook resolves a webhook URL from the secret's url mount
func LoadWebhook(cfg *config.AppConfig, conn *connections.Connection) (*webhook.Service, error) {
	return webhook.Load(cfg, providers.ContextFromSecretURL(conn), webhook.Options{
		Kind:          connections.KindDiscordWebhook,
		Keys:          webhook.Keys{URL: KeyWebhookURL},
		DefaultMethod: http.MethodPost,
	})
}
