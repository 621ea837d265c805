// Package github loads GitHub tokens from a connection and builds an
// authenticated HTTP client.
package github

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
	"github.com/ajitpratap0/vents/pkg/providers"
)

// Resolved variable names and defaults
const (
	KeyToken = "GITHUB_TOKEN"
	KeyHost  = "GITHUB_HOST"

	DefaultAPIURL = "https://api.github.com"
)

// Service is a GitHub token, optionally for an Enterprise host
type Service struct {
	Token string
	Host  string

	session *providers.Session[*http.Client]
}

// LoadFromConnection reads the token from the secret's token mount and the
// host from the config map's host mount.
func LoadFromConnection(cfg *config.AppConfig, conn *connections.Connection) (*Service, error) {
	pctx := providers.ContextFromSecretToken(conn)
	return &Service{
		Token:   pctx.Read(cfg, KeyToken).String(),
		Host:    pctx.Read(cfg, KeyHost).String(),
		session: providers.NewSession[*http.Client](connections.KindGitHub),
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
func (s *Service) Kind() connections.Kind { return connections.KindGitHub }

// EnvVars exports only the token, as GITHUB_HOST is not a standard variable
// for GitHub tooling.
func (s *Service) EnvVars() map[string]string {
	return providers.EnvVars(KeyToken, s.Token)
}

// SetEnvVars exports EnvVars to the process environment
func (s *Service) SetEnvVars() error {
	return providers.SetEnv(s.EnvVars())
}

// APIURL returns the API base, the configured host or api.github.com
func (s *Service) APIURL() string {
	if s.Host == "" {
		return DefaultAPIURL
	}
	return strings.TrimRight(s.Host, "/")
}

// Session returns an HTTP client that sends the token on every request
func (s *Service) Session(ctx context.Context) (*http.Client, error) {
	return s.session.GetOrCreate(ctx, func(ctx context.Context) (*http.Client, error) {
		if s.Token == "" {
			return nil, errors.New(errors.ErrorTypeMissingValue, KeyToken+" is not set")
		}
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: s.Token})
		return oauth2.NewClient(ctx, src), nil
	})
}
