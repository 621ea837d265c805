// Package reddit loads Reddit script-app credentials and RSS feed URLs from
// a connection.
package reddit

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
	"github.com/ajitpratap0/vents/pkg/providers"
	"github.com/ajitpratap0/vents/pkg/providers/webhook"
)

// Resolved variable names and defaults
const (
	KeyClientID     = "REDDIT_CLIENT_ID"
	KeyClientSecret = "REDDIT_CLIENT_SECRET"
	KeyUserAgent    = "REDDIT_USER_AGENT"
	KeyUsername     = "REDDIT_USERNAME"
	KeyPassword     = "REDDIT_PASSWORD"
	KeyRSSURL       = "REDDIT_RSS_URL"

	DefaultTokenURL = "https://www.reddit.com/api/v1/access_token"
	// DefaultRSSURL is a template; {subreddit} is filled in by the caller
	DefaultRSSURL = "https://www.reddit.com/r/{subreddit}.rss"
)

// Service holds Reddit script-app credentials
type Service struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	Username     string
	Password     string

	// TokenURL is the OAuth2 token endpoint, DefaultTokenURL when empty
	TokenURL string

	session *providers.Session[*http.Client]
}

// LoadFromConnection resolves the service from conn. conn may be nil.
func LoadFromConnection(cfg *config.AppConfig, conn *connections.Connection) (*Service, error) {
	pctx := providers.ContextFromConnection(conn)
	return &Service{
		ClientID:     pctx.Read(cfg, KeyClientID).String(),
		ClientSecret: pctx.Read(cfg, KeyClientSecret).String(),
		UserAgent:    pctx.Read(cfg, KeyUserAgent).String(),
		Username:     pctx.Read(cfg, KeyUsername).String(),
		Password:     pctx.Read(cfg, KeyPassword).String(),
		session:      providers.NewSession[*http.Client](connections.KindReddit),
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
func (s *Service) Kind() connections.Kind { return connections.KindReddit }

// EnvVars returns the resolved variables that are set
func (s *Service) EnvVars() map[string]string {
	return providers.EnvVars(
		KeyClientID, s.ClientID,
		KeyClientSecret, s.ClientSecret,
		KeyUserAgent, s.UserAgent,
		KeyUsername, s.Username,
		KeyPassword, s.Password,
	)
}

// SetEnvVars exports EnvVars to the process environment
func (s *Service) SetEnvVars() error {
	return providers.SetEnv(s.EnvVars())
}

// OAuth2Config returns the password-grant configuration for the app
func (s *Service) OAuth2Config() *oauth2.Config {
	tokenURL := s.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	return &oauth2.Config{
		ClientID:     s.ClientID,
		ClientSecret: s.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

// Session exchanges the username and password for a token and returns a
// client that sends it, with the configured User-Agent, on every request.
func (s *Service) Session(ctx context.Context) (*http.Client, error) {
	return s.session.GetOrCreate(ctx, func(ctx context.Context) (*http.Client, error) {
		if s.ClientID == "" || s.Username == "" {
			return nil, errors.New(errors.ErrorTypeMissingValue, "reddit client id and username are required")
		}

		base := &http.Client{Transport: &userAgentTransport{agent: s.UserAgent, base: http.DefaultTransport}}
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

		conf := s.OAuth2Config()
		token, err := conf.PasswordCredentialsToken(ctx, s.Username, s.Password)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to obtain reddit token")
		}
		return conf.Client(ctx, token), nil
	})
}

type userAgentTransport struct {
	agent string
	base  http.RoundTripper
}

// RoundTrip sets the User-Agent header and delegates to the base transport
func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.agent == "" {
		return t.base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.agent)
	return t.base.RoundTrip(req)
}

// LoadRSS resolves REDDIT_RSS_URL from the secret's url mount. The URL
// defaults to DefaultRSSURL and is fetched with GET.
func LoadRSS(cfg *config.AppConfig, conn *connections.Connection) (*webhook.Service, error) {
	return webhook.Load(cfg, providers.ContextFromSecretURL(conn), webhook.Options{
		Kind:          connections.KindRedditRSS,
		Keys:          webhook.Keys{URL: KeyRSSURL},
		DefaultURL:    DefaultRSSURL,
		DefaultMethod: http.MethodGet,
	})
}
