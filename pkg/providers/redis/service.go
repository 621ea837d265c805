// Package redis loads a Redis URL from a connection and builds a go-redis
// client with it.
package redis

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
	"github.com/ajitpratap0/vents/pkg/providers"
)

// Variables the service resolves
const (
	KeyURL      = "REDIS_URL"
	KeyPassword = "REDIS_PASSWORD"
)

// Service holds a resolved Redis URL. Password, when set, overrides the
// password in the URL.
type Service struct {
	URL      string
	Password string

	logger  *zap.Logger
	session *providers.Session[*redis.Client]
}

// LoadFromConnection resolves the service from conn's secret and config map
// mounts, schema and env. conn may be nil.
func LoadFromConnection(cfg *config.AppConfig, conn *connections.Connection) (*Service, error) {
	pctx := providers.ContextFromConnection(conn)
	return &Service{
		URL:      pctx.Read(cfg, KeyURL).String(),
		Password: pctx.Read(cfg, KeyPassword).String(),
		logger:   cfg.Logger().With(zap.String("provider", "redis")),
		session:  providers.NewSession[*redis.Client](connections.KindRedis),
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
func (s *Service) Kind() connections.Kind { return connections.KindRedis }

// EnvVars returns the resolved variables that are set
func (s *Service) EnvVars() map[string]string {
	return providers.EnvVars(
		KeyURL, s.URL,
		KeyPassword, s.Password,
	)
}

// SetEnvVars exports EnvVars to the process environment
func (s *Service) SetEnvVars() error {
	return providers.SetEnv(s.EnvVars())
}

// Options parses the URL into client options
func (s *Service) Options() (*redis.Options, error) {
	if s.URL == "" {
		return nil, errors.New(errors.ErrorTypeMissingValue, KeyURL+" is not set")
	}
	opts, err := redis.ParseURL(s.URL)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid "+KeyURL)
	}
	if s.Password != "" {
		opts.Password = s.Password
	}
	return opts, nil
}

// Session returns a client that has answered a PING
func (s *Service) Session(ctx context.Context) (*redis.Client, error) {
	return s.session.GetOrCreate(ctx, func(ctx context.Context) (*redis.Client, error) {
		opts, err := s.Options()
		if err != nil {
			return nil, err
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to connect to Redis").
				WithDetail("addr", opts.Addr)
		}
		s.logger.Info("Redis client connected",
			zap.String("addr", opts.Addr),
			zap.Int("db", opts.DB))
		return client, nil
	})
}

// Close releases the cached session, if any
func (s *Service) Close() error {
	return s.session.CloseWith(func(client *redis.Client) error { return client.Close() })
}
