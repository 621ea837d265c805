// Package postgres loads a PostgreSQL DSN from a connection and opens a pgx
// connection pool with it.
package postgres

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
	"github.com/ajitpratap0/vents/pkg/providers"
)

// Variables the service resolves
const (
	KeyDSN            = "POSTGRES_DSN"
	KeyMaxConns       = "POSTGRES_MAX_CONNS"
	KeyConnectTimeout = "POSTGRES_CONNECT_TIMEOUT"
)

// Service holds a resolved PostgreSQL DSN and pool limits
type Service struct {
	DSN string
	// MaxConns caps the pool; zero keeps pgx's default
	MaxConns       int
	ConnectTimeout time.Duration

	logger  *zap.Logger
	session *providers.Session[*pgxpool.Pool]
}

// LoadFromConnection resolves the service from conn's secret and config map
// mounts, schema and env. conn may be nil.
func LoadFromConnection(cfg *config.AppConfig, conn *connections.Connection) (*Service, error) {
	pctx := providers.ContextFromConnection(conn)

	maxConns, err := pctx.Read(cfg, KeyMaxConns).Int(0)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "invalid "+KeyMaxConns)
	}
	if maxConns < 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "%s must not be negative", KeyMaxConns)
	}
	timeout, err := pctx.Read(cfg, KeyConnectTimeout).Duration(0)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "invalid "+KeyConnectTimeout)
	}

	return &Service{
		DSN:            pctx.Read(cfg, KeyDSN).String(),
		MaxConns:       maxConns,
		ConnectTimeout: timeout,
		logger:         cfg.Logger().With(zap.String("provider", "postgres")),
		session:        providers.NewSession[*pgxpool.Pool](connections.KindPostgres),
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
func (s *Service) Kind() connections.Kind { return connections.KindPostgres }

// EnvVars returns the resolved variables that are set
func (s *Service) EnvVars() map[string]string {
	vars := providers.EnvVars(KeyDSN, s.DSN)
	if s.MaxConns > 0 {
		vars[KeyMaxConns] = strconv.Itoa(s.MaxConns)
	}
	if s.ConnectTimeout > 0 {
		vars[KeyConnectTimeout] = s.ConnectTimeout.String()
	}
	return vars
}

// SetEnvVars exports EnvVars to the process environment
func (s *Service) SetEnvVars() error {
	return providers.SetEnv(s.EnvVars())
}

// PoolConfig parses the DSN and applies the pool limits
func (s *Service) PoolConfig() (*pgxpool.Config, error) {
	if s.DSN == "" {
		return nil, errors.New(errors.ErrorTypeMissingValue, KeyDSN+" is not set")
	}
	poolConfig, err := pgxpool.ParseConfig(s.DSN)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse PostgreSQL connection string")
	}
	if s.MaxConns > 0 {
		poolConfig.MaxConns = int32(s.MaxConns) //nolint:gosec // G115: bounded by config
	}
	if s.ConnectTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = s.ConnectTimeout
	}
	return poolConfig, nil
}

// Session returns the connection pool. Connections are opened on first use.
func (s *Service) Session(ctx context.Context) (*pgxpool.Pool, error) {
	return s.session.GetOrCreate(ctx, func(ctx context.Context) (*pgxpool.Pool, error) {
		poolConfig, err := s.PoolConfig()
		if err != nil {
			return nil, err
		}
		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to create PostgreSQL connection pool")
		}
		s.logger.Info("PostgreSQL connection pool created",
			zap.String("host", poolConfig.ConnConfig.Host),
			zap.String("database", poolConfig.ConnConfig.Database),
			zap.Int32("max_connections", poolConfig.MaxConns))
		return pool, nil
	})
}

// Ping checks that the pool can reach the server
func (s *Service) Ping(ctx context.Context) error {
	pool, err := s.Session(ctx)
	if err != nil {
		return err
	}
	if err := pool.Ping(ctx); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "PostgreSQL ping failed")
	}
	return nil
}

// Close releases the cached session, if any
func (s *Service) Close() error {
	return s.session.CloseWith(func(pool *pgxpool.Pool) error {
		pool.Close()
		return nil
	})
}
