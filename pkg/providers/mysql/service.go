// Package mysql loads a MySQL DSN from a connection and opens a database
// handle with the go-sql-driver driver.
package mysql

import (
	"context"
	"database/sql"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
	"github.com/ajitpratap0/vents/pkg/providers"
)

const KeyDSN = "MYSQL_DSN"

// Service holds a resolved MySQL DSN
type Service struct {
	DSN string

	logger  *zap.Logger
	session *providers.Session[*sql.DB]
}

// LoadFromConnection resolves the service from conn's secret and config map
// mounts, schema and env. conn may be nil.
func LoadFromConnection(cfg *config.AppConfig, conn *connections.Connection) (*Service, error) {
	pctx := providers.ContextFromConnection(conn)
	return &Service{
		DSN:     pctx.Read(cfg, KeyDSN).String(),
		logger:  cfg.Logger().With(zap.String("provider", "mysql")),
		session: providers.NewSession[*sql.DB](connections.KindMySQL),
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
func (s *Service) Kind() connections.Kind { return connections.KindMySQL }

// EnvVars returns the resolved variables that are set
func (s *Service) EnvVars() map[string]string {
	return providers.EnvVars(KeyDSN, s.DSN)
}

// SetEnvVars exports EnvVars to the process environment
func (s *Service) SetEnvVars() error {
	return providers.SetEnv(s.EnvVars())
}

// DriverConfig parses the DSN
func (s *Service) DriverConfig() (*mysql.Config, error) {
	if s.DSN == "" {
		return nil, errors.New(errors.ErrorTypeMissingValue, KeyDSN+" is not set")
	}
	dc, err := mysql.ParseDSN(s.DSN)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse MySQL DSN")
	}
	return dc, nil
}

// Session returns a database handle. Connections are opened on first use.
func (s *Service) Session(ctx context.Context) (*sql.DB, error) {
	return s.session.GetOrCreate(ctx, func(context.Context) (*sql.DB, error) {
		dc, err := s.DriverConfig()
		if err != nil {
			return nil, err
		}
		connector, err := mysql.NewConnector(dc)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to create MySQL connector")
		}
		s.logger.Info("MySQL database handle created",
			zap.String("addr", dc.Addr),
			zap.String("database", dc.DBName))
		return sql.OpenDB(connector), nil
	})
}

// Ping checks that the database is reachable
func (s *Service) Ping(ctx context.Context) error {
	db, err := s.Session(ctx)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "database ping failed")
	}
	return nil
}

// Close releases the cached session, if any
func (s *Service) Close() error {
	return s.session.CloseWith(func(db *sql.DB) error { return db.Close() })
}
