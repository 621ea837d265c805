// Package mongodb loads a MongoDB URI from a connection and builds a driver
// client with it.
package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
	"github.com/ajitpratap0/vents/pkg/providers"
)

// Variables the service resolves
const (
	KeyURI      = "MONGODB_URI"
	KeyDatabase = "MONGODB_DATABASE"
)

// Service holds a resolved MongoDB URI and default database
type Service struct {
	URI      string
	Database string

	logger  *zap.Logger
	session *providers.Session[*mongo.Client]
}

// LoadFromConnection resolves the service from conn's secret and config map
// mounts, schema and env. conn may be nil.
func LoadFromConnection(cfg *config.AppConfig, conn *connections.Connection) (*Service, error) {
	pctx := providers.ContextFromConnection(conn)
	return &Service{
		URI:      pctx.Read(cfg, KeyURI).String(),
		Database: pctx.Read(cfg, KeyDatabase).String(),
		logger:   cfg.Logger().With(zap.String("provider", "mongodb")),
		session:  providers.NewSession[*mongo.Client](connections.KindMongoDB),
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
func (s *Service) Kind() connections.Kind { return connections.KindMongoDB }

// EnvVars returns the resolved variables that are set
func (s *Service) EnvVars() map[string]string {
	return providers.EnvVars(
		KeyURI, s.URI,
		KeyDatabase, s.Database,
	)
}

// SetEnvVars exports EnvVars to the process environment
func (s *Service) SetEnvVars() error {
	return providers.SetEnv(s.EnvVars())
}

// ClientOptions returns the driver options built from the URI
func (s *Service) ClientOptions() (*options.ClientOptions, error) {
	if s.URI == "" {
		return nil, errors.New(errors.ErrorTypeMissingValue, KeyURI+" is not set")
	}
	opts := options.Client().ApplyURI(s.URI)
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid "+KeyURI)
	}
	return opts, nil
}

// Session returns a client. The driver connects in the background.
func (s *Service) Session(ctx context.Context) (*mongo.Client, error) {
	return s.session.GetOrCreate(ctx, func(ctx context.Context) (*mongo.Client, error) {
		opts, err := s.ClientOptions()
		if err != nil {
			return nil, err
		}
		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to connect to MongoDB")
		}
		s.logger.Info("MongoDB client created",
			zap.Strings("hosts", opts.Hosts),
			zap.String("database", s.Database))
		return client, nil
	})
}

// DB returns the configured database on the session client
func (s *Service) DB(ctx context.Context) (*mongo.Database, error) {
	if s.Database == "" {
		return nil, errors.New(errors.ErrorTypeMissingValue, KeyDatabase+" is not set")
	}
	client, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(s.Database), nil
}

// Ping checks that the primary is reachable
func (s *Service) Ping(ctx context.Context) error {
	client, err := s.Session(ctx)
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to ping MongoDB")
	}
	return nil
}

// Close disconnects the client
func (s *Service) Close() error {
	return s.session.CloseWith(func(client *mongo.Client) error {
		return client.Disconnect(context.Background())
	})
}
