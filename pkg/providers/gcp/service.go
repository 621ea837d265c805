// Package gcp loads Google Cloud credentials from a connection and builds
// Cloud Storage and BigQuery clients from them.
package gcp

import (
	"context"
	"os"
	"path/filepath"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
	"github.com/ajitpratap0/vents/pkg/providers"
)

// Resolved variable names and defaults
const (
	KeyProject           = "GC_PROJECT"
	KeyGoogleProject     = "GOOGLE_PROJECT"
	KeyKeyPath           = "GC_KEY_PATH"
	KeyGoogleCredentials = "GOOGLE_APPLICATION_CREDENTIALS"
	KeyKeyfileDict       = "GC_KEYFILE_DICT"
	KeyScopes            = "GC_SCOPES"

	// ScopeCloudPlatform is requested when no scopes are configured
	ScopeCloudPlatform = "https://www.googleapis.com/auth/cloud-platform"
)

// Keys lists every variable the service resolves
var Keys = []string{
	KeyProject, KeyGoogleProject, KeyKeyPath, KeyGoogleCredentials, KeyKeyfileDict, KeyScopes,
}

// DefaultKeyPath is where SetEnvVars writes an inline keyfile
var DefaultKeyPath = filepath.Join(os.TempDir(), ".vents", "gc-secret.json")

// Service holds resolved Google Cloud settings. With neither a key path nor
// an inline keyfile, credentials come from the application default chain.
type Service struct {
	ProjectID string
	KeyPath   string
	// KeyfileDict is the raw service account JSON
	KeyfileDict string
	Scopes      []string

	kind     connections.Kind
	logger   *zap.Logger
	session  *providers.Session[*storage.Client]
	bigquery *providers.Session[*bigquery.Client]
}

// LoadFromConnection resolves the service from conn's secret and config map
// mounts, schema and env. conn may be nil.
func LoadFromConnection(cfg *config.AppConfig, conn *connections.Connection) (*Service, error) {
	pctx := providers.ContextFromConnection(conn)

	kind := connections.KindGCP
	if conn != nil && conn.Kind != "" {
		kind = conn.Kind
	}

	s := &Service{
		ProjectID:   pctx.Read(cfg, KeyProject, KeyGoogleProject).String(),
		KeyPath:     pctx.Read(cfg, KeyKeyPath, KeyGoogleCredentials).String(),
		KeyfileDict: pctx.Read(cfg, KeyKeyfileDict).String(),
		kind:        kind,
		logger:      cfg.Logger().With(zap.String("provider", string(kind))),
		session:     providers.NewSession[*storage.Client](kind),
		bigquery:    providers.NewSession[*bigquery.Client](connections.KindBigQuery),
	}
	if s.KeyfileDict != "" && !json.Valid([]byte(s.KeyfileDict)) {
		return nil, errors.New(errors.ErrorTypeValidation, KeyKeyfileDict+" is not valid JSON")
	}

	scopes, err := pctx.Read(cfg, KeyScopes).Strings()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "invalid "+KeyScopes)
	}
	s.Scopes = scopes
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
func (s *Service) Kind() connections.Kind { return s.kind }

// EnvVars returns the resolved variables that are set
func (s *Service) EnvVars() map[string]string {
	return providers.EnvVars(
		KeyProject, s.ProjectID,
		KeyKeyPath, s.KeyPath,
		KeyGoogleCredentials, s.KeyPath,
	)
}

// SetEnvVars exports the project and points GOOGLE_APPLICATION_CREDENTIALS
// at the key file. An inline keyfile is first written to DefaultKeyPath.
func (s *Service) SetEnvVars() error {
	if err := providers.SetEnv(s.EnvVars()); err != nil {
		return err
	}
	if s.KeyPath != "" || s.KeyfileDict == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(DefaultKeyPath), 0o700); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to create key directory")
	}
	if err := os.WriteFile(DefaultKeyPath, []byte(s.KeyfileDict), 0o600); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to write key file").
			WithDetail("path", DefaultKeyPath)
	}
	s.logger.Debug("wrote inline keyfile", zap.String("path", DefaultKeyPath))
	return providers.SetEnv(map[string]string{KeyGoogleCredentials: DefaultKeyPath})
}

func (s *Service) scopes() []string {
	if len(s.Scopes) == 0 {
		return []string{ScopeCloudPlatform}
	}
	return s.Scopes
}

// Credentials resolves credentials from the inline keyfile, the key path, or
// the application default chain, in that order.
func (s *Service) Credentials(ctx context.Context) (*google.Credentials, error) {
	switch {
	case s.KeyfileDict != "":
		creds, err := google.CredentialsFromJSON(ctx, []byte(s.KeyfileDict), s.scopes()...)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid "+KeyKeyfileDict)
		}
		return creds, nil
	case s.KeyPath != "":
		data, err := os.ReadFile(s.KeyPath)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read key file").
				WithDetail("path", s.KeyPath)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, s.scopes()...)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid key file").
				WithDetail("path", s.KeyPath)
		}
		return creds, nil
	default:
		creds, err := google.FindDefaultCredentials(ctx, s.scopes()...)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConnection, "no default credentials found")
		}
		return creds, nil
	}
}

// ClientOptions returns the options Google API clients are built with and
// the project they target. The project falls back to the one named by the
// credentials.
func (s *Service) ClientOptions(ctx context.Context) ([]option.ClientOption, string, error) {
	creds, err := s.Credentials(ctx)
	if err != nil {
		return nil, "", err
	}
	project := s.ProjectID
	if project == "" {
		project = creds.ProjectID
	}
	return []option.ClientOption{option.WithCredentials(creds)}, project, nil
}

// Session returns a Cloud Storage client
func (s *Service) Session(ctx context.Context) (*storage.Client, error) {
	return s.session.GetOrCreate(ctx, func(ctx context.Context) (*storage.Client, error) {
		opts, _, err := s.ClientOptions(ctx)
		if err != nil {
			return nil, err
		}
		return storage.NewClient(ctx, opts...)
	})
}

// BigQuery returns a BigQuery client for the resolved project
func (s *Service) BigQuery(ctx context.Context) (*bigquery.Client, error) {
	return s.bigquery.GetOrCreate(ctx, func(ctx context.Context) (*bigquery.Client, error) {
		opts, project, err := s.ClientOptions(ctx)
		if err != nil {
			return nil, err
		}
		if project == "" {
			project = bigquery.DetectProjectID
		}
		return bigquery.NewClient(ctx, project, opts...)
	})
}

// Close releases the storage and BigQuery clients
func (s *Service) Close() error {
	storageErr := s.session.CloseWith(func(c *storage.Client) error { return c.Close() })
	bqErr := s.bigquery.CloseWith(func(c *bigquery.Client) error { return c.Close() })
	if storageErr != nil {
		return storageErr
	}
	return bqErr
}
