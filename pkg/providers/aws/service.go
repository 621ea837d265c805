// Package aws loads AWS credentials and endpoint settings from a connection
// and builds SDK v2 configurations and clients from them.
package aws

import (
	"context"
	"crypto/tls"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"go.uber.org/zap"

	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
	"github.com/ajitpratap0/vents/pkg/providers"
)

// Resolved variable names and defaults
const (
	KeyAccessKeyID     = "AWS_ACCESS_KEY_ID"
	KeySecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	KeySecurityToken   = "AWS_SECURITY_TOKEN"
	KeyRegion          = "AWS_REGION"
	KeyEndpointURL     = "AWS_ENDPOINT_URL"
	KeyUseSSL          = "AWS_USE_SSL"
	KeyVerifySSL       = "AWS_VERIFY_SSL"
	KeyAssumeRole      = "AWS_ASSUME_ROLE"
	KeyRoleARN         = "AWS_ROLE_ARN"
	KeySessionName     = "AWS_SESSION_NAME"
	KeySessionDuration = "AWS_SESSION_DURATION"

	DefaultSessionName = "vents"
)

// Keys lists every variable the service resolves
var Keys = []string{
	KeyAccessKeyID, KeySecretAccessKey, KeySecurityToken, KeyRegion,
	KeyEndpointURL, KeyUseSSL, KeyVerifySSL, KeyAssumeRole, KeyRoleARN,
	KeySessionName, KeySessionDuration,
}

// Service holds resolved AWS settings. Credentials left empty fall back to
// the SDK's default chain.
type Service struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Region          string
	EndpointURL     string
	// UseSSL is true unless explicitly disabled
	UseSSL bool
	// VerifySSL is nil when unset
	VerifySSL       *bool
	AssumeRole      bool
	RoleARN         string
	SessionName     string
	SessionDuration time.Duration

	kind    connections.Kind
	logger  *zap.Logger
	session *providers.Session[aws.Config]
}

// LoadFromConnection resolves the service from conn's mounts, schema and env.
// conn may be nil.
func LoadFromConnection(cfg *config.AppConfig, conn *connections.Connection) (*Service, error) {
	pctx := providers.ContextFromConnection(conn)

	kind := connections.KindAWS
	if conn != nil && conn.Kind != "" {
		kind = conn.Kind
	}

	s := &Service{
		AccessKeyID:     pctx.Read(cfg, KeyAccessKeyID).String(),
		SecretAccessKey: pctx.Read(cfg, KeySecretAccessKey).String(),
		SessionToken:    pctx.Read(cfg, KeySecurityToken).String(),
		Region:          pctx.Read(cfg, KeyRegion).String(),
		EndpointURL:     pctx.Read(cfg, KeyEndpointURL).String(),
		RoleARN:         pctx.Read(cfg, KeyRoleARN).String(),
		SessionName:     pctx.Read(cfg, KeySessionName).String(),
		kind:            kind,
		logger:          cfg.Logger().With(zap.String("provider", string(kind))),
		session:         providers.NewSession[aws.Config](kind),
	}
	var err error
	if s.UseSSL, err = pctx.Read(cfg, KeyUseSSL).ToBool(true); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "invalid "+KeyUseSSL)
	}
	if s.AssumeRole, err = pctx.Read(cfg, KeyAssumeRole).ToBool(false); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "invalid "+KeyAssumeRole)
	}
	if v := pctx.Read(cfg, KeyVerifySSL); v.Found() {
		var verify bool
		if verify, err = v.ToBool(false); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeValidation, "invalid "+KeyVerifySSL)
		}
		s.VerifySSL = &verify
	}

	duration, err := pctx.Read(cfg, KeySessionDuration).Duration(0)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "invalid "+KeySessionDuration)
	}
	s.SessionDuration = duration
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

// Kind returns the connection kind the service was loaded for
func (s *Service) Kind() connections.Kind { return s.kind }

// EnvVars returns the credential and endpoint variables the SDKs read
func (s *Service) EnvVars() map[string]string {
	return providers.EnvVars(
		KeyAccessKeyID, s.AccessKeyID,
		KeySecretAccessKey, s.SecretAccessKey,
		KeySecurityToken, s.SessionToken,
		"AWS_SESSION_TOKEN", s.SessionToken,
		KeyRegion, s.Region,
		KeyEndpointURL, s.EndpointURL,
	)
}

// SetEnvVars exports the non-empty variables to the process environment
func (s *Service) SetEnvVars() error {
	return providers.SetEnv(s.EnvVars())
}

// Endpoint returns the endpoint URL with its scheme forced to http when SSL
// is disabled.
func (s *Service) Endpoint() string {
	if s.EndpointURL == "" || s.UseSSL {
		return s.EndpointURL
	}
	if strings.HasPrefix(s.EndpointURL, "https://") {
		return "http://" + strings.TrimPrefix(s.EndpointURL, "https://")
	}
	if !strings.Contains(s.EndpointURL, "://") {
		return "http://" + s.EndpointURL
	}
	return s.EndpointURL
}

// LoadOptions returns the SDK load options derived from the service
func (s *Service) LoadOptions() []func(*awsconfig.LoadOptions) error {
	var opts []func(*awsconfig.LoadOptions) error

	if s.Region != "" {
		opts = append(opts, awsconfig.WithRegion(s.Region))
	}
	if s.AccessKeyID != "" && s.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.AccessKeyID, s.SecretAccessKey, s.SessionToken)))
	}
	if endpoint := s.Endpoint(); endpoint != "" {
		opts = append(opts, awsconfig.WithBaseEndpoint(endpoint))
	}
	if s.VerifySSL != nil && !*s.VerifySSL {
		client := awshttp.NewBuildableClient().WithTransportOptions(func(tr *http.Transport) {
			if tr.TLSClientConfig == nil {
				tr.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
			}
			tr.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec // G402: opt-in per connection
		})
		opts = append(opts, awsconfig.WithHTTPClient(client))
	}
	return opts
}

// Session returns the SDK configuration. With AWS_ASSUME_ROLE set, its
// credentials are those of the assumed AWS_ROLE_ARN.
func (s *Service) Session(ctx context.Context) (aws.Config, error) {
	return s.session.GetOrCreate(ctx, func(ctx context.Context) (aws.Config, error) {
		cfg, err := awsconfig.LoadDefaultConfig(ctx, s.LoadOptions()...)
		if err != nil {
			return aws.Config{}, errors.Wrap(err, errors.ErrorTypeConfig, "failed to load aws config")
		}

		if s.AssumeRole {
			if s.RoleARN == "" {
				return aws.Config{}, errors.New(errors.ErrorTypeMissingValue, KeyRoleARN+" is required to assume a role")
			}
			provider := stscreds.NewAssumeRoleProvider(sts.NewFromConfig(cfg), s.RoleARN,
				func(o *stscreds.AssumeRoleOptions) {
					o.RoleSessionName = s.SessionName
					if o.RoleSessionName == "" {
						o.RoleSessionName = DefaultSessionName
					}
					if s.SessionDuration > 0 {
						o.Duration = s.SessionDuration
					}
				})
			cfg.Credentials = aws.NewCredentialsCache(provider)
			s.logger.Debug("assuming role", zap.String("role_arn", s.RoleARN))
		}
		return cfg, nil
	})
}

// S3 returns an S3 client. Path-style addressing is used with a custom
// endpoint.
func (s *Service) S3(ctx context.Context) (*s3.Client, error) {
	cfg, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = s.EndpointURL != ""
	}), nil
}

// SecretsManager returns a Secrets Manager client
func (s *Service) SecretsManager(ctx context.Context) (*secretsmanager.Client, error) {
	cfg, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}
	return secretsmanager.NewFromConfig(cfg), nil
}
