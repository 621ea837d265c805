// Package kafka loads broker addresses and SASL credentials from a
// connection and builds a sarama client with them.
package kafka

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
	"github.com/ajitpratap0/vents/pkg/providers"
)

// Resolved variable names and defaults
const (
	KeyBrokers       = "KAFKA_BROKERS"
	KeySASLUsername  = "KAFKA_SASL_USERNAME"
	KeySASLPassword  = "KAFKA_SASL_PASSWORD"
	KeySASLMechanism = "KAFKA_SASL_MECHANISM"
	KeyTLS           = "KAFKA_TLS"
	KeyClientID      = "KAFKA_CLIENT_ID"

	DefaultClientID = "vents"
)

// Supported SASL mechanisms
const (
	MechanismPlain       = "PLAIN"
	MechanismSCRAMSHA256 = "SCRAM-SHA-256"
	MechanismSCRAMSHA512 = "SCRAM-SHA-512"
)

// Service holds resolved Kafka settings
type Service struct {
	Brokers  []string
	Username string
	Password string
	// Mechanism defaults to PLAIN when a username is set
	Mechanism string
	TLS       bool
	ClientID  string

	logger  *zap.Logger
	session *providers.Session[sarama.Client]
}

// LoadFromConnection resolves the service from conn's secret and config map
// mounts, schema and env. conn may be nil.
func LoadFromConnection(cfg *config.AppConfig, conn *connections.Connection) (*Service, error) {
	pctx := providers.ContextFromConnection(conn)

	brokers, err := pctx.Read(cfg, KeyBrokers).Strings()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "invalid "+KeyBrokers)
	}

	s := &Service{
		Brokers:   brokers,
		Username:  pctx.Read(cfg, KeySASLUsername).String(),
		Password:  pctx.Read(cfg, KeySASLPassword).String(),
		Mechanism: strings.ToUpper(pctx.Read(cfg, KeySASLMechanism).String()),
		TLS:       pctx.Read(cfg, KeyTLS).BoolOr(false),
		ClientID:  pctx.Read(cfg, KeyClientID).StringOr(DefaultClientID),
		logger:    cfg.Logger().With(zap.String("provider", "kafka")),
		session:   providers.NewSession[sarama.Client](connections.KindKafka),
	}
	switch s.Mechanism {
	case "", MechanismPlain, MechanismSCRAMSHA256, MechanismSCRAMSHA512:
	default:
		return nil, errors.Newf(errors.ErrorTypeValidation, "unsupported %s %q", KeySASLMechanism, s.Mechanism)
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
func (s *Service) Kind() connections.Kind { return connections.KindKafka }

// EnvVars returns the resolved variables that are set
func (s *Service) EnvVars() map[string]string {
	vars := providers.EnvVars(
		KeyBrokers, strings.Join(s.Brokers, ","),
		KeySASLUsername, s.Username,
		KeySASLPassword, s.Password,
		KeySASLMechanism, s.Mechanism,
	)
	if s.TLS {
		vars[KeyTLS] = "true"
	}
	return vars
}

// SetEnvVars exports EnvVars to the process environment
func (s *Service) SetEnvVars() error {
	return providers.SetEnv(s.EnvVars())
}

// SaramaConfig builds and validates the client configuration
func (s *Service) SaramaConfig() (*sarama.Config, error) {
	sc := sarama.NewConfig()
	sc.ClientID = s.ClientID
	if sc.ClientID == "" {
		sc.ClientID = DefaultClientID
	}

	if s.TLS {
		sc.Net.TLS.Enable = true
		sc.Net.TLS.Config = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	if s.Username != "" {
		sc.Net.SASL.Enable = true
		sc.Net.SASL.User = s.Username
		sc.Net.SASL.Password = s.Password

		switch s.Mechanism {
		case MechanismSCRAMSHA256:
			sc.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA256
			sc.Net.SASL.SCRAMClientGeneratorFunc = func() sarama.SCRAMClient {
				return &scramClient{HashGeneratorFcn: sha256Generator}
			}
		case MechanismSCRAMSHA512:
			sc.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA512
			sc.Net.SASL.SCRAMClientGeneratorFunc = func() sarama.SCRAMClient {
				return &scramClient{HashGeneratorFcn: sha512Generator}
			}
		default:
			sc.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		}
	}

	if err := sc.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid Kafka configuration")
	}
	return sc, nil
}

// Session returns a client connected to the brokers
func (s *Service) Session(ctx context.Context) (sarama.Client, error) {
	return s.session.GetOrCreate(ctx, func(context.Context) (sarama.Client, error) {
		if len(s.Brokers) == 0 {
			return nil, errors.New(errors.ErrorTypeMissingValue, KeyBrokers+" is not set")
		}
		sc, err := s.SaramaConfig()
		if err != nil {
			return nil, err
		}
		client, err := sarama.NewClient(s.Brokers, sc)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to create Kafka client").
				WithDetail("brokers", s.Brokers)
		}
		s.logger.Info("Kafka client connected",
			zap.Strings("brokers", s.Brokers),
			zap.Bool("tls", s.TLS),
			zap.String("sasl_mechanism", string(sc.Net.SASL.Mechanism)))
		return client, nil
	})
}

// Close releases the cached session, if any
func (s *Service) Close() error {
	return s.session.CloseWith(func(client sarama.Client) error { return client.Close() })
}
