package kafka

import (
	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/providers"
)

func init() {
	_ = providers.Register(connections.KindKafka, func(cfg *config.AppConfig, conn *connections.Connection) (providers.Service, error) {
		return LoadFromConnection(cfg, conn)
	})

	providers.RegisterInfo(&providers.Info{
		Kind:        connections.KindKafka,
		Description: "Apache Kafka",
		Keys:        []string{KeyBrokers, KeySASLUsername, KeySASLPassword, KeySASLMechanism, KeyTLS, KeyClientID},
	})
}
