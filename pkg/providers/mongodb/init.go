package mongodb

import (
	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/providers"
)

func init() {
	_ = providers.Register(connections.KindMongoDB, func(cfg *config.AppConfig, conn *connections.Connection) (providers.Service, error) {
		return LoadFromConnection(cfg, conn)
	})

	providers.RegisterInfo(&providers.Info{
		Kind:        connections.KindMongoDB,
		Description: "MongoDB database",
		Keys:        []string{KeyURI, KeyDatabase},
	})
}
