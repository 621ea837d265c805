package aws

import (
	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/providers"
)

func init() {
	factory := func(cfg *config.AppConfig, conn *connections.Connection) (providers.Service, error) {
		return LoadFromConnection(cfg, conn)
	}

	_ = providers.Register(connections.KindAWS, factory)
	_ = providers.Register(connections.KindS3, factory)

	providers.RegisterInfo(&providers.Info{
		Kind:        connections.KindAWS,
		Description: "Amazon Web Services credentials",
		Keys:        Keys,
	})
	providers.RegisterInfo(&providers.Info{
		Kind:        connections.KindS3,
		Description: "Amazon S3 or an S3-compatible store",
		Keys:        Keys,
	})
}
