package gcp

import (
	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/providers"
)

func init() {
	factory := func(cfg *config.AppConfig, conn *connections.Connection) (providers.Service, error) {
		return LoadFromConnection(cfg, conn)
	}

	for kind, desc := range map[connections.Kind]string{
		connections.KindGCP:      "Google Cloud credentials",
		connections.KindGCS:      "Google Cloud Storage",
		connections.KindBigQuery: "Google BigQuery",
	} {
		_ = providers.Register(kind, factory)
		providers.RegisterInfo(&providers.Info{Kind: kind, Description: desc, Keys: Keys})
	}
}
