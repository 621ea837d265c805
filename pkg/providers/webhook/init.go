package webhook

import (
	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/providers"
)

func init() {
	factory := func(cfg *config.AppConfig, conn *connections.Connection) (providers.Service, error) {
		return LoadFromConnection(cfg, conn)
	}

	for _, kind := range []connections.Kind{connections.KindHTTP, connections.KindWebhook} {
		_ = providers.Register(kind, factory)
		providers.RegisterInfo(&providers.Info{
			Kind:        kind,
			Description: "Generic HTTP endpoint",
			Keys:        []string{DefaultKeys.URL, DefaultKeys.Method, DefaultKeys.SessionAttrs},
		})
	}
}
