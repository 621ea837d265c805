package slack

import (
	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/providers"
)

func init() {
	_ = providers.Register(connections.KindSlack, func(cfg *config.AppConfig, conn *connections.Connection) (providers.Service, error) {
		return LoadFromConnection(cfg, conn)
	})
	_ = providers.Register(connections.KindSlackWebhook, func(cfg *config.AppConfig, conn *connections.Connection) (providers.Service, error) {
		return LoadHTTPWebhook(cfg, conn)
	})

	providers.RegisterInfo(&providers.Info{
		Kind:        connections.KindSlack,
		Description: "Slack Web API bot token",
		Keys:        []string{KeyToken},
	})
	providers.RegisterInfo(&providers.Info{
		Kind:        connections.KindSlackWebhook,
		Description: "Slack incoming webhook",
		Keys:        []string{KeyURL, KeyMethod, KeySessionAttrs},
	})
}
