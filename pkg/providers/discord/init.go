package discord

import (
	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/providers"
)

func init() {
	_ = providers.Register(connections.KindDiscord, func(cfg *config.AppConfig, conn *connections.Connection) (providers.Service, error) {
		return LoadFromConnection(cfg, conn)
	})
	_ = providers.Register(connections.KindDiscordWebhook, func(cfg *config.AppConfig, conn *connections.Connection) (providers.Service, error) {
		return LoadWebhook(cfg, conn)
	})

	providers.RegisterInfo(&providers.Info{
		Kind:        connections.KindDiscord,
		Description: "Discord bot",
		Keys:        []string{KeyToken, KeyIntents},
	})
	providers.RegisterInfo(&providers.Info{
		Kind:        connections.KindDiscordWebhook,
		Description: "Discord webhook",
		Keys:        []string{KeyWebhookURL},
	})
}
