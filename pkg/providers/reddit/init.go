package reddit

import (
	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/providers"
)

func init() {
	_ = providers.Register(connections.KindReddit, func(cfg *config.AppConfig, conn *connections.Connection) (providers.Service, error) {
		return LoadFromConnection(cfg, conn)
	})
	_ = providers.Register(connections.KindRedditRSS, func(cfg *config.AppConfig, conn *connections.Connection) (providers.Service, error) {
		return LoadRSS(cfg, conn)
	})

	providers.RegisterInfo(&providers.Info{
		Kind:        connections.KindReddit,
		Description: "Reddit script application",
		Keys:        []string{KeyClientID, KeyClientSecret, KeyUserAgent, KeyUsername, KeyPassword},
	})
	providers.RegisterInfo(&providers.Info{
		Kind:        connections.KindRedditRSS,
		Description: "Reddit RSS feed",
		Keys:        []string{KeyRSSURL},
	})
}
