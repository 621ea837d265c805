package github

import (
	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/providers"
)

func init() {
	_ = providers.Register(connections.KindGitHub, func(cfg *config.AppConfig, conn *connections.Connection) (providers.Service, error) {
		return LoadFromConnection(cfg, conn)
	})

	providers.RegisterInfo(&providers.Info{
		Kind:        connections.KindGitHub,
		Description: "GitHub or GitHub Enterprise API token",
		Keys:        []string{KeyToken, KeyHost},
	})
}
