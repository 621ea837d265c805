package all

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/providers"
	"github.com/ajitpratap0/vents/pkg/testutil"
)

func TestEveryAdapterKindRegistered(t *testing.T) {
	for _, kind := range connections.KnownKinds() {
		if kind == connections.KindEmail || kind == connections.KindTeams {
			continue
		}
		t.Run(string(kind), func(t *testing.T) {
			assert.True(t, providers.GetRegistry().Has(kind))

			info, ok := providers.GetRegistry().Info(kind)
			require.True(t, ok)
			assert.NotEmpty(t, info.Keys)
			assert.NotEmpty(t, info.Description)
		})
	}
}

func TestLoadEachKindWithoutSources(t *testing.T) {
	cfg := testutil.AppConfig(t, nil)

	for _, kind := range providers.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			svc, err := providers.GetRegistry().CreateKind(cfg, kind, nil)
			require.NoError(t, err)
			assert.NotNil(t, svc.EnvVars())
		})
	}
}

func TestLoadByName(t *testing.T) {
	conn := &connections.Connection{
		Name: "cache",
		Kind: connections.KindRedis,
		Env:  map[string]string{"REDIS_URL": "redis://cache.internal:6379/1"},
	}
	cfg := testutil.AppConfig(t, nil, conn)

	svc, err := providers.Load(cfg, "cache")
	require.NoError(t, err)
	assert.Equal(t, connections.KindRedis, svc.Kind())
	assert.Equal(t, map[string]string{"REDIS_URL": "redis://cache.internal:6379/1"}, svc.EnvVars())
}
