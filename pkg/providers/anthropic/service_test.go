package anthropic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/testutil"
)

func TestLoadFromConnection(t *testing.T) {
	secret := testutil.MountDir(t, map[string]string{"anthropic_api_key": "sk-ant-secret"})
	conn := &connections.Connection{
		Name:   "claude",
		Kind:   connections.KindAnthropic,
		Secret: &connections.ConnectionResource{MountPath: secret},
		Env:    map[string]string{"ANTHROPIC_KWARGS": `{"version":"2024-01-01"}`},
	}
	cfg := testutil.AppConfig(t, map[string]string{"ANTHROPIC_API_KEY": "sk-ant-env"}, conn)

	svc, err := LoadFromCatalog(cfg, "claude")
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-secret", svc.APIKey, "mounted secret wins over the environment")
	assert.Equal(t, map[string]any{"version": "2024-01-01"}, svc.Kwargs)

	hc := svc.HTTPConfig()
	assert.Equal(t, "x-api-key", hc.APIKeyHeader)
	assert.Equal(t, "sk-ant-secret", hc.APIKey)
	assert.Equal(t, "2024-01-01", hc.Headers["anthropic-version"])
}

func TestSetEnvVars(t *testing.T) {
	t.Setenv(KeyAPIKey, "")
	t.Setenv(KeyKwargs, "")

	svc := &Service{APIKey: "sk-ant"}
	require.NoError(t, svc.SetEnvVars())
	assert.Equal(t, "sk-ant", os.Getenv(KeyAPIKey))
	assert.Empty(t, os.Getenv(KeyKwargs))
}

func TestSession(t *testing.T) {
	var key, version string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get("x-api-key")
		version = r.Header.Get("anthropic-version")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testutil.AppConfig(t, map[string]string{
		KeyAPIKey: "sk-ant",
		KeyKwargs: `{"base_url":"` + server.URL + `"}`,
	})
	svc, err := LoadFromConnection(cfg, nil)
	require.NoError(t, err)
	defer svc.Close()

	client, err := svc.Session(context.Background())
	require.NoError(t, err)

	resp, err := client.Get(context.Background(), "messages", nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "sk-ant", key)
	assert.Equal(t, DefaultVersion, version)
}
