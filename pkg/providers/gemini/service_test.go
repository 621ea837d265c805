package gemini

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
	"github.com/ajitpratap0/vents/pkg/testutil"
)

func TestLoadFromConnection(t *testing.T) {
	conn := &connections.Connection{
		Name: "gemini",
		Kind: connections.KindGemini,
		Schema: map[string]any{
			"gemini_api_key": "AIza-schema",
			"GEMINI_KWARGS":  map[string]any{"api_version": "v1"},
		},
	}
	cfg := testutil.AppConfig(t, map[string]string{"GEMINI_API_KEY": "AIza-env"}, conn)

	svc, err := LoadFromCatalog(cfg, "gemini")
	require.NoError(t, err)
	assert.Equal(t, "AIza-schema", svc.APIKey)
	require.NotNil(t, svc.Kwargs)
	assert.Equal(t, "v1", svc.Kwargs.APIVersion)

	cc := svc.ClientConfig()
	assert.Equal(t, genai.BackendGeminiAPI, cc.Backend)
	assert.Equal(t, "AIza-schema", cc.APIKey)
	assert.Equal(t, "v1", cc.HTTPOptions.APIVersion)
}

func TestSetEnvVars(t *testing.T) {
	t.Setenv(KeyAPIKey, "")
	t.Setenv(KeyKwargs, "")

	svc := &Service{APIKey: "AIza", Kwargs: &Kwargs{BaseURL: "https://proxy.internal"}}
	require.NoError(t, svc.SetEnvVars())

	assert.Equal(t, "AIza", os.Getenv(KeyAPIKey))
	assert.JSONEq(t, `{"base_url":"https://proxy.internal"}`, os.Getenv(KeyKwargs))
}

func TestSession(t *testing.T) {
	cfg := testutil.AppConfig(t, map[string]string{"VENTS_GEMINI_API_KEY": "AIza-test"})
	svc, err := LoadFromConnection(cfg, nil)
	require.NoError(t, err)

	client, err := svc.Session(context.Background())
	require.NoError(t, err)
	require.NotNil(t, client)

	again, err := svc.Session(context.Background())
	require.NoError(t, err)
	assert.Same(t, client, again)
}

func TestSessionWithoutKey(t *testing.T) {
	svc, err := LoadFromConnection(testutil.AppConfig(t, nil), nil)
	require.NoError(t, err)

	_, err = svc.Session(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConnection))
}
