package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
	"github.com/ajitpratap0/vents/pkg/testutil"
)

func TestLoadFromConnection(t *testing.T) {
	urlDir := testutil.MountDir(t, map[string]string{"http_url": "https://hooks.example.com/a"})
	secretDir := testutil.MountDir(t, map[string]string{
		"HTTP_URL":    "https://ignored.example.com",
		"HTTP_METHOD": "put",
	})
	conn := &connections.Connection{
		Name:   "hook",
		Kind:   connections.KindWebhook,
		Secret: &connections.ConnectionResource{MountPath: secretDir, URL: urlDir},
		Schema: map[string]any{"HTTP_SESSION_ATTRS": map[string]any{
			"headers": map[string]any{"X-Team": "infra"},
			"timeout": 5,
			"verify":  false,
		}},
	}
	cfg := testutil.AppConfig(t, nil, conn)

	svc, err := LoadFromCatalog(cfg, "hook")
	require.NoError(t, err)

	assert.Equal(t, connections.KindWebhook, svc.Kind())
	assert.Equal(t, "https://hooks.example.com/a", svc.URL)
	assert.Equal(t, http.MethodPut, svc.Method)
	require.NotNil(t, svc.SessionAttrs)
	assert.Equal(t, map[string]string{"X-Team": "infra"}, svc.SessionAttrs.Headers)

	hc := svc.HTTPConfig()
	assert.Equal(t, "infra", hc.Headers["X-Team"])
	assert.Equal(t, 5*time.Second, hc.RequestTimeout)
	assert.True(t, hc.InsecureSkipVerify)

	vars := svc.EnvVars()
	assert.Equal(t, "https://hooks.example.com/a", vars["HTTP_URL"])
	assert.Equal(t, "PUT", vars["HTTP_METHOD"])
	assert.Contains(t, vars["HTTP_SESSION_ATTRS"], `"X-Team":"infra"`)
}

func TestLoadFromConnectionNil(t *testing.T) {
	cfg := testutil.AppConfig(t, map[string]string{"VENTS_HTTP_URL": "https://env.example.com"})

	svc, err := LoadFromConnection(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, connections.KindHTTP, svc.Kind())
	assert.Equal(t, "https://env.example.com", svc.URL)
	assert.Equal(t, http.MethodPost, svc.Method)
	assert.Nil(t, svc.SessionAttrs)
}

func TestLoadInvalidSessionAttrs(t *testing.T) {
	cfg := testutil.AppConfig(t, map[string]string{"HTTP_SESSION_ATTRS": "{not json"})

	_, err := LoadFromConnection(cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestLoadFromCatalogMissing(t *testing.T) {
	cfg := testutil.AppConfig(t, nil)

	_, err := LoadFromCatalog(cfg, "nope")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestExecute(t *testing.T) {
	var gotMethod, gotBody, gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeader = r.Header.Get("X-Team")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	cfg := testutil.AppConfig(t, map[string]string{
		"HTTP_URL":           server.URL,
		"HTTP_SESSION_ATTRS": `{"headers": {"X-Team": "infra"}}`,
	})
	svc, err := LoadFromConnection(cfg, nil)
	require.NoError(t, err)
	defer svc.Close()

	resp, err := svc.Execute(context.Background(), []byte(`{"text":"deployed"}`))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, `{"text":"deployed"}`, gotBody)
	assert.Equal(t, "infra", gotHeader)
}

func TestSessionWithoutURL(t *testing.T) {
	cfg := testutil.AppConfig(t, nil)
	svc, err := LoadFromConnection(cfg, nil)
	require.NoError(t, err)

	_, err = svc.Session(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConnection))
}
