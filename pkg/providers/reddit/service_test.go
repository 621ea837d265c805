package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
	"github.com/ajitpratap0/vents/pkg/testutil"
)

func TestLoadFromConnection(t *testing.T) {
	secret := testutil.MountDir(t, map[string]string{
		"REDDIT_CLIENT_ID":     "cid",
		"reddit_client_secret": "csecret",
		"REDDIT_PASSWORD":      "hunter2",
	})
	conn := &connections.Connection{
		Name:   "reddit",
		Kind:   connections.KindReddit,
		Secret: &connections.ConnectionResource{MountPath: secret},
		Schema: map[string]any{"REDDIT_USER_AGENT": "vents-bot/1.0"},
		Env:    map[string]string{"REDDIT_USERNAME": "vents"},
	}
	cfg := testutil.AppConfig(t, nil, conn)

	svc, err := LoadFromCatalog(cfg, "reddit")
	require.NoError(t, err)
	assert.Equal(t, "cid", svc.ClientID)
	assert.Equal(t, "csecret", svc.ClientSecret)
	assert.Equal(t, "vents-bot/1.0", svc.UserAgent)
	assert.Equal(t, "vents", svc.Username)
	assert.Equal(t, "hunter2", svc.Password)
	assert.Len(t, svc.EnvVars(), 5)
}

func TestSetEnvVarsSkipsEmpty(t *testing.T) {
	for _, k := range []string{KeyClientID, KeyClientSecret, KeyUserAgent, KeyUsername, KeyPassword} {
		t.Setenv(k, "")
	}

	svc := &Service{ClientID: "cid", Username: "vents"}
	require.NoError(t, svc.SetEnvVars())
	assert.Equal(t, "cid", os.Getenv(KeyClientID))
	assert.Equal(t, "vents", os.Getenv(KeyUsername))
	assert.Empty(t, os.Getenv(KeyPassword))
}

func TestSession(t *testing.T) {
	var grantType, agent, auth string
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		grantType = r.PostForm.Get("grant_type")
		agent = r.Header.Get("User-Agent")
		user, _, _ := r.BasicAuth()
		assert.Equal(t, "cid", user)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/api/v1/me", func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := testutil.AppConfig(t, map[string]string{
		KeyClientID:     "cid",
		KeyClientSecret: "csecret",
		KeyUserAgent:    "vents-bot/1.0",
		KeyUsername:     "vents",
		KeyPassword:     "hunter2",
	})
	svc, err := LoadFromConnection(cfg, nil)
	require.NoError(t, err)
	svc.TokenURL = server.URL + "/token"

	client, err := svc.Session(context.Background())
	require.NoError(t, err)

	resp, err := client.Get(server.URL + "/api/v1/me")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "password", grantType)
	assert.Equal(t, "vents-bot/1.0", agent)
	assert.Equal(t, "Bearer tok-1", auth)
}

func TestSessionMissingCredentials(t *testing.T) {
	svc, err := LoadFromConnection(testutil.AppConfig(t, nil), nil)
	require.NoError(t, err)

	_, err = svc.Session(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConnection))
}

func TestLoadRSS(t *testing.T) {
	svc, err := LoadRSS(testutil.AppConfig(t, nil), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultRSSURL, svc.URL)
	assert.Equal(t, http.MethodGet, svc.Method)
	assert.Equal(t, connections.KindRedditRSS, svc.Kind())

	urlDir := testutil.MountDir(t, map[string]string{"REDDIT_RSS_URL": "https://www.reddit.com/r/golang.rss"})
	conn := &connections.Connection{Name: "rss", Kind: connections.KindRedditRSS, Secret: &connections.ConnectionResource{URL: urlDir}}
	svc, err = LoadRSS(testutil.AppConfig(t, nil), conn)
	require.NoError(t, err)
	assert.Equal(t, "https://www.reddit.com/r/golang.rss", svc.URL)
}
