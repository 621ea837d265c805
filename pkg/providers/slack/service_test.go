package slack

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/testutil"
)

func TestLoadFromConnection(t *testing.T) {
	secret := testutil.MountDir(t, map[string]string{"slack_token": "xoxb-mounted"})

	tests := []struct {
		name string
		conn *connections.Connection
		env  map[string]string
		want string
	}{
		{
			name: "secret mount",
			conn: testutil.SecretMount("slack", connections.KindSlack, secret),
			env:  map[string]string{"SLACK_TOKEN": "xoxb-env"},
			want: "xoxb-mounted",
		},
		{
			name: "config map mount is not read",
			conn: &connections.Connection{
				Name:      "slack",
				Kind:      connections.KindSlack,
				ConfigMap: &connections.ConnectionResource{MountPath: secret},
			},
			want: "",
		},
		{
			name: "prefixed environment",
			env:  map[string]string{"VENTS_SLACK_TOKEN": "xoxb-prefixed"},
			want: "xoxb-prefixed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := LoadFromConnection(testutil.AppConfig(t, tt.env), tt.conn)
			require.NoError(t, err)
			assert.Equal(t, tt.want, svc.Token)
		})
	}
}

func TestSetEnvVars(t *testing.T) {
	t.Setenv(KeyToken, "")

	require.NoError(t, (&Service{}).SetEnvVars())
	assert.Empty(t, os.Getenv(KeyToken))

	require.NoError(t, (&Service{Token: "xoxb-1"}).SetEnvVars())
	assert.Equal(t, "xoxb-1", os.Getenv(KeyToken))
}

func TestSession(t *testing.T) {
	cfg := testutil.AppConfig(t, map[string]string{KeyToken: "xoxb-1"})
	svc, err := LoadFromConnection(cfg, nil)
	require.NoError(t, err)
	defer svc.Close()

	client, err := svc.Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, client.BaseURL())
	assert.Equal(t, "xoxb-1", client.Config().BearerToken)
}

func TestLoadWebhooks(t *testing.T) {
	urlDir := testutil.MountDir(t, map[string]string{
		"SLACK_URL":           "https://hooks.slack.com/services/T/B/X",
		"slack_method":        "put",
		"SLACK_SESSION_ATTRS": `{"timeout": 3}`,
	})
	conn := &connections.Connection{
		Name:   "alerts",
		Kind:   connections.KindSlackWebhook,
		Secret: &connections.ConnectionResource{URL: urlDir},
	}
	cfg := testutil.AppConfig(t, nil, conn)

	hook, err := LoadWebhook(cfg, conn)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.slack.com/services/T/B/X", hook.URL)
	assert.Equal(t, http.MethodPost, hook.Method)
	assert.Nil(t, hook.SessionAttrs)
	assert.Equal(t, map[string]string{KeyURL: hook.URL}, hook.EnvVars())

	httpHook, err := LoadHTTPWebhook(cfg, conn)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, httpHook.Method)
	require.NotNil(t, httpHook.SessionAttrs)
	assert.Equal(t, float64(3), httpHook.SessionAttrs.Timeout)
	assert.Equal(t, connections.KindSlackWebhook, httpHook.Kind())
}
