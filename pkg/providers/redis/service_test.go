package redis

import (
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
	"github.com/ajitpratap0/vents/pkg/testutil"
)

func TestOptions(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		wantAddr string
		wantDB   int
		wantPass string
		wantErr  errors.ErrorType
	}{
		{
			name:     "url with db and password",
			env:      map[string]string{KeyURL: "redis://:inline@cache.internal:6380/2"},
			wantAddr: "cache.internal:6380",
			wantDB:   2,
			wantPass: "inline",
		},
		{
			name:     "password key overrides url",
			env:      map[string]string{KeyURL: "redis://:inline@cache.internal:6379", "VENTS_REDIS_PASSWORD": "mounted"},
			wantAddr: "cache.internal:6379",
			wantPass: "mounted",
		},
		{
			name:    "missing url",
			wantErr: errors.ErrorTypeMissingValue,
		},
		{
			name:    "unsupported scheme",
			env:     map[string]string{KeyURL: "http://cache.internal"},
			wantErr: errors.ErrorTypeConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := LoadFromConnection(testutil.AppConfig(t, tt.env), nil)
			require.NoError(t, err)

			opts, err := svc.Options()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAddr, opts.Addr)
			assert.Equal(t, tt.wantDB, opts.DB)
			assert.Equal(t, tt.wantPass, opts.Password)
		})
	}
}

func TestSession(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")

	dir := testutil.MountDir(t, map[string]string{
		"REDIS_URL":      fmt.Sprintf("redis://%s/0", mr.Addr()),
		"REDIS_PASSWORD": "s3cret",
	})
	conn := testutil.SecretMount("cache", connections.KindRedis, dir)
	svc, err := LoadFromCatalog(testutil.AppConfig(t, nil, conn), "cache")
	require.NoError(t, err)

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	client, err := svc.Session(ctx)
	require.NoError(t, err)
	require.NoError(t, client.Set(ctx, "vents", "ok", 0).Err())

	got, err := mr.Get("vents")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)

	assert.NoError(t, svc.Close())
}

func TestSessionPingFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")

	svc, err := LoadFromConnection(testutil.AppConfig(t, map[string]string{
		KeyURL: fmt.Sprintf("redis://%s", mr.Addr()),
	}), nil)
	require.NoError(t, err)

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	_, err = svc.Session(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConnection))

	_, built := svc.session.Get()
	assert.False(t, built)
}
