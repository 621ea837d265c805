// Package testutil provides testing utilities for vents
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
)

// TestLogger creates a test logger that writes to the test output.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// MapEnv returns a lookup function backed by env
func MapEnv(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

// AppConfig builds an AppConfig isolated from the process environment. env
// stands in for the process environment and conns becomes the catalog.
func AppConfig(t *testing.T, env map[string]string, conns ...*connections.Connection) *config.AppConfig {
	t.Helper()

	cfg, err := config.NewAppConfig(
		config.WithLogger(TestLogger(t)),
		config.WithLookupEnv(MapEnv(env)),
		config.WithConnections(conns),
	)
	require.NoError(t, err)
	return cfg
}

// MountDir writes files into a fresh directory laid out like a mounted
// secret, one file per key, and returns its path.
func MountDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

// SecretMount returns a connection of kind whose secret is mounted at dir
func SecretMount(name string, kind connections.Kind, dir string) *connections.Connection {
	return &connections.Connection{
		Name:   name,
		Kind:   kind,
		Secret: &connections.ConnectionResource{Name: name, MountPath: dir},
	}
}

// AssertEventually asserts that a condition becomes true within the specified timeout.
// It checks the condition every 10ms until it succeeds or the timeout expires.
func AssertEventually(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("condition not met within %v: %s", timeout, msg)
}
