package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
)

// mapEnv is a process environment backed by a map
func mapEnv(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func newTestConfig(t *testing.T, env map[string]string, opts ...Option) *AppConfig {
	t.Helper()
	base := []Option{WithLogger(zaptest.NewLogger(t)), WithLookupEnv(mapEnv(env))}
	cfg, err := NewAppConfig(append(base, opts...)...)
	require.NoError(t, err)
	return cfg
}

func writeKeyFile(t *testing.T, dir, key, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, key), []byte(content), 0o600))
}

func TestNewAppConfigDefaults(t *testing.T) {
	cfg := newTestConfig(t, nil)

	assert.Equal(t, "VENTS", cfg.EnvPrefix)
	assert.Equal(t, "Vents", cfg.ProjectName)
	assert.Equal(t, errors.ErrorTypeMissingValue, cfg.MissingValueType)
	assert.Equal(t, "VENTS_CONNECTIONS_CATALOG", cfg.ConnectionsCatalogEnvName())
	assert.Nil(t, cfg.Catalog())
}

func TestNewAppConfigOptions(t *testing.T) {
	cfg := newTestConfig(t, nil,
		WithEnvPrefix(""),
		WithProject("Acme", "https://acme.example.com", "https://acme.example.com/icon.png"),
		WithMissingValueType(errors.ErrorTypeConfig),
	)

	assert.Empty(t, cfg.EnvPrefix)
	assert.Equal(t, "CONNECTIONS_CATALOG", cfg.ConnectionsCatalogEnvName())
	assert.Equal(t, "Acme", cfg.ProjectName)
	assert.Equal(t, "https://acme.example.com", cfg.ProjectURL)
	assert.Equal(t, errors.ErrorTypeConfig, cfg.MissingValueType)
}

func TestReadKeysPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeKeyFile(t, dir, "API_KEY", "from-path")

	env := map[string]string{"API_KEY": "from-os-env"}
	schema := map[string]string{"API_KEY": "from-schema"}
	inline := map[string]string{"API_KEY": "from-inline-env"}

	tests := []struct {
		name string
		opts []ReadOption
		want string
	}{
		{
			name: "path wins over everything",
			opts: []ReadOption{WithContextPaths(dir), WithSchema(schema), WithEnv(inline)},
			want: "from-path",
		},
		{
			name: "schema wins over env",
			opts: []ReadOption{WithSchema(schema), WithEnv(inline)},
			want: "from-schema",
		},
		{
			name: "inline env wins over process env",
			opts: []ReadOption{WithEnv(inline)},
			want: "from-inline-env",
		},
		{
			name: "process env last",
			want: "from-os-env",
		},
		{
			name: "missing path falls through to schema",
			opts: []ReadOption{WithContextPaths(filepath.Join(dir, "absent")), WithSchema(schema)},
			want: "from-schema",
		},
	}

	cfg := newTestConfig(t, env)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := cfg.ReadKeys([]string{"API_KEY"}, tt.opts...)
			require.True(t, v.Found())
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestReadKeysPrefixFallback(t *testing.T) {
	cfg := newTestConfig(t, map[string]string{"VENTS_FOO": "bar"})

	assert.Equal(t, "bar", cfg.ReadKeys([]string{"FOO"}).String())
}

func TestReadKeysBareBeatsPrefixed(t *testing.T) {
	cfg := newTestConfig(t, map[string]string{"FOO": "bare", "VENTS_FOO": "prefixed"})

	assert.Equal(t, "bare", cfg.ReadKeys([]string{"FOO"}).String())
}

func TestReadKeysEmptyBareFallsThrough(t *testing.T) {
	cfg := newTestConfig(t, map[string]string{"FOO": "", "VENTS_FOO": "x"})

	assert.Equal(t, "x", cfg.ReadKeys([]string{"FOO"}).String())
}

func TestReadKeysNoPrefix(t *testing.T) {
	cfg := newTestConfig(t, map[string]string{"VENTS_FOO": "bar"}, WithEnvPrefix(""))

	assert.False(t, cfg.ReadKeys([]string{"FOO"}).Found())
}

func TestReadKeysBooleanCoercion(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{raw: "true", want: true},
		{raw: "TRUE", want: true},
		{raw: "True", want: true},
		{raw: "false", want: false},
		{raw: "FALSE", want: false},
		{raw: "fAlSe", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			dir := t.TempDir()
			writeKeyFile(t, dir, "FLAG", tt.raw)
			cfg := newTestConfig(t, map[string]string{"VENTS_FLAG": tt.raw})

			sources := map[string]Value{
				"path":     cfg.ReadKeys([]string{"FLAG"}, WithContextPaths(dir)),
				"schema":   cfg.ReadKeys([]string{"FLAG"}, WithSchema(map[string]string{"FLAG": tt.raw})),
				"env":      cfg.ReadKeys([]string{"FLAG"}, WithEnv(map[string]string{"FLAG": tt.raw})),
				"prefixed": cfg.ReadKeys([]string{"FLAG"}),
			}
			for source, v := range sources {
				b, ok := v.Bool()
				assert.True(t, ok, source)
				assert.Equal(t, tt.want, b, source)
			}
		})
	}

	cfg := newTestConfig(t, map[string]string{"FLAG": "yes"})
	v := cfg.ReadKeys([]string{"FLAG"})
	assert.False(t, v.IsBool())
	assert.Equal(t, "yes", v.String())
}

func TestReadKeysSchemaCheckedBeforeEnv(t *testing.T) {
	cfg := newTestConfig(t, map[string]string{"A": "env-a"})

	v := cfg.ReadKeys([]string{"A", "B"}, WithSchema(map[string]string{"B": "schema-b"}))
	assert.Equal(t, "schema-b", v.String())
}

func TestReadKeysSourceMajorOrder(t *testing.T) {
	dir := t.TempDir()
	writeKeyFile(t, dir, "b", "path-b")

	cfg := newTestConfig(t, map[string]string{"A": "env-a"})
	v := cfg.ReadKeys([]string{"A", "B"}, WithContextPaths(dir))
	assert.Equal(t, "path-b", v.String())
}

func TestReadKeysFileScenarios(t *testing.T) {
	dir := t.TempDir()
	writeKeyFile(t, dir, "TEST_KEY_1", "value1")
	writeKeyFile(t, dir, "EMPTY", "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "NESTED"), 0o700))

	cfg := newTestConfig(t, map[string]string{"TEST_KEY_2": "value2", "EMPTY": "from-env"})

	tests := []struct {
		name  string
		keys  []string
		found bool
		want  string
	}{
		{name: "lowercase key matches uppercase file", keys: []string{"test_key_1"}, found: true, want: "value1"},
		{name: "collapsed spelling does not match underscored file", keys: []string{"testkey1"}},
		{name: "env fallback", keys: []string{"test_key_2"}, found: true, want: "value2"},
		{name: "empty file falls through to env", keys: []string{"EMPTY"}, found: true, want: "from-env"},
		{name: "directory is not a value", keys: []string{"NESTED"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := cfg.ReadKeys(tt.keys, WithContextPaths(filepath.Join(dir, "missing"), dir))
			assert.Equal(t, tt.found, v.Found())
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestReadKeysFromEnvVariants(t *testing.T) {
	cfg := newTestConfig(t, map[string]string{"KEY": "process"})

	assert.Equal(t, "process", cfg.ReadKeysFromEnv([]string{"KEY"}, nil).String())
	assert.Equal(t, "inline", cfg.ReadKeysFromEnv([]string{"KEY"}, map[string]string{"KEY": "inline"}).String())
	assert.Equal(t, "prefixed", cfg.ReadKeysFromEnv([]string{"KEY"}, map[string]string{"VENTS_KEY": "prefixed"}).String())
	assert.False(t, cfg.ReadKeysFromEnv([]string{"key"}, nil).Found(), "keys are used as given")
}

func TestRequireKeys(t *testing.T) {
	cfg := newTestConfig(t, map[string]string{"PRESENT": "1"})

	v, err := cfg.RequireKeys([]string{"PRESENT"})
	require.NoError(t, err)
	assert.Equal(t, "1", v.String())

	_, err = cfg.RequireKeys([]string{"ABSENT"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeMissingValue))

	custom := newTestConfig(t, nil, WithMissingValueType(errors.ErrorTypeConfig))
	_, err = custom.RequireKeys([]string{"ABSENT"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestCatalogFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"connections": [{"name": "c1", "kind": "slack"}]}`), 0o600))

	cfg := newTestConfig(t, map[string]string{"VENTS_CONNECTIONS_CATALOG": path})

	conn := cfg.GetConnectionFor("c1")
	require.NotNil(t, conn)
	assert.Equal(t, connections.KindSlack, conn.Kind)
	assert.Nil(t, cfg.GetConnectionFor("c2"))
	assert.Nil(t, cfg.GetConnectionFor(""))
}

func TestCatalogMissing(t *testing.T) {
	cfg := newTestConfig(t, nil)

	assert.Nil(t, cfg.Catalog())
	assert.NotPanics(t, func() {
		assert.Nil(t, cfg.GetConnectionFor("any"))
	})

	catalog, err := cfg.LoadConnectionsCatalog()
	assert.NoError(t, err)
	assert.Nil(t, catalog)
}

func TestCatalogInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"connections": [`), 0o600))
	env := map[string]string{"VENTS_CONNECTIONS_CATALOG": path}

	cfg := newTestConfig(t, env)
	assert.Nil(t, cfg.Catalog())

	_, err := NewAppConfig(WithLookupEnv(mapEnv(env)), WithLogger(zaptest.NewLogger(t)), WithRequireCatalog())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfigParse))
}

func TestCatalogFileOption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("connections:\n  - name: pg\n    kind: postgres\n"), 0o600))

	cfg := newTestConfig(t, nil, WithCatalogFile(path))
	require.NotNil(t, cfg.GetConnectionFor("pg"))
}

func TestSetConnectionsCatalog(t *testing.T) {
	cfg := newTestConfig(t, nil)

	cfg.SetConnectionsCatalog([]*connections.Connection{
		{Name: "a", Kind: connections.KindRedis},
		{Name: "a", Kind: connections.KindPostgres},
	})
	require.NotNil(t, cfg.Catalog())
	assert.Equal(t, connections.KindPostgres, cfg.GetConnectionFor("a").Kind)

	cfg.SetConnectionsCatalog(nil)
	assert.Nil(t, cfg.Catalog())

	cfg.SetConnectionsCatalog([]*connections.Connection{})
	assert.Nil(t, cfg.Catalog())

	catalog := connections.NewConnectionCatalog([]*connections.Connection{{Name: "b", Kind: connections.KindKafka}})
	cfg.SetCatalog(catalog)
	assert.Same(t, catalog, cfg.Catalog())
}

func TestReloadConnectionsCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	env := map[string]string{}
	cfg := newTestConfig(t, env)
	require.Nil(t, cfg.Catalog())

	require.NoError(t, os.WriteFile(path, []byte(`{"connections": [{"name": "late", "kind": "http"}]}`), 0o600))
	env["VENTS_CONNECTIONS_CATALOG"] = path
	require.NoError(t, cfg.ReloadConnectionsCatalog())
	assert.NotNil(t, cfg.GetConnectionFor("late"))

	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o600))
	require.Error(t, cfg.ReloadConnectionsCatalog())
	assert.NotNil(t, cfg.GetConnectionFor("late"), "failed reload keeps the current catalog")
}

func TestCatalogConcurrentSwap(t *testing.T) {
	cfg := newTestConfig(t, nil)
	conns := []*connections.Connection{{Name: "x", Kind: connections.KindHTTP}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cfg.SetConnectionsCatalog(conns)
				cfg.SetConnectionsCatalog(nil)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if conn := cfg.GetConnectionFor("x"); conn != nil {
					assert.Equal(t, "x", conn.Name)
				}
			}
		}()
	}
	wg.Wait()
}

func TestNewDefaultFallsBackWithoutCatalog(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")
	opts := []Option{
		WithLogger(zaptest.NewLogger(t)),
		WithLookupEnv(mapEnv(nil)),
		WithCatalogFile(missing),
		WithRequireCatalog(),
	}

	_, err := NewAppConfig(opts...)
	require.Error(t, err)

	cfg := newDefault(opts...)
	require.NotNil(t, cfg)
	assert.Nil(t, cfg.Catalog())
	assert.Nil(t, cfg.GetConnectionFor("anything"))
}

func TestDefault(t *testing.T) {
	custom := newTestConfig(t, nil, WithEnvPrefix("ACME"))
	SetDefault(custom)

	assert.Same(t, custom, Default())
	assert.Equal(t, "ACME", Default().EnvPrefix)
}
