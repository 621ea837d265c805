package config

import (
	"os"
	"path/filepath"
)

// ReadKeysFromPath looks for one file per key under the context paths. Keys
// are tried in order, and for each key the paths in order; the first regular
// file with non-empty content wins. Paths that are not existing directories
// are skipped, and any filesystem error counts as not found. Keys are used as
// given.
func ReadKeysFromPath(contextPaths []string, keys []string) Value {
	dirs := make([]string, 0, len(contextPaths))
	for _, p := range contextPaths {
		if p == "" {
			continue
		}
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			dirs = append(dirs, p)
		}
	}
	if len(dirs) == 0 {
		return Value{}
	}

	for _, key := range keys {
		if key == "" {
			continue
		}
		for _, dir := range dirs {
			keyPath := filepath.Join(dir, key)
			info, err := os.Stat(keyPath)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			data, err := os.ReadFile(keyPath) //nolint:gosec // G304: mount paths come from the connection catalog
			if err != nil {
				continue
			}
			if v := Coerce(string(data)); v.Found() {
				return v
			}
		}
	}
	return Value{}
}

// ReadKeysFromSchema returns the first key with a non-empty value in schema.
// Keys are used as given.
func ReadKeysFromSchema(schema map[string]string, keys []string) Value {
	if len(schema) == 0 {
		return Value{}
	}
	for _, key := range keys {
		if v := Coerce(schema[key]); v.Found() {
			return v
		}
	}
	return Value{}
}

// ReadKeysFromEnv looks each key up in env, first bare and then as
// {EnvPrefix}_{key}. A nil or empty env means the process environment. Keys
// are used as given.
func (c *AppConfig) ReadKeysFromEnv(keys []string, env map[string]string) Value {
	lookup := c.lookupEnv
	if len(env) > 0 {
		lookup = func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		}
	}
	return readKeysFromLookup(lookup, c.EnvPrefix, keys)
}

func readKeysFromLookup(lookup func(string) (string, bool), prefix string, keys []string) Value {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if raw, _ := lookup(key); raw != "" {
			return Coerce(raw)
		}
		if prefix == "" {
			continue
		}
		if raw, _ := lookup(prefix + "_" + key); raw != "" {
			return Coerce(raw)
		}
	}
	return Value{}
}
