// Package providers defines how vents turns a catalog connection into a
// configured client for a third-party service.
//
// Every adapter follows the same shape: LoadFromConnection extracts a Context
// from the connection, resolves each field with one AppConfig.ReadKeys call,
// and returns a Service whose native client is built lazily by Session.
//
//	svc, err := openai.LoadFromCatalog(config.Default(), "openai-prod")
//	if err != nil {
//		return err
//	}
//	client, err := svc.Session(ctx)
//
// Adapters register themselves with the global Registry from an init
// function, so callers that only know a connection name can load any of them:
//
//	import _ "github.com/ajitpratap0/vents/pkg/providers/all"
//
//	svc, err := providers.Load(config.Default(), "openai-prod")
package providers

import (
	"os"
	"sort"

	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
)

// Service is a provider configured from a connection
type Service interface {
	// Kind returns the connection kind the service was loaded for
	Kind() connections.Kind
	// EnvVars returns the non-empty resolved fields under their canonical
	// variable names.
	EnvVars() map[string]string
	// SetEnvVars exports EnvVars to the process environment
	SetEnvVars() error
}

// Closer is implemented by services whose sessions hold resources
type Closer interface {
	Close() error
}

// SetEnv writes every non-empty entry of vars to the process environment in
// key order.
func SetEnv(vars map[string]string) error {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := vars[k]
		if v == "" {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "failed to set environment variable").
				WithDetail("key", k)
		}
	}
	return nil
}

// EnvVars collects the non-empty pairs into a map. pairs alternates key and
// value.
func EnvVars(pairs ...string) map[string]string {
	out := make(map[string]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			out[pairs[i]] = pairs[i+1]
		}
	}
	return out
}
