package config

import (
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/vents/pkg/logger"
)

var (
	defaultConfig *AppConfig
	defaultOnce   sync.Once
	defaultMu     sync.RWMutex
)

// Default returns the process-wide AppConfig, building it with default
// options on first use.
func Default() *AppConfig {
	defaultOnce.Do(func() {
		c := newDefault()
		defaultMu.Lock()
		if defaultConfig == nil {
			defaultConfig = c
		}
		defaultMu.Unlock()
	})

	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultConfig
}

// newDefault builds a config from opts. When that fails the error is logged
// and a config without a catalog is returned, so Default never yields nil.
func newDefault(opts ...Option) *AppConfig {
	c, err := NewAppConfig(opts...)
	if err == nil {
		return c
	}

	logger.Get().Error("failed to build default config, continuing without a catalog", zap.Error(err))
	c, _ = NewAppConfig(append(opts, WithCatalog(nil))...)
	return c
}

// SetDefault replaces the process-wide AppConfig
func SetDefault(c *AppConfig) {
	defaultOnce.Do(func() {})
	defaultMu.Lock()
	defaultConfig = c
	defaultMu.Unlock()
}
