package config

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/metrics"
)

const connectionsCatalogEnv = "CONNECTIONS_CATALOG"

// ConnectionsCatalogEnvName returns the variable naming the catalog file,
// {EnvPrefix}_CONNECTIONS_CATALOG or CONNECTIONS_CATALOG without a prefix.
func (c *AppConfig) ConnectionsCatalogEnvName() string {
	if c.EnvPrefix == "" {
		return connectionsCatalogEnv
	}
	return c.EnvPrefix + "_" + connectionsCatalogEnv
}

// LoadConnectionsCatalog reads the catalog file named by the environment. It
// returns nil without error when the variable is unset or empty.
func (c *AppConfig) LoadConnectionsCatalog() (*connections.ConnectionCatalog, error) {
	envName := c.ConnectionsCatalogEnvName()
	path, _ := c.lookupEnv(envName)
	if path == "" {
		metrics.CatalogLoadsTotal.WithLabelValues(metrics.ResultUnset).Inc()
		return nil, nil
	}
	return c.readCatalog(path)
}

func (c *AppConfig) readCatalog(path string) (*connections.ConnectionCatalog, error) {
	catalog, err := connections.Read(path, "")
	if err != nil {
		metrics.CatalogLoadsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, err
	}

	metrics.CatalogLoadsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	c.logger.Info("connections catalog loaded",
		zap.String("path", path),
		zap.Int("connections", catalog.Len()))
	return catalog, nil
}

// ReloadConnectionsCatalog re-reads the catalog named by the environment and
// swaps it in. On error the current catalog is kept.
func (c *AppConfig) ReloadConnectionsCatalog() error {
	catalog, err := c.LoadConnectionsCatalog()
	if err != nil {
		return err
	}
	c.catalog.Store(catalog)
	return nil
}

// SetConnectionsCatalog replaces the catalog with one built from conns. An
// empty list clears it.
func (c *AppConfig) SetConnectionsCatalog(conns []*connections.Connection) {
	c.catalog.Store(catalogFor(conns))
}

// SetCatalog replaces the catalog
func (c *AppConfig) SetCatalog(catalog *connections.ConnectionCatalog) {
	c.catalog.Store(catalog)
}

// Catalog returns the active catalog, which may be nil
func (c *AppConfig) Catalog() *connections.ConnectionCatalog {
	return c.catalog.Load()
}

// GetConnectionFor returns the named connection from the active catalog, or
// nil when the name is empty, there is no catalog or the name is unknown.
func (c *AppConfig) GetConnectionFor(name string) *connections.Connection {
	if name == "" {
		return nil
	}
	return c.catalog.Load().Get(name)
}

func catalogFor(conns []*connections.Connection) *connections.ConnectionCatalog {
	if len(conns) == 0 {
		return nil
	}
	return connections.NewConnectionCatalog(conns)
}
