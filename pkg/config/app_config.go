package config

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
	"github.com/ajitpratap0/vents/pkg/logger"
	"github.com/ajitpratap0/vents/pkg/metrics"
)

// Defaults applied by NewAppConfig
const (
	DefaultEnvPrefix   = "VENTS"
	DefaultProjectName = "Vents"
)

// AppConfig resolves configuration values from mounted files, inline schemas,
// inline environments and the process environment, and holds the active
// connections catalog. It is safe for concurrent use.
type AppConfig struct {
	EnvPrefix        string
	ProjectName      string
	ProjectURL       string
	ProjectIcon      string
	MissingValueType errors.ErrorType

	logger    *zap.Logger
	lookupEnv func(string) (string, bool)
	catalog   atomic.Pointer[connections.ConnectionCatalog]
}

type options struct {
	envPrefix        *string
	projectName      string
	projectURL       string
	projectIcon      string
	missingValueType errors.ErrorType
	logger           *zap.Logger
	lookupEnv        func(string) (string, bool)
	catalog          *connections.ConnectionCatalog
	catalogSet       bool
	catalogFile      string
	requireCatalog   bool
}

// Option configures an AppConfig
type Option func(*options)

// WithEnvPrefix sets the prefix used for the fallback environment lookup and
// the catalog variable. An empty prefix disables the fallback.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) { o.envPrefix = &prefix }
}

// WithProject sets the project metadata
func WithProject(name, url, icon string) Option {
	return func(o *options) {
		o.projectName = name
		o.projectURL = url
		o.projectIcon = icon
	}
}

// WithMissingValueType sets the error type RequireKeys reports
func WithMissingValueType(t errors.ErrorType) Option {
	return func(o *options) { o.missingValueType = t }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithLookupEnv replaces os.LookupEnv as the process environment
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(o *options) { o.lookupEnv = lookup }
}

// WithCatalog installs catalog and skips loading it from the environment.
// A nil catalog is allowed.
func WithCatalog(catalog *connections.ConnectionCatalog) Option {
	return func(o *options) {
		o.catalog = catalog
		o.catalogSet = true
	}
}

// WithConnections installs a catalog built from conns and skips loading it
// from the environment. An empty list leaves the catalog nil.
func WithConnections(conns []*connections.Connection) Option {
	return func(o *options) {
		o.catalog = catalogFor(conns)
		o.catalogSet = true
	}
}

// WithCatalogFile loads the catalog from path instead of the file named by
// the environment.
func WithCatalogFile(path string) Option {
	return func(o *options) { o.catalogFile = path }
}

// WithRequireCatalog makes NewAppConfig fail when the catalog cannot be read
func WithRequireCatalog() Option {
	return func(o *options) { o.requireCatalog = true }
}

// NewAppConfig creates an AppConfig. Unless a catalog option is given, the
// catalog is loaded from the file named by ConnectionsCatalogEnvName. A
// catalog that fails to load is logged and left nil, unless
// WithRequireCatalog was passed.
func NewAppConfig(opts ...Option) (*AppConfig, error) {
	o := options{
		projectName:      DefaultProjectName,
		missingValueType: errors.ErrorTypeMissingValue,
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &AppConfig{
		EnvPrefix:        DefaultEnvPrefix,
		ProjectName:      o.projectName,
		ProjectURL:       o.projectURL,
		ProjectIcon:      o.projectIcon,
		MissingValueType: o.missingValueType,
		logger:           o.logger,
		lookupEnv:        o.lookupEnv,
	}
	if o.envPrefix != nil {
		c.EnvPrefix = *o.envPrefix
	}
	if c.logger == nil {
		c.logger = logger.Get()
	}
	c.logger = c.logger.With(zap.String("component", "config"))
	if c.lookupEnv == nil {
		c.lookupEnv = os.LookupEnv
	}

	if o.catalogSet {
		c.catalog.Store(o.catalog)
		return c, nil
	}

	var (
		catalog *connections.ConnectionCatalog
		err     error
	)
	if o.catalogFile != "" {
		catalog, err = c.readCatalog(o.catalogFile)
	} else {
		catalog, err = c.LoadConnectionsCatalog()
	}
	if err != nil {
		if o.requireCatalog {
			return nil, err
		}
		c.logger.Warn("connections catalog not loaded",
			zap.String("env", c.ConnectionsCatalogEnvName()),
			zap.String("file", o.catalogFile),
			zap.Error(err))
		return c, nil
	}
	c.catalog.Store(catalog)
	return c, nil
}

// Logger returns the config's logger
func (c *AppConfig) Logger() *zap.Logger {
	return c.logger
}

// LookupEnv reads the process environment the config was built with
func (c *AppConfig) LookupEnv(key string) (string, bool) {
	return c.lookupEnv(key)
}

// ReadOption supplies an optional source to ReadKeys
type ReadOption func(*Sources)

// Sources lists the optional sources ReadKeys consults before the process
// environment.
type Sources struct {
	ContextPaths []string
	Schema       map[string]string
	Env          map[string]string
}

// WithSchema adds an inline schema source
func WithSchema(schema map[string]string) ReadOption {
	return func(s *Sources) { s.Schema = schema }
}

// WithEnv adds an inline environment source
func WithEnv(env map[string]string) ReadOption {
	return func(s *Sources) { s.Env = env }
}

// WithContextPaths adds mount directories to search
func WithContextPaths(paths ...string) ReadOption {
	return func(s *Sources) { s.ContextPaths = append(s.ContextPaths, paths...) }
}

// ReadKeys resolves the first non-empty value for any spelling of keys. The
// sources are tried in a fixed order: context paths, schema, inline env, then
// the process environment, each only when supplied except the process
// environment which is always tried. Each source is exhausted for every
// spelling before the next is consulted. Environment lookups try the bare key
// before {EnvPrefix}_{key}.
func (c *AppConfig) ReadKeys(keys []string, opts ...ReadOption) Value {
	var sources Sources
	for _, opt := range opts {
		opt(&sources)
	}
	return c.ReadKeysFrom(keys, sources)
}

// ReadKeysFrom is ReadKeys with the sources given as a struct
func (c *AppConfig) ReadKeysFrom(keys []string, sources Sources) Value {
	expanded := NormalizeKeys(keys)

	if len(sources.ContextPaths) > 0 {
		if v := ReadKeysFromPath(sources.ContextPaths, expanded); v.Found() {
			return c.hit(metrics.SourcePath, keys, v)
		}
	}
	if len(sources.Schema) > 0 {
		if v := ReadKeysFromSchema(sources.Schema, expanded); v.Found() {
			return c.hit(metrics.SourceSchema, keys, v)
		}
	}
	if len(sources.Env) > 0 {
		if v := c.ReadKeysFromEnv(expanded, sources.Env); v.Found() {
			return c.hit(metrics.SourceEnv, keys, v)
		}
	}
	if v := readKeysFromLookup(c.lookupEnv, c.EnvPrefix, expanded); v.Found() {
		return c.hit(metrics.SourceOSEnv, keys, v)
	}

	metrics.ResolutionsTotal.WithLabelValues(metrics.SourceNone).Inc()
	c.logger.Debug("keys not resolved", zap.Strings("keys", keys))
	return Value{}
}

func (c *AppConfig) hit(source string, keys []string, v Value) Value {
	metrics.ResolutionsTotal.WithLabelValues(source).Inc()
	c.logger.Debug("keys resolved",
		zap.String("source", source),
		zap.Strings("keys", keys))
	return v
}

// RequireKeys is ReadKeys for values the caller cannot do without. A missing
// value is reported as an error of type MissingValueType.
func (c *AppConfig) RequireKeys(keys []string, opts ...ReadOption) (Value, error) {
	v := c.ReadKeys(keys, opts...)
	if !v.Found() {
		return v, errors.Newf(c.MissingValueType, "no value found for keys %v", keys).
			WithDetail("keys", keys)
	}
	return v, nil
}
