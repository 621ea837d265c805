package providers

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
	"github.com/ajitpratap0/vents/pkg/logger"
)

// Factory builds a service for a connection. conn may be nil, in which case
// the service resolves from the process environment only.
type Factory func(cfg *config.AppConfig, conn *connections.Connection) (Service, error)

// Info describes a registered provider
type Info struct {
	Kind        connections.Kind `json:"kind"`
	Description string           `json:"description"`
	Keys        []string         `json:"keys"`
}

// Registry maps connection kinds to service factories
type Registry struct {
	factories map[connections.Kind]Factory
	infos     map[connections.Kind]*Info
	mu        sync.RWMutex
	logger    *zap.Logger
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[connections.Kind]Factory),
		infos:     make(map[connections.Kind]*Info),
		logger:    logger.Get().With(zap.String("component", "provider_registry")),
	}
}

// Register registers a factory for kind
func (r *Registry) Register(kind connections.Kind, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return errors.Newf(errors.ErrorTypeConfig, "provider %s already registered", kind)
	}

	r.factories[kind] = factory
	r.logger.Debug("provider registered", zap.String("kind", string(kind)))
	return nil
}

// RegisterInfo records metadata for a provider
func (r *Registry) RegisterInfo(info *Info) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos[info.Kind] = info
}

// Create builds the service registered for conn's kind
func (r *Registry) Create(cfg *config.AppConfig, conn *connections.Connection) (Service, error) {
	if conn == nil {
		return nil, errors.New(errors.ErrorTypeNotFound, "no connection given")
	}
	return r.CreateKind(cfg, conn.Kind, conn)
}

// CreateKind builds the service registered for kind. conn may be nil.
func (r *Registry) CreateKind(cfg *config.AppConfig, kind connections.Kind, conn *connections.Connection) (Service, error) {
	r.mu.RLock()
	factory, exists := r.factories[kind]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "no provider registered for kind %s", kind).
			WithDetail("kind", string(kind))
	}

	svc, err := factory(cfg, conn)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to load provider").
			WithDetail("kind", string(kind))
	}
	return svc, nil
}

// Load looks name up in cfg's catalog and builds the matching service
func (r *Registry) Load(cfg *config.AppConfig, name string) (Service, error) {
	conn := cfg.GetConnectionFor(name)
	if conn == nil {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "connection %q not found in catalog", name).
			WithDetail("connection", name)
	}
	return r.Create(cfg, conn)
}

// Kinds returns the registered kinds in sorted order
func (r *Registry) Kinds() []connections.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]connections.Kind, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Has checks if a provider is registered for kind
func (r *Registry) Has(kind connections.Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.factories[kind]
	return exists
}

// Info returns the metadata recorded for kind
func (r *Registry) Info(kind connections.Kind) (*Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.infos[kind]
	return info, ok
}

// Clear removes all registered providers (mainly for testing)
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories = make(map[connections.Kind]Factory)
	r.infos = make(map[connections.Kind]*Info)
}

// Global registry functions

// Register registers a provider in the global registry
func Register(kind connections.Kind, factory Factory) error {
	return globalRegistry.Register(kind, factory)
}

// RegisterInfo records provider metadata in the global registry
func RegisterInfo(info *Info) {
	globalRegistry.RegisterInfo(info)
}

// Load builds the service for the named catalog connection from the global
// registry.
func Load(cfg *config.AppConfig, name string) (Service, error) {
	return globalRegistry.Load(cfg, name)
}

// Create builds the service for conn from the global registry
func Create(cfg *config.AppConfig, conn *connections.Connection) (Service, error) {
	return globalRegistry.Create(cfg, conn)
}

// Kinds returns the kinds registered in the global registry
func Kinds() []connections.Kind {
	return globalRegistry.Kinds()
}

// GetRegistry returns the global registry instance
func GetRegistry() *Registry {
	return globalRegistry
}
