package strategy

import (
	"sort"
	"sync"

	"github.com/rxtech-lab/argo-equity/pkg/errors"
)

// Registry maps strategy kinds, as written in configuration, to their factories.
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		mu:        sync.RWMutex{},
	}
}

// Register adds a factory under kind.
func (r *Registry) Register(kind string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if kind == "" {
		return errors.New(errors.ErrCodeMissingParameter, "Register: strategy kind is empty")
	}

	if _, exists := r.factories[kind]; exists {
		return errors.Newf(errors.ErrCodeStrategyAlreadyRegistered, "Register: strategy kind %s already registered", kind)
	}

	r.factories[kind] = factory

	return nil
}

// Create builds a strategy of the given kind. Unknown kinds are a configuration error.
func (r *Registry) Create(kind string, settings Settings, deps Dependencies) (Strategy, error) {
	r.mu.RLock()
	factory, exists := r.factories[kind]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Newf(errors.ErrCodeUnknownStrategy, "Create: strategy kind %s not found", kind)
	}

	s, err := factory(settings, deps)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "Create: failed to build strategy %s of kind %s", settings.Name, kind)
	}

	return s, nil
}

// Has reports whether kind is registered.
func (r *Registry) Has(kind string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[kind]

	return exists
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}

	sort.Strings(kinds)

	return kinds
}
