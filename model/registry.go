package model

import "sync"

// Registry manages the available inference backends
type Registry struct {
	mu     sync.RWMutex
	models map[string]Model
}

var defaultRegistry = &Registry{
	models: make(map[string]Model),
}

// Register registers a model in the default registry under its name
func Register(m Model) {
	defaultRegistry.Register(m)
}

// Get retrieves a model from the default registry by name
func Get(name string) (Model, error) {
	return defaultRegistry.Get(name)
}

// List returns all models in the default registry
func List() []Model {
	return defaultRegistry.List()
}

// Register registers a model under its name
func (r *Registry) Register(m Model) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.models[m.Name()] = m
}

// Get retrieves a model by name
func (r *Registry) Get(name string) (Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.models[name]
	if !ok {
		return nil, ErrModelNotFound
	}
	return m, nil
}

// List returns all registered models
func (r *Registry) List() []Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	models := make([]Model, 0, len(r.models))
	for _, m := range r.models {
		models = append(models, m)
	}
	return models
}
