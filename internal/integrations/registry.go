package integrations

import (
	"fmt"
	"sync"
)

// RegistryInterface keeps the registered snapshot providers and tracks which
// one is active for this deployment.
type RegistryInterface interface {
	Register(provider SnapshotProvider) error
	Get(name string) (SnapshotProvider, error)
	SetActive(name string) error
	GetActive() (SnapshotProvider, error)
}

type Registry struct {
	providers map[string]SnapshotProvider
	active    string
	mu        sync.RWMutex
}

func NewRegistry() RegistryInterface {
	return &Registry{
		providers: make(map[string]SnapshotProvider),
	}
}

func (r *Registry) Register(provider SnapshotProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := provider.Name()
	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider '%s' is already registered", name)
	}

	r.providers[name] = provider
	return nil
}

func (r *Registry) Get(name string) (SnapshotProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("provider '%s' is not registered", name)
	}
	return provider, nil
}

func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; !exists {
		return fmt.Errorf("cannot activate provider '%s': not registered", name)
	}

	r.active = name
	return nil
}

func (r *Registry) GetActive() (SnapshotProvider, error) {
	r.mu.RLock()
	activeName := r.active
	r.mu.RUnlock()

	if activeName == "" {
		return nil, fmt.Errorf("no active provider configured")
	}

	return r.Get(activeName)
}
