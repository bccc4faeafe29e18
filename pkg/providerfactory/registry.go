package providerfactory

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"weftworks/weft/pkg/providers"
)

// Registry holds the provider instances built from configuration.
// The runner looks providers up by name when a playbook step names one.
//
// Registry is thread-safe and can be used concurrently.
type Registry struct {
	providers map[string]providers.Provider
	mu        sync.RWMutex
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]providers.Provider),
	}
}

// Add builds a provider from config and adds it to the registry.
// If a provider with the same name already exists, it is replaced and
// the old one is closed.
func (r *Registry) Add(config providers.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.providers[config.Name]; ok {
		slog.Warn("replacing existing provider", "name", config.Name)
		existing.Close()
		delete(r.providers, config.Name)
	}

	provider, err := New(config)
	if err != nil {
		return fmt.Errorf("failed to add provider %q: %w", config.Name, err)
	}

	r.providers[config.Name] = provider

	slog.Debug("provider added to registry",
		"name", config.Name,
		"type", provider.Type(),
		"total_providers", len(r.providers),
	)

	return nil
}

// Register adds an already-built provider to the registry. Tests use this
// to install mock providers.
func (r *Registry) Register(provider providers.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.providers[provider.Name()]; ok {
		existing.Close()
	}
	r.providers[provider.Name()] = provider
}

// Get returns a provider by name.
func (r *Registry) Get(name string) (providers.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not found", name)
	}

	return provider, nil
}

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Count returns the number of registered providers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.providers)
}

// LoadFromConfig builds and registers providers from a list of
// configurations. Any errors are collected and returned as a single error.
func (r *Registry) LoadFromConfig(configs []providers.Config) error {
	var errs []error

	for _, config := range configs {
		if err := r.Add(config); err != nil {
			errs = append(errs, err)
			slog.Error("failed to load provider",
				"name", config.Name,
				"error", err,
			)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to load %d provider(s)", len(errs))
	}

	slog.Debug("all providers loaded", "count", len(configs))
	return nil
}

// Close closes all providers and empties the registry.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, provider := range r.providers {
		if err := provider.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close provider %q: %w", name, err))
		}
	}

	r.providers = make(map[string]providers.Provider)

	if len(errs) > 0 {
		return fmt.Errorf("errors closing providers: %v", errs)
	}

	return nil
}
