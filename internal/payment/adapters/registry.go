package adapters

import (
	"sort"
	"strings"

	paymentdomain "github.com/jdeweedata/circletel-sub013/internal/payment/domain"
)

// Registry indexes provider adapter factories by provider name.
type Registry struct {
	factories map[string]paymentdomain.AdapterFactory
}

func NewRegistry(factories ...paymentdomain.AdapterFactory) *Registry {
	registry := &Registry{factories: make(map[string]paymentdomain.AdapterFactory, len(factories))}
	for _, factory := range factories {
		if factory == nil {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(factory.Provider()))
		if name == "" {
			continue
		}
		registry.factories[name] = factory
	}
	return registry
}

func (r *Registry) ProviderExists(provider string) bool {
	if r == nil {
		return false
	}
	_, ok := r.factories[strings.ToLower(strings.TrimSpace(provider))]
	return ok
}

func (r *Registry) Configured(provider string) bool {
	if r == nil {
		return false
	}
	factory, ok := r.factories[strings.ToLower(strings.TrimSpace(provider))]
	return ok && factory.Configured()
}

func (r *Registry) NewAdapter(provider string) (paymentdomain.ProviderAdapter, error) {
	factory, ok := r.factories[strings.ToLower(strings.TrimSpace(provider))]
	if !ok {
		return nil, paymentdomain.ErrProviderNotFound
	}
	if !factory.Configured() {
		return nil, paymentdomain.ErrProviderNotConfigured
	}
	return factory.NewAdapter()
}

func (r *Registry) Providers() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
