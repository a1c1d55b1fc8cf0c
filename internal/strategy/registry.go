package strategy

import (
	"sort"

	"github.com/tickerlab/stratbench/pkg/errors"
)

// Factory builds a fresh strategy instance. Registries hand out new
// instances so concurrent runs never share strategy state.
type Factory func() Strategy

// Registry holds a named collection of strategy factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// NewDefaultRegistry creates a Registry preloaded with the built-in
// reference strategies.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(BuyAndHoldName, func() Strategy { return NewBuyAndHold() })
	r.Register(SMACrossName, func() Strategy { return NewSMACross() })

	return r
}

// Register adds a factory under the given name, replacing any previous
// registration.
func (r *Registry) Register(name string, factory Factory) {
	r.factories[name] = factory
}

// Get builds a fresh instance of the named strategy.
func (r *Registry) Get(name string) (Strategy, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeStrategyNotFound, "strategy %q is not registered", name)
	}

	return factory(), nil
}

// List returns the sorted names of all registered strategies.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
