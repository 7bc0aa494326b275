package hypo

import (
	"context"
	"reflect"
	"sync"

	"github.com/a-peyrard/hypo/option"
	"github.com/rs/zerolog"
)

// NamedResolver resolves dependencies by their associated name.
type NamedResolver struct {
	Resolver

	mu     sync.RWMutex
	values map[string]ResolutionResult
	logger zerolog.Logger
}

func NewNamedResolver(opts ...option.Option[ResolverOptions]) *NamedResolver {
	options := buildResolverOptions(opts)
	r := &NamedResolver{
		values: make(map[string]ResolutionResult),
		logger: options.logger,
	}
	r.Resolver = NewResolver(r)
	return r
}

// Bind binds name to value, a nil value is an explicit nil binding.
func (r *NamedResolver) Bind(name string, value any) *NamedResolver {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[name] = Resolved(nilIfNil(value))
	return r
}

// BindFactory binds name to a factory called every time the name is injected.
func (r *NamedResolver) BindFactory(name string, factory InjectionFactory) *NamedResolver {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[name] = Deferred(factory)
	return r
}

func (r *NamedResolver) Unbind(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, name)
}

func (r *NamedResolver) Lookup(_ context.Context, dep Dependency, _ any) (ResolutionResult, error) {
	name := dep.AssociatedName()
	if name == "" {
		return NotResolved(), nil
	}

	r.mu.RLock()
	result, found := r.values[name]
	r.mu.RUnlock()

	if !found {
		r.logger.Debug().Stringer("dependency", dep).Msgf("Nothing named %q, skipping", name)
		return NotResolved(), nil
	}
	if !result.IsDeferred() && result.Value() != nil && !matchType(dep.Type(), reflect.TypeOf(result.Value())) {
		r.logger.Debug().Stringer("dependency", dep).Msgf("Value named %q is a %T, skipping", name, result.Value())
		return NotResolved(), nil
	}

	r.logger.Debug().Stringer("dependency", dep).Msgf("Found value named %q", name)
	return result, nil
}
