package hypo

import (
	"context"
	"fmt"

	"github.com/a-peyrard/hypo/option"
	"github.com/a-peyrard/hypo/slices"
	"github.com/rs/zerolog"
)

type (
	// RegistryResolver resolves dependencies from the components of a Registry.
	RegistryResolver struct {
		Resolver

		registry *Registry
		lookup   func(dep Dependency) (ResolutionResult, error)
		logger   zerolog.Logger
	}
)

// NewRegistryTypeResolver resolves a dependency with the single component satisfying its type.
// More than one candidate is an error.
func NewRegistryTypeResolver(registry *Registry, opts ...option.Option[ResolverOptions]) *RegistryResolver {
	r := newRegistryResolver(registry, opts)
	r.lookup = func(dep Dependency) (ResolutionResult, error) {
		return r.unique(dep, r.registry.find(queryByType{typ: dep.Type()}))
	}
	return r
}

// NewRegistryNameResolver resolves a dependency with the component registered under its associated
// name, if it satisfies its type.
func NewRegistryNameResolver(registry *Registry, opts ...option.Option[ResolverOptions]) *RegistryResolver {
	r := newRegistryResolver(registry, opts)
	r.lookup = func(dep Dependency) (ResolutionResult, error) {
		if dep.AssociatedName() == "" {
			return NotResolved(), nil
		}
		return r.unique(dep, r.registry.find(queryByName{name: Name{name: dep.AssociatedName(), typ: dep.Type()}}))
	}
	return r
}

// NewRegistryPatternResolver resolves a dependency with the component named after its type by the
// mapper. A mapped name without a matching component is an error.
func NewRegistryPatternResolver(registry *Registry, mapper *RegexpMapper, opts ...option.Option[ResolverOptions]) *RegistryResolver {
	r := newRegistryResolver(registry, opts)
	r.lookup = func(dep Dependency) (ResolutionResult, error) {
		name, found := mapper.Map(dep.Type())
		if !found {
			return NotResolved(), nil
		}
		comp, err := r.registry.Get(name, dep.Type())
		if err != nil {
			return NotResolved(), fmt.Errorf("component %q mapped for %s is not usable:\n\t%w", name, dep, err)
		}
		r.logger.Debug().Stringer("dependency", dep).Msgf("Found component %q", name)
		return Resolved(comp), nil
	}
	return r
}

func newRegistryResolver(registry *Registry, opts []option.Option[ResolverOptions]) *RegistryResolver {
	options := buildResolverOptions(opts)
	r := &RegistryResolver{
		registry: registry,
		logger:   options.logger,
	}
	r.Resolver = NewResolver(r)
	return r
}

func (r *RegistryResolver) Lookup(_ context.Context, dep Dependency, _ any) (ResolutionResult, error) {
	return r.lookup(dep)
}

func (r *RegistryResolver) unique(dep Dependency, results []*queryResult) (ResolutionResult, error) {
	switch len(results) {
	case 0:
		r.logger.Debug().Stringer("dependency", dep).Msg("No component of required type found, skipping")
		return NotResolved(), nil
	case 1:
		r.logger.Debug().Stringer("dependency", dep).Stringer("component", results[0].name).Msg("Found component")
		return Resolved(results[0].comp), nil
	default:
		return NotResolved(), &AmbiguousBindingError{
			Dependency: dep,
			Candidates: slices.Map(results, func(res *queryResult) string { return res.name.String() }),
		}
	}
}
