package hypo

import (
	"context"
	"fmt"
	"reflect"

	"github.com/a-peyrard/hypo/option"
	"github.com/rs/zerolog"
)

type (
	// Resolver attempts to find and inject a value for a dependency of target.
	//
	// It returns false when it has nothing for the dependency, an error is fatal for the whole
	// injection pass.
	Resolver interface {
		Resolve(ctx context.Context, dep Dependency, target any) (bool, error)
	}

	ResolverFunc func(ctx context.Context, dep Dependency, target any) (bool, error)

	// Lookup finds what to inject for a dependency, NewResolver turns it into a Resolver.
	Lookup interface {
		Lookup(ctx context.Context, dep Dependency, target any) (ResolutionResult, error)
	}

	LookupFunc func(ctx context.Context, dep Dependency, target any) (ResolutionResult, error)

	lookupResolver struct {
		lookup Lookup
	}

	// CompositeResolver asks its resolvers in order, the first one resolving the dependency wins.
	CompositeResolver struct {
		resolvers []Resolver
	}

	// NonResolver never resolves anything.
	NonResolver struct{}

	ResolverOptions struct {
		logger zerolog.Logger
	}
)

// ResolverLogger sets the logger used by a resolver back-end.
func ResolverLogger(logger zerolog.Logger) option.Option[ResolverOptions] {
	return func(opts *ResolverOptions) {
		opts.logger = logger
	}
}

func buildResolverOptions(opts []option.Option[ResolverOptions]) *ResolverOptions {
	return option.Build(&ResolverOptions{logger: zerolog.Nop()}, opts...)
}

func (f ResolverFunc) Resolve(ctx context.Context, dep Dependency, target any) (bool, error) {
	return f(ctx, dep, target)
}

func (f LookupFunc) Lookup(ctx context.Context, dep Dependency, target any) (ResolutionResult, error) {
	return f(ctx, dep, target)
}

// NewResolver creates a resolver committing what lookup finds. Deferred results get their factory
// called once, with the target and the dependency.
func NewResolver(lookup Lookup) Resolver {
	return &lookupResolver{lookup: lookup}
}

func (r *lookupResolver) Resolve(ctx context.Context, dep Dependency, target any) (bool, error) {
	result, err := r.lookup.Lookup(ctx, dep, target)
	if err != nil {
		return false, err
	}
	if !result.IsResolved() {
		return false, nil
	}

	value := result.Value()
	if result.IsDeferred() {
		value, err = result.Factory().Get(ctx, target, dep)
		if err != nil {
			return false, fmt.Errorf("injection factory failed to provide a value for %s:\n\t%w", dep, err)
		}
	}

	if err = Commit(dep, target, value); err != nil {
		return false, err
	}
	return true, nil
}

// Commit notifies value if it is InjectionAware, then injects it into target.
func Commit(dep Dependency, target any, value any) error {
	if aware, ok := value.(InjectionAware); ok && !isNil(value) {
		aware.BeforeInjection(target, dep)
	}
	return dep.Inject(target, value)
}

func NewCompositeResolver(resolvers ...Resolver) *CompositeResolver {
	return &CompositeResolver{resolvers: resolvers}
}

func (c *CompositeResolver) Resolve(ctx context.Context, dep Dependency, target any) (bool, error) {
	for _, resolver := range c.resolvers {
		resolved, err := resolver.Resolve(ctx, dep, target)
		if err != nil {
			return false, err
		}
		if resolved {
			return true, nil
		}
	}
	return false, nil
}

// Resolvers returns the resolvers in the order they are asked.
func (c *CompositeResolver) Resolvers() []Resolver {
	return c.resolvers
}

func (NonResolver) Resolve(context.Context, Dependency, any) (bool, error) {
	return false, nil
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
