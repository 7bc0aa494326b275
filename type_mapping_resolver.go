package hypo

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/a-peyrard/hypo/option"
	"github.com/rs/zerolog"
)

// TypeMappingResolver resolves dependencies from a table of bindings keyed by type.
//
// A binding for the exact type of the dependency wins. Otherwise, for interface dependencies, the
// bindings whose type implements the interface are candidates, and there must be only one. The
// resolver itself is bound to the Resolver type, this binding is never a candidate.
type TypeMappingResolver struct {
	Resolver

	mu       sync.RWMutex
	bindings map[reflect.Type]ResolutionResult
	order    []reflect.Type

	logger zerolog.Logger
}

func NewTypeMappingResolver(opts ...option.Option[ResolverOptions]) *TypeMappingResolver {
	options := buildResolverOptions(opts)
	r := &TypeMappingResolver{
		bindings: make(map[reflect.Type]ResolutionResult),
		logger:   options.logger,
	}
	r.Resolver = NewResolver(r)

	// resolvers might need the resolver itself, only for the exact Resolver type
	Bind[Resolver](r, r)

	return r
}

// Bind binds the type T to value, replacing any existing binding for T. A nil value is an explicit
// nil binding.
func Bind[T any](r *TypeMappingResolver, value T) {
	r.put(TypeOf[T](), Resolved(nilIfNil(value)))
}

// BindNil binds the type T to nil.
func BindNil[T any](r *TypeMappingResolver) {
	r.put(TypeOf[T](), Resolved(nil))
}

// BindFactory binds the type T to a factory called every time a T is injected.
func BindFactory[T any](r *TypeMappingResolver, factory func(ctx context.Context, target any, dep Dependency) (T, error)) {
	if factory == nil {
		BindNil[T](r)
		return
	}
	r.put(TypeOf[T](), Deferred(InjectionFactoryFunc(func(ctx context.Context, target any, dep Dependency) (any, error) {
		return factory(ctx, target, dep)
	})))
}

// ClearBinding removes the binding for the type T.
func ClearBinding[T any](r *TypeMappingResolver) {
	r.Clear(TypeOf[T]())
}

// BindType binds typ to value, value must be nil or assignable to typ.
func (r *TypeMappingResolver) BindType(typ reflect.Type, value any) error {
	if value != nil && !reflect.TypeOf(value).AssignableTo(typ) {
		return fmt.Errorf("cannot bind %s to a value of type %T", typ, value)
	}
	r.put(typ, Resolved(value))
	return nil
}

func (r *TypeMappingResolver) Clear(typ reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.bindings[typ]; !found {
		return
	}
	delete(r.bindings, typ)
	for i, t := range r.order {
		if t == typ {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *TypeMappingResolver) Lookup(_ context.Context, dep Dependency, _ any) (ResolutionResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typ := dep.Type()
	if result, found := r.bindings[typ]; found {
		r.logger.Debug().Stringer("dependency", dep).Msg("Found binding for exact type")
		return result, nil
	}
	if typ.Kind() != reflect.Interface {
		return NotResolved(), nil
	}

	var candidates []reflect.Type
	for _, bound := range r.order {
		if r.bindings[bound].Value() == any(r) {
			continue
		}
		if matchType(typ, bound) {
			candidates = append(candidates, bound)
		}
	}
	switch len(candidates) {
	case 0:
		r.logger.Debug().Stringer("dependency", dep).Msg("No binding of required type, skipping")
		return NotResolved(), nil
	case 1:
		r.logger.Debug().Stringer("dependency", dep).Stringer("bound", candidates[0]).Msg("Found binding implementing the required type")
		return r.bindings[candidates[0]], nil
	default:
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.String()
		}
		return NotResolved(), &AmbiguousBindingError{Dependency: dep, Candidates: names}
	}
}

func (r *TypeMappingResolver) put(typ reflect.Type, result ResolutionResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.bindings[typ]; !found {
		r.order = append(r.order, typ)
	}
	r.bindings[typ] = result
}

func nilIfNil(value any) any {
	if isNil(value) {
		return nil
	}
	return value
}
