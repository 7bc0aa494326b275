package hypo

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/a-peyrard/hypo/option"
	"github.com/a-peyrard/hypo/reflectutils"
	"github.com/rs/zerolog"
)

type (
	// Engine injects instances using the dependencies selected for their types, and the values found
	// by its resolver.
	//
	// With caching enabled, the dependencies of a type are selected at most once per Engine. A cached
	// type is not checked for cycles anymore, its selection cannot recurse again.
	Engine struct {
		selector Selector
		resolver Resolver
		caching  bool
		logger   zerolog.Logger

		cache sync.Map // reflect.Type -> []Dependency
		lock  *LockManager[reflect.Type]
	}

	EngineOptions struct {
		resolver Resolver
		caching  bool
		logger   zerolog.Logger
	}
)

// WithResolver sets the resolver providing values, by default nothing is resolved.
func WithResolver(resolver Resolver) option.Option[EngineOptions] {
	return func(opts *EngineOptions) {
		opts.resolver = resolver
	}
}

// WithClassCaching enables or disables the caching of selected dependencies, enabled by default.
func WithClassCaching(enabled bool) option.Option[EngineOptions] {
	return func(opts *EngineOptions) {
		opts.caching = enabled
	}
}

func WithLogger(logger zerolog.Logger) option.Option[EngineOptions] {
	return func(opts *EngineOptions) {
		opts.logger = logger
	}
}

func NewEngine(selector Selector, opts ...option.Option[EngineOptions]) *Engine {
	options := option.Build(
		&EngineOptions{
			resolver: NonResolver{},
			caching:  true,
			logger:   zerolog.Nop(),
		},
		opts...,
	)
	return &Engine{
		selector: selector,
		resolver: options.resolver,
		caching:  options.caching,
		logger:   options.logger,
		lock:     NewLockManager[reflect.Type](),
	}
}

func (e *Engine) PerformInjection(ctx context.Context, instance any) (bool, error) {
	typ, ok := structType(instance)
	if !ok {
		return false, fmt.Errorf("%w: expected a non nil pointer to a struct, got %T", ErrInvalidTarget, instance)
	}
	_, ctx = ensureTracker(ctx)

	performed := false
	for _, t := range reflectutils.Hierarchy(typ) {
		done, err := e.inject(ctx, instance, t)
		if err != nil {
			return performed, err
		}
		performed = performed || done
	}
	return performed, nil
}

func (e *Engine) PerformInjectionFor(ctx context.Context, instance any, typ reflect.Type) (bool, error) {
	instanceTyp, ok := structType(instance)
	if !ok {
		return false, fmt.Errorf("%w: expected a non nil pointer to a struct, got %T", ErrInvalidTarget, instance)
	}
	if typ == nil || !reflectutils.Embeds(instanceTyp, typ) {
		return false, fmt.Errorf("%w: %s is neither %s nor embedded in it", ErrInvalidTarget, typ, instanceTyp)
	}
	_, ctx = ensureTracker(ctx)

	return e.inject(ctx, instance, typ)
}

func (e *Engine) inject(ctx context.Context, instance any, typ reflect.Type) (bool, error) {
	tracker, _ := TrackerFrom(ctx)

	registered, err := e.register(tracker, typ)
	if err != nil {
		return false, err
	}
	if registered {
		defer tracker.Remove(typ)
	}

	dependencies, err := e.dependenciesOf(ctx, typ)
	if err != nil {
		return false, err
	}
	if len(dependencies) == 0 {
		e.logger.Debug().Msgf("ignoring %s, no dependency to inject", instanceName(instance))
		return false, nil
	}

	e.logger.Debug().Msgf("starting the injection of %d dependencies into %s", len(dependencies), instanceName(instance))
	if err = e.resolveAll(ctx, instance, dependencies); err != nil {
		return true, err
	}
	e.logger.Debug().Msgf("injection of %s complete", instanceName(instance))

	return true, nil
}

// register adds typ to the types in progress, unless it is already cached.
func (e *Engine) register(tracker *Tracker, typ reflect.Type) (bool, error) {
	if e.caching {
		if _, cached := e.cache.Load(typ); cached {
			return false, nil
		}
	}
	if err := tracker.Push(typ); err != nil {
		return false, err
	}
	return true, nil
}

func (e *Engine) dependenciesOf(ctx context.Context, typ reflect.Type) ([]Dependency, error) {
	if !e.caching {
		return e.selector.SelectDependencies(ctx, typ)
	}
	if cached, found := e.cache.Load(typ); found {
		return cached.([]Dependency), nil
	}

	lock := e.lock.GetLockFor(typ)
	lock.Lock()
	defer lock.Unlock()

	if cached, found := e.cache.Load(typ); found {
		return cached.([]Dependency), nil
	}
	dependencies, err := e.selector.SelectDependencies(ctx, typ)
	if err != nil {
		return nil, err
	}
	e.cache.Store(typ, dependencies)

	return dependencies, nil
}

func (e *Engine) resolveAll(ctx context.Context, instance any, dependencies []Dependency) error {
	var unresolved []Dependency
	for _, dep := range dependencies {
		resolved, err := e.resolver.Resolve(ctx, dep, instance)
		if err != nil {
			return err
		}
		if !resolved {
			unresolved = append(unresolved, dep)
		}
	}
	if len(unresolved) > 0 {
		return &UnresolvedDependenciesError{
			Target:     instance,
			Unresolved: unresolved,
		}
	}
	return nil
}

// CachedTypes returns the number of types whose dependencies are cached.
func (e *Engine) CachedTypes() int {
	count := 0
	e.cache.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

func (e *Engine) Describe() string {
	type entry struct {
		typ          reflect.Type
		dependencies []Dependency
	}
	var entries []entry
	e.cache.Range(func(key, value any) bool {
		entries = append(entries, entry{typ: key.(reflect.Type), dependencies: value.([]Dependency)})
		return true
	})
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].typ.String() < entries[j].typ.String()
	})

	var b strings.Builder
	b.WriteString(fmt.Sprintf("* Engine (caching=%t):\n", e.caching))
	for _, en := range entries {
		b.WriteString(fmt.Sprintf("\t- %s\n", reflectutils.QualifiedName(en.typ)))
		if len(en.dependencies) == 0 {
			b.WriteString("\t\tnot eligible\n")
			continue
		}
		b.WriteString("\t\tdependencies:\n")
		for _, dep := range en.dependencies {
			b.WriteString(fmt.Sprintf("\t\t\t- %s\n", dep))
		}
	}
	return b.String()
}
