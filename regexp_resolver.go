package hypo

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/a-peyrard/hypo/option"
	"github.com/a-peyrard/hypo/reflectutils"
	"github.com/a-peyrard/hypo/slices"
	"github.com/rs/zerolog"
)

// SingletonMarker prefixes a mapped key to ask for a single shared instance.
const SingletonMarker = "!"

var placeholderRegexp = regexp.MustCompile(`\{(\d+)\}`)

type (
	// RegexpMapper maps types to strings, using their qualified name (see reflectutils.QualifiedName).
	//
	// Mappings are written "<regexp> = <template>", the regexp must match the whole name and the
	// template can refer to the capture groups with {0}, {1}, ...
	RegexpMapper struct {
		mappings []mapping
	}

	mapping struct {
		pattern  *regexp.Regexp
		template string
	}

	// FactoryRegistry maps keys to functions creating new instances.
	FactoryRegistry struct {
		mu        sync.RWMutex
		factories map[string]func() (any, error)
	}

	// RegexpResolver creates a new instance for every dependency whose type is mapped to a factory
	// key. Keys starting with SingletonMarker get one instance per key.
	RegexpResolver struct {
		Resolver

		mapper    *RegexpMapper
		factories *FactoryRegistry

		mu         sync.Mutex
		singletons map[string]any

		logger zerolog.Logger
	}
)

func NewRegexpMapper(mappings ...string) (*RegexpMapper, error) {
	parsed, err := slices.UnsafeMap(mappings, parseMapping)
	if err != nil {
		return nil, err
	}
	return &RegexpMapper{mappings: parsed}, nil
}

func parseMapping(item string) (mapping, error) {
	idx := strings.LastIndex(item, "=")
	if idx < 0 {
		return mapping{}, fmt.Errorf("invalid mapping %q, expected <regexp> = <template>", item)
	}
	pattern, err := regexp.Compile(`^(?:` + strings.TrimSpace(item[:idx]) + `)$`)
	if err != nil {
		return mapping{}, fmt.Errorf("invalid pattern in mapping %q:\n\t%w", item, err)
	}
	return mapping{pattern: pattern, template: strings.TrimSpace(item[idx+1:])}, nil
}

// Map returns the string mapped for typ by the first matching mapping.
func (m *RegexpMapper) Map(typ reflect.Type) (string, bool) {
	name := reflectutils.QualifiedName(typ)
	for _, mp := range m.mappings {
		groups := mp.pattern.FindStringSubmatch(name)
		if groups == nil {
			continue
		}
		return placeholderRegexp.ReplaceAllStringFunc(mp.template, func(placeholder string) string {
			idx, _ := strconv.Atoi(placeholder[1 : len(placeholder)-1])
			if idx+1 >= len(groups) {
				return placeholder
			}
			return groups[idx+1]
		}), true
	}
	return "", false
}

func NewFactoryRegistry() *FactoryRegistry {
	return &FactoryRegistry{factories: make(map[string]func() (any, error))}
}

func (f *FactoryRegistry) Register(key string, factory func() (any, error)) *FactoryRegistry {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.factories[key] = factory
	return f
}

// RegisterFactory registers a typed factory under key.
func RegisterFactory[T any](f *FactoryRegistry, key string, factory func() T) *FactoryRegistry {
	return f.Register(key, func() (any, error) {
		return factory(), nil
	})
}

func (f *FactoryRegistry) Create(key string) (any, error) {
	f.mu.RLock()
	factory, found := f.factories[key]
	f.mu.RUnlock()
	if !found {
		return nil, fmt.Errorf("no factory registered for %q", key)
	}
	return factory()
}

func NewRegexpResolver(mapper *RegexpMapper, factories *FactoryRegistry, opts ...option.Option[ResolverOptions]) *RegexpResolver {
	options := buildResolverOptions(opts)
	r := &RegexpResolver{
		mapper:     mapper,
		factories:  factories,
		singletons: make(map[string]any),
		logger:     options.logger,
	}
	r.Resolver = NewResolver(r)
	return r
}

func (r *RegexpResolver) Lookup(_ context.Context, dep Dependency, _ any) (ResolutionResult, error) {
	key, found := r.mapper.Map(dep.Type())
	if !found {
		return NotResolved(), nil
	}

	var (
		instance any
		err      error
	)
	if singletonKey, singleton := strings.CutPrefix(key, SingletonMarker); singleton {
		instance, err = r.singleton(singletonKey)
	} else {
		instance, err = r.factories.Create(key)
	}
	if err != nil {
		return NotResolved(), fmt.Errorf("failed to create instance %q mapped for %s:\n\t%w", key, dep, err)
	}

	r.logger.Debug().Stringer("dependency", dep).Msgf("Created instance %q", key)
	return Resolved(instance), nil
}

func (r *RegexpResolver) singleton(key string) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if instance, found := r.singletons[key]; found {
		return instance, nil
	}
	instance, err := r.factories.Create(key)
	if err != nil {
		return nil, err
	}
	r.singletons[key] = instance
	return instance, nil
}
