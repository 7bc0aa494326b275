package hypo

import (
	"context"
	"reflect"

	"github.com/a-peyrard/hypo/option"
)

const DefaultTagKey = "inject"

type (
	// Selector determines which dependencies apply to a struct type. An empty result means the type
	// is not eligible for injection.
	//
	// The result must only depend on the type, and be in a stable order. Selectors performing nested
	// injections must pass ctx along, or a context derived from it with Detach, it carries the cycle
	// detection state. With caching, a nested injection of the type being selected made with an
	// unrelated context (e.g. context.Background()) blocks forever on the selection lock.
	Selector interface {
		SelectDependencies(ctx context.Context, typ reflect.Type) ([]Dependency, error)
	}

	SelectorFunc func(ctx context.Context, typ reflect.Type) ([]Dependency, error)

	SelectorOptions struct {
		tagKey  string
		factory DependencyFactory
	}
)

func (f SelectorFunc) SelectDependencies(ctx context.Context, typ reflect.Type) ([]Dependency, error) {
	return f(ctx, typ)
}

// WithTagKey sets the struct tag key marking dependencies, "inject" by default.
func WithTagKey(key string) option.Option[SelectorOptions] {
	return func(opts *SelectorOptions) {
		opts.tagKey = key
	}
}

// WithDependencyFactory sets the factory creating dependencies from members.
func WithDependencyFactory(factory DependencyFactory) option.Option[SelectorOptions] {
	return func(opts *SelectorOptions) {
		opts.factory = factory
	}
}

func buildSelectorOptions(opts []option.Option[SelectorOptions]) *SelectorOptions {
	return option.Build(
		&SelectorOptions{
			tagKey:  DefaultTagKey,
			factory: DefaultDependencyFactory{},
		},
		opts...,
	)
}
