package hypo

import (
	"context"
	"reflect"
	"strings"

	"github.com/a-peyrard/hypo/option"
	"github.com/a-peyrard/hypo/structs"
	"github.com/rs/zerolog"
)

// ConfigResolver resolves dependencies whose associated name is a path in a configuration struct,
// e.g. "Database.Host". The path can be prefixed by the config type name, "AppConfig.Database.Host".
type ConfigResolver[C any] struct {
	Resolver

	cfg    C
	prefix string
	logger zerolog.Logger
}

func NewConfigResolver[C any](cfg C, opts ...option.Option[ResolverOptions]) *ConfigResolver[C] {
	options := buildResolverOptions(opts)
	typ := TypeOf[C]()
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	r := &ConfigResolver[C]{
		cfg:    cfg,
		prefix: typ.Name() + ".",
		logger: options.logger,
	}
	r.Resolver = NewResolver(r)
	return r
}

func (r *ConfigResolver[C]) Lookup(_ context.Context, dep Dependency, _ any) (ResolutionResult, error) {
	if dep.AssociatedName() == "" {
		return NotResolved(), nil
	}
	path := strings.TrimPrefix(dep.AssociatedName(), r.prefix)

	value, err := structs.Lookup(r.cfg, path)
	if err != nil {
		r.logger.Debug().Err(err).Stringer("dependency", dep).Msg("Not found in config, skipping")
		return NotResolved(), nil
	}
	if value.Kind() == reflect.Interface && !value.IsNil() {
		value = value.Elem()
	}
	if !value.Type().AssignableTo(dep.Type()) {
		r.logger.Debug().Stringer("dependency", dep).Msgf("Config value at %s has type %s, skipping", path, value.Type())
		return NotResolved(), nil
	}

	r.logger.Debug().Stringer("dependency", dep).Msgf("Found config value at %s", path)
	return Resolved(nilIfNil(value.Interface())), nil
}
