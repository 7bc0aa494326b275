package hypo

import (
	"context"
	"os"
	"reflect"

	"github.com/a-peyrard/hypo/option"
	"github.com/a-peyrard/hypo/str"
	"github.com/rs/zerolog"
)

// EnvResolver resolves string dependencies from the environment variable named after their
// associated name, as is, or else in screaming snake case: "Database.Host" is looked up in
// DATABASE_HOST.
type EnvResolver struct {
	Resolver

	prefix string
	logger zerolog.Logger
}

// NewEnvResolver creates an env resolver, prefix is prepended to the associated names.
func NewEnvResolver(prefix string, opts ...option.Option[ResolverOptions]) *EnvResolver {
	options := buildResolverOptions(opts)
	r := &EnvResolver{
		prefix: prefix,
		logger: options.logger,
	}
	r.Resolver = NewResolver(r)
	return r
}

func (r *EnvResolver) Lookup(_ context.Context, dep Dependency, _ any) (ResolutionResult, error) {
	if dep.Type().Kind() != reflect.String || dep.AssociatedName() == "" {
		return NotResolved(), nil
	}
	key := r.prefix + dep.AssociatedName()
	value, found := os.LookupEnv(key)
	if !found {
		key = r.prefix + str.ToScreamingSnakeCase(dep.AssociatedName())
		if value, found = os.LookupEnv(key); !found {
			return NotResolved(), nil
		}
	}

	r.logger.Debug().Stringer("dependency", dep).Msgf("Found env variable %s", key)
	// named string types are supported
	return Resolved(reflect.ValueOf(value).Convert(dep.Type()).Interface()), nil
}
