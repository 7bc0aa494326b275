package hypo

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/a-peyrard/hypo/config"
	"github.com/a-peyrard/hypo/option"
	"github.com/rs/zerolog"
)

const SettingsEnvPrefix = "HYPO"

// Settings configures an Injector, see NewInjectorFromSettings. From the environment, lists are
// comma separated: HYPO_MEMBERS="Widget.logger@primary,Widget.SetClock()".
type Settings struct {
	ClassCaching bool   `mapstructure:"class_caching"`
	LogLevel     string `mapstructure:"log_level"`
	TagKey       string `mapstructure:"tag_key"`
	// Members are parsed with ParseMemberSpec.
	Members []string `mapstructure:"members"`
	// Patterns are the mappings of a RegexpResolver, "<regexp> = <factory key>".
	Patterns    []string `mapstructure:"patterns"`
	Concurrency int      `mapstructure:"concurrency"`
}

func (s *Settings) ApplyDefault() {
	if s.LogLevel == "" {
		s.LogLevel = zerolog.LevelInfoValue
	}
	if s.TagKey == "" {
		s.TagKey = DefaultTagKey
	}
}

// LoadSettings loads the settings from the HYPO_ env variables, and the file given as option if any.
func LoadSettings(opts ...option.Option[config.Options]) (*Settings, error) {
	opts = append(
		[]option.Option[config.Options]{
			config.WithEnvPrefix(SettingsEnvPrefix),
			config.WithDefaults(map[string]any{"class_caching": true}),
		},
		opts...,
	)
	settings, err := config.Load[Settings](opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings:\n\t%w", err)
	}
	return settings, nil
}

// Logger creates a console logger writing to stderr at the configured level.
func (s *Settings) Logger() (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s.LogLevel)))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q:\n\t%w", s.LogLevel, err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}

// NewInjectorFromSettings builds a ready Injector. Struct tags are always honored, the configured
// members are honored too, types being looked up in types.
//
// The resolvers are asked in the given order, followed by a RegexpResolver creating values with
// factories when patterns are configured.
func NewInjectorFromSettings(settings *Settings, types *TypeRegistry, factories *FactoryRegistry, resolvers ...Resolver) (*Injector, error) {
	logger, err := settings.Logger()
	if err != nil {
		return nil, err
	}

	if len(settings.Patterns) > 0 {
		if factories == nil {
			return nil, errors.New("patterns are configured but no factory registry was given")
		}
		mapper, err := NewRegexpMapper(settings.Patterns...)
		if err != nil {
			return nil, fmt.Errorf("invalid patterns:\n\t%w", err)
		}
		resolvers = append(resolvers, NewRegexpResolver(mapper, factories, ResolverLogger(logger)))
	}
	resolver := NewCompositeResolver(resolvers...)

	engineOpts := []option.Option[EngineOptions]{
		WithResolver(resolver),
		WithClassCaching(settings.ClassCaching),
		WithLogger(logger),
	}
	strategies := []Strategy{
		NewEngine(NewTagSelector(WithTagKey(settings.TagKey)), engineOpts...),
	}

	if len(settings.Members) > 0 {
		if types == nil {
			return nil, errors.New("members are configured but no type registry was given")
		}
		specs, err := ParseMemberSpecs(types, settings.Members)
		if err != nil {
			return nil, fmt.Errorf("invalid members:\n\t%w", err)
		}
		selector, err := NewMemberSelector(specs)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, NewEngine(selector, engineOpts...))
	}

	var strategy Strategy = strategies[0]
	if len(strategies) > 1 {
		strategy = NewCompositeStrategy(strategies...)
	}

	injector := NewInjector(strategy, InjectorLogger(logger), WithConcurrency(settings.Concurrency))
	if err = injector.Ready(); err != nil {
		return nil, err
	}
	return injector, nil
}
