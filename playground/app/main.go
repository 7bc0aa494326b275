package main

import (
	"context"
	"fmt"
	"os"

	"github.com/a-peyrard/hypo"
	"github.com/a-peyrard/hypo/config"
	"github.com/a-peyrard/hypo/option"
	appconfig "github.com/a-peyrard/hypo/playground/app/config"
	"github.com/a-peyrard/hypo/playground/app/registry"
	"github.com/a-peyrard/hypo/playground/app/services"
	"github.com/rs/zerolog"
)

const envPrefix = "APP"

func main() {
	settings, err := hypo.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		os.Exit(1)
	}
	logger, err := settings.Logger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}

	if err = run(context.Background(), settings, logger); err != nil {
		logger.Fatal().Err(err).Msg("Error running app")
	}
	logger.Info().Msg("bye.")
}

func run(ctx context.Context, settings *hypo.Settings, logger zerolog.Logger) error {
	cfg, err := config.Load[appconfig.AppConfig](config.WithEnvPrefix(envPrefix))
	if err != nil {
		return err
	}

	named := hypo.NewNamedResolver(hypo.ResolverLogger(logger)).
		Bind("primary", services.NewConsoleLogger(logger))
	byType := hypo.NewTypeMappingResolver(hypo.ResolverLogger(logger))
	hypo.Bind[services.Clock](byType, services.SystemClock{})

	resolver := hypo.NewCompositeResolver(
		named,
		byType,
		hypo.NewEnvResolver(envPrefix+"_", hypo.ResolverLogger(logger)),
		hypo.NewConfigResolver(cfg, hypo.ResolverLogger(logger)),
	)
	engineOpts := []option.Option[hypo.EngineOptions]{
		hypo.WithResolver(resolver),
		hypo.WithClassCaching(settings.ClassCaching),
		hypo.WithLogger(logger),
	}
	members, err := hypo.NewMemberSelector(registry.Registry{}.Members())
	if err != nil {
		return err
	}
	tags := hypo.NewEngine(hypo.NewTagSelector(hypo.WithTagKey(settings.TagKey)), engineOpts...)
	annotated := hypo.NewEngine(members, engineOpts...)

	injector := hypo.NewInjector(
		hypo.NewCompositeStrategy(tags, annotated),
		hypo.InjectorLogger(logger),
		hypo.WithConcurrency(settings.Concurrency),
	)
	if err = injector.Ready(); err != nil {
		return err
	}

	greeter := &services.Greeter{}
	if _, err = injector.Inject(ctx, greeter); err != nil {
		return err
	}
	hypo.Bind(byType, greeter)

	reporters := []*services.Reporter{{}, {}}
	if err = injector.InjectAll(ctx, reporters[0], reporters[1]); err != nil {
		return err
	}
	for i, reporter := range reporters {
		reporter.Report(fmt.Sprintf("#%d", i))
	}

	logger.Debug().Msgf("here is what the engines know:\n%s%s", tags.Describe(), annotated.Describe())
	return nil
}
