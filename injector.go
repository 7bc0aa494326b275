package hypo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/a-peyrard/hypo/option"
	"github.com/a-peyrard/hypo/runner"
	"github.com/rs/zerolog"
)

var ErrInjectorReady = errors.New("injector is ready, its strategy cannot be changed anymore")

type (
	// Injector is the entry point to inject instances. It is configured with a strategy, then marked
	// ready, after which the strategy is frozen.
	Injector struct {
		mu       sync.RWMutex
		strategy Strategy
		ready    bool

		logger      zerolog.Logger
		concurrency int
	}

	InjectorOptions struct {
		logger      zerolog.Logger
		concurrency int
	}
)

func InjectorLogger(logger zerolog.Logger) option.Option[InjectorOptions] {
	return func(opts *InjectorOptions) {
		opts.logger = logger
	}
}

// WithConcurrency limits the number of instances injected at the same time by InjectAll,
// no limit if <= 0.
func WithConcurrency(limit int) option.Option[InjectorOptions] {
	return func(opts *InjectorOptions) {
		opts.concurrency = limit
	}
}

func NewInjector(strategy Strategy, opts ...option.Option[InjectorOptions]) *Injector {
	options := option.Build(&InjectorOptions{logger: zerolog.Nop()}, opts...)
	return &Injector{
		strategy:    strategy,
		logger:      options.logger,
		concurrency: options.concurrency,
	}
}

func (i *Injector) SetStrategy(strategy Strategy) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.ready {
		return ErrInjectorReady
	}
	i.strategy = strategy
	return nil
}

func (i *Injector) Strategy() Strategy {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.strategy
}

// Ready freezes the strategy, it fails if no strategy was configured.
func (i *Injector) Ready() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.strategy == nil {
		return errors.New("no injection strategy configured")
	}
	i.ready = true
	i.logger.Debug().Msgf("injector ready with strategy %T", i.strategy)
	return nil
}

func (i *Injector) IsReady() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.ready
}

// Inject injects instance, a pointer to a struct. It returns true if any injection was performed.
func (i *Injector) Inject(ctx context.Context, instance any) (bool, error) {
	strategy := i.Strategy()
	if strategy == nil {
		return false, errors.New("no injection strategy configured")
	}
	return strategy.PerformInjection(ctx, instance)
}

func (i *Injector) MustInject(ctx context.Context, instance any) bool {
	done, err := i.Inject(ctx, instance)
	if err != nil {
		panic(fmt.Sprintf("failed to inject %s:\n\t%v", instanceName(instance), err))
	}
	return done
}

// InjectAll injects the instances concurrently, each one on its own call stack. The first error
// is returned once every started injection is over.
func (i *Injector) InjectAll(ctx context.Context, instances ...any) error {
	return runner.Each(ctx, i.concurrency, instances, func(ctx context.Context, instance any) error {
		if _, err := i.Inject(Detach(ctx), instance); err != nil {
			return fmt.Errorf("failed to inject %s:\n\t%w", instanceName(instance), err)
		}
		return nil
	})
}
