package hypo

import (
	"context"
	"reflect"
)

type (
	// Strategy performs the injection of an instance.
	Strategy interface {
		// PerformInjection injects instance, considering its type and every struct type it embeds.
		// It returns true if any injection was performed.
		PerformInjection(ctx context.Context, instance any) (bool, error)
		// PerformInjectionFor injects only the dependencies of typ, which must be the type of instance
		// or a type embedded in it.
		PerformInjectionFor(ctx context.Context, instance any, typ reflect.Type) (bool, error)
	}

	// CompositeStrategy gives the instance to every strategy.
	CompositeStrategy struct {
		strategies []Strategy
	}
)

func NewCompositeStrategy(strategies ...Strategy) *CompositeStrategy {
	return &CompositeStrategy{strategies: strategies}
}

func (c *CompositeStrategy) PerformInjection(ctx context.Context, instance any) (bool, error) {
	return c.each(func(strategy Strategy) (bool, error) {
		return strategy.PerformInjection(ctx, instance)
	})
}

func (c *CompositeStrategy) PerformInjectionFor(ctx context.Context, instance any, typ reflect.Type) (bool, error) {
	return c.each(func(strategy Strategy) (bool, error) {
		return strategy.PerformInjectionFor(ctx, instance, typ)
	})
}

// Strategies returns the strategies in the order they are applied.
func (c *CompositeStrategy) Strategies() []Strategy {
	return c.strategies
}

func (c *CompositeStrategy) each(apply func(strategy Strategy) (bool, error)) (bool, error) {
	performed := false
	for _, strategy := range c.strategies {
		done, err := apply(strategy)
		if err != nil {
			return performed, err
		}
		performed = performed || done
	}
	return performed, nil
}
