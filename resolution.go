package hypo

import (
	"context"
	"fmt"
)

type (
	// InjectionAware is implemented by values wanting to know they are about to be injected.
	InjectionAware interface {
		// BeforeInjection is called just before the value is committed into target to satisfy dep.
		BeforeInjection(target any, dep Dependency)
	}

	// InjectionFactory produces the value to inject only when the injection happens.
	InjectionFactory interface {
		Get(ctx context.Context, target any, dep Dependency) (any, error)
	}

	InjectionFactoryFunc func(ctx context.Context, target any, dep Dependency) (any, error)

	resolutionKind int

	// ResolutionResult is what a Lookup found for a dependency: nothing, a value (possibly nil, which
	// is an explicit nil binding) or a factory to call to get the value.
	ResolutionResult struct {
		kind    resolutionKind
		value   any
		factory InjectionFactory
	}
)

const (
	notResolved resolutionKind = iota
	resolvedImmediate
	resolvedDeferred
)

func (f InjectionFactoryFunc) Get(ctx context.Context, target any, dep Dependency) (any, error) {
	return f(ctx, target, dep)
}

func NotResolved() ResolutionResult {
	return ResolutionResult{kind: notResolved}
}

func Resolved(value any) ResolutionResult {
	return ResolutionResult{kind: resolvedImmediate, value: value}
}

// Deferred creates a result whose value is produced by factory at injection time.
// A nil factory is an explicit nil binding.
func Deferred(factory InjectionFactory) ResolutionResult {
	if factory == nil {
		return Resolved(nil)
	}
	return ResolutionResult{kind: resolvedDeferred, factory: factory}
}

func (r ResolutionResult) IsResolved() bool {
	return r.kind != notResolved
}

func (r ResolutionResult) IsDeferred() bool {
	return r.kind == resolvedDeferred
}

func (r ResolutionResult) Value() any {
	return r.value
}

func (r ResolutionResult) Factory() InjectionFactory {
	return r.factory
}

func (r ResolutionResult) String() string {
	switch r.kind {
	case resolvedImmediate:
		return fmt.Sprintf("<resolved %v>", r.value)
	case resolvedDeferred:
		return fmt.Sprintf("<deferred %T>", r.factory)
	default:
		return "<not resolved>"
	}
}
