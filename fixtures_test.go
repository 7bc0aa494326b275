package hypo

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
	"time"
)

type (
	Logger interface {
		Log(msg string)
	}

	consoleLogger struct {
		name string

		mu      sync.Mutex
		lines   []string
		targets []any
		deps    []Dependency
	}

	Clock interface {
		Now() time.Time
	}

	fixedClock struct {
		at time.Time
	}

	Widget struct {
		logger Logger `inject:"primary"`
	}

	Dashboard struct {
		logger Logger `inject:"primary"`
		clock  Clock  `inject:""`
		title  string `inject:"title"`
		notes  string
	}

	Base struct {
		logger Logger `inject:"base"`
	}

	Middle struct {
		*Base
		clock Clock `inject:""`
	}

	Gadget struct {
		Middle
		name string `inject:"gadget.name"`
	}

	Plain struct {
		Name  string
		count int
	}

	countingSelector struct {
		delegate Selector
		calls    sync.Map // reflect.Type -> *atomic.Int32
	}
)

func (l *consoleLogger) Log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, msg)
}

func (l *consoleLogger) BeforeInjection(target any, dep Dependency) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.targets = append(l.targets, target)
	l.deps = append(l.deps, dep)
}

func (c fixedClock) Now() time.Time {
	return c.at
}

func newCountingSelector(delegate Selector) *countingSelector {
	return &countingSelector{delegate: delegate}
}

func (s *countingSelector) SelectDependencies(ctx context.Context, typ reflect.Type) ([]Dependency, error) {
	counter, _ := s.calls.LoadOrStore(typ, &atomic.Int32{})
	counter.(*atomic.Int32).Add(1)
	return s.delegate.SelectDependencies(ctx, typ)
}

func (s *countingSelector) callsFor(typ reflect.Type) int {
	counter, found := s.calls.Load(typ)
	if !found {
		return 0
	}
	return int(counter.(*atomic.Int32).Load())
}

// committing creates a resolver committing value for every dependency.
func committing(value any, calls *atomic.Int32) Resolver {
	return ResolverFunc(func(_ context.Context, dep Dependency, target any) (bool, error) {
		if calls != nil {
			calls.Add(1)
		}
		return true, Commit(dep, target, value)
	})
}
