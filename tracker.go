package hypo

import (
	"context"
	"reflect"
	"sync"

	"github.com/a-peyrard/hypo/set"
)

type (
	// Tracker records the types being processed on one call stack, every independent injection pass
	// gets its own tracker through its context.
	//
	// A tracker created for a detached context keeps its parent: a type in progress in the parent is
	// in progress for the child too, as the parent waits for the child to complete.
	Tracker struct {
		mu      sync.RWMutex
		parent  *Tracker
		visited set.Set[reflect.Type]
		stack   []reflect.Type
	}

	trackerKey struct{}

	parentTrackerKey struct{}
)

func NewTracker() *Tracker {
	return newChildTracker(nil)
}

func newChildTracker(parent *Tracker) *Tracker {
	return &Tracker{
		parent:  parent,
		visited: set.New[reflect.Type](),
		stack:   make([]reflect.Type, 0),
	}
}

// Push registers typ as being processed, it fails if typ is already in progress here or in a parent.
func (tracker *Tracker) Push(typ reflect.Type) error {
	if tracker.InProgress(typ) {
		stack := tracker.fullStack()
		cycle := []reflect.Type{typ}
		for i := len(stack) - 1; i >= 0; i-- {
			cycle = append(cycle, stack[i])
			if stack[i] == typ {
				break
			}
		}
		// the cycle was built backward
		for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
			cycle[i], cycle[j] = cycle[j], cycle[i]
		}

		return &CyclicDependencyError{Type: typ, Path: cycle}
	}

	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	tracker.visited.Add(typ)
	tracker.stack = append(tracker.stack, typ)

	return nil
}

// Remove unregisters typ, wherever it is in the stack.
func (tracker *Tracker) Remove(typ reflect.Type) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	tracker.visited.Remove(typ)
	for i := len(tracker.stack) - 1; i >= 0; i-- {
		if tracker.stack[i] == typ {
			tracker.stack = append(tracker.stack[:i], tracker.stack[i+1:]...)
			return
		}
	}
}

// InProgress returns true if typ is currently being processed, by this tracker or a parent.
func (tracker *Tracker) InProgress(typ reflect.Type) bool {
	for t := tracker; t != nil; t = t.parent {
		t.mu.RLock()
		found := t.visited.Contains(typ)
		t.mu.RUnlock()
		if found {
			return true
		}
	}
	return false
}

// Len returns the number of types in progress in this tracker, parents excluded.
func (tracker *Tracker) Len() int {
	tracker.mu.RLock()
	defer tracker.mu.RUnlock()
	return len(tracker.stack)
}

// fullStack returns the types in progress from the oldest parent to this tracker.
func (tracker *Tracker) fullStack() []reflect.Type {
	var stacks [][]reflect.Type
	for t := tracker; t != nil; t = t.parent {
		t.mu.RLock()
		stack := make([]reflect.Type, len(t.stack))
		copy(stack, t.stack)
		t.mu.RUnlock()
		stacks = append(stacks, stack)
	}

	var full []reflect.Type
	for i := len(stacks) - 1; i >= 0; i-- {
		full = append(full, stacks[i]...)
	}
	return full
}

// WithTracker attaches a tracker to the context, nested injections using this context share it.
func WithTracker(ctx context.Context, tracker *Tracker) context.Context {
	return context.WithValue(ctx, trackerKey{}, tracker)
}

// Detach returns a context that does not carry the tracker of ctx, injections using it start a new
// call stack whose tracker has the one of ctx as parent. Use it when handing the context to another
// goroutine.
//
// Injections started from a context not derived from the one of the current pass, such as
// context.Background(), cannot be related to the pass: re-entering the same Engine for a type
// being selected blocks forever.
func Detach(ctx context.Context) context.Context {
	if parent, found := TrackerFrom(ctx); found {
		ctx = context.WithValue(ctx, parentTrackerKey{}, parent)
	}
	return context.WithValue(ctx, trackerKey{}, (*Tracker)(nil))
}

// TrackerFrom returns the tracker carried by ctx, if any.
func TrackerFrom(ctx context.Context) (*Tracker, bool) {
	tracker, _ := ctx.Value(trackerKey{}).(*Tracker)
	return tracker, tracker != nil
}

// ensureTracker returns the tracker of ctx, creating and attaching one if needed.
func ensureTracker(ctx context.Context) (*Tracker, context.Context) {
	if tracker, found := TrackerFrom(ctx); found {
		return tracker, ctx
	}
	parent, _ := ctx.Value(parentTrackerKey{}).(*Tracker)
	tracker := newChildTracker(parent)
	return tracker, WithTracker(ctx, tracker)
}
