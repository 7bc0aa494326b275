package hypo

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

type (
	// Name identifies a component of a Registry: a name and the type it was registered as.
	Name struct {
		name string
		typ  reflect.Type
	}

	// Closeable is an interface that can be used to close resources.
	Closeable interface {
		Close() error
	}

	// Registry is a minimal named component container, resolvers can look components up by type,
	// by name, or by a name computed from the dependency type.
	Registry struct {
		mu         sync.RWMutex
		components map[Name]any
		order      []Name
	}
)

func (n Name) String() string {
	return fmt.Sprintf("(%s, %s)", n.name, n.typ.String())
}

func NewRegistry() *Registry {
	return &Registry{
		components: make(map[Name]any),
	}
}

// Register adds a component under name, using its dynamic type.
func (r *Registry) Register(name string, comp any) error {
	if comp == nil {
		return fmt.Errorf("cannot register nil component %q", name)
	}
	return r.put(Name{name: name, typ: reflect.TypeOf(comp)}, comp)
}

// RegisterAs adds a component under name, registered as the type T.
func RegisterAs[T any](r *Registry, name string, comp T) error {
	return r.put(Name{name: name, typ: TypeOf[T]()}, comp)
}

func (r *Registry) MustRegister(name string, comp any) *Registry {
	if err := r.Register(name, comp); err != nil {
		panic(fmt.Sprintf("failed to register component %s:\n\t%v", name, err))
	}
	return r
}

func (r *Registry) put(n Name, comp any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.components[n]; exists {
		return fmt.Errorf("component %s is already registered", n)
	}
	r.components[n] = comp
	r.order = append(r.order, n)
	return nil
}

// Get returns the component registered under name and satisfying typ.
func (r *Registry) Get(name string, typ reflect.Type) (any, error) {
	found := r.find(queryByName{name: Name{name: name, typ: typ}})
	if err := (validatorUniqueMandatory{}).validate(found); err != nil {
		return nil, fmt.Errorf("failed to get component %s:\n\t%w", Name{name: name, typ: typ}, err)
	}
	return found[0].comp, nil
}

// ListNames lists the names of the components, in registration order.
func (r *Registry) ListNames() []Name {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]Name, len(r.order))
	copy(names, r.order)
	return names
}

func (r *Registry) find(q query) []*queryResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*queryResult
	for _, n := range r.order {
		if q.want(n) {
			results = append(results, &queryResult{name: n, comp: r.components[n]})
		}
	}
	return results
}

// Close closes all the Closeable components, in reverse registration order.
func (r *Registry) Close() error {
	closeErrors := make([]error, 0)
	names := r.ListNames()
	for i := len(names) - 1; i >= 0; i-- {
		r.mu.RLock()
		comp := r.components[names[i]]
		r.mu.RUnlock()

		if closeable, ok := comp.(Closeable); ok && !isNil(comp) {
			if err := closeable.Close(); err != nil {
				closeErrors = append(closeErrors, fmt.Errorf("failed to close component %s:\n\t%w", names[i], err))
			}
		}
	}

	return errors.Join(closeErrors...)
}
