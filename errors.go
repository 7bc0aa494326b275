package hypo

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/a-peyrard/hypo/reflectutils"
	"github.com/a-peyrard/hypo/slices"
)

var (
	ErrCyclicDependency       = errors.New("cyclic dependency")
	ErrUnresolvedDependencies = errors.New("unresolved dependencies")
	ErrAmbiguousBinding       = errors.New("ambiguous binding")
	ErrInjectionFailed        = errors.New("injection failed")
	ErrInvalidTarget          = errors.New("invalid injection target")
)

type (
	// CyclicDependencyError is returned when a type is processed again while it is already being
	// processed on the same call stack.
	CyclicDependencyError struct {
		Type reflect.Type
		// Path lists the types being processed, from the first occurrence of Type to the current one.
		Path []reflect.Type
	}

	// UnresolvedDependenciesError is returned when some dependencies of an eligible instance could not
	// be resolved by the resolver chain.
	UnresolvedDependenciesError struct {
		Target     any
		Unresolved []Dependency
	}

	// AmbiguousBindingError is returned when a resolver finds more than one candidate for a dependency.
	// It is a configuration error, never recovered by trying the next resolver.
	AmbiguousBindingError struct {
		Dependency Dependency
		Candidates []string
	}

	// InjectionError is returned when a value cannot be committed into the target.
	InjectionError struct {
		Dependency Dependency
		Target     any
		Cause      error
	}
)

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf(
		"cyclic dependency detected on attempt to inject an instance of %s:\n%s",
		e.Type,
		formatCycle(e.Path),
	)
}

func (e *CyclicDependencyError) Is(target error) bool {
	return target == ErrCyclicDependency
}

func (e *UnresolvedDependenciesError) Error() string {
	return fmt.Sprintf(
		"could not resolve dependencies for %s; specifically the following dependencies: [%s]",
		instanceName(e.Target),
		strings.Join(slices.Map(e.Unresolved, Dependency.String), ", "),
	)
}

func (e *UnresolvedDependenciesError) Is(target error) bool {
	return target == ErrUnresolvedDependencies
}

func (e *AmbiguousBindingError) Error() string {
	return fmt.Sprintf(
		"multiple candidates found for dependency %s, expected one and only one, got %d: [%s]",
		e.Dependency,
		len(e.Candidates),
		strings.Join(e.Candidates, ", "),
	)
}

func (e *AmbiguousBindingError) Is(target error) bool {
	return target == ErrAmbiguousBinding
}

func (e *InjectionError) Error() string {
	return fmt.Sprintf("failed to inject %s into %s:\n\t%v", e.Dependency, instanceName(e.Target), e.Cause)
}

func (e *InjectionError) Is(target error) bool {
	return target == ErrInjectionFailed
}

func (e *InjectionError) Unwrap() error {
	return e.Cause
}

// instanceName gives a display name for an instance, without calling any of its methods.
func instanceName(obj any) string {
	if obj == nil {
		return "<nil>"
	}
	typ := reflect.TypeOf(obj)
	if typ.Kind() == reflect.Pointer {
		return fmt.Sprintf("%s@%p", reflectutils.QualifiedName(typ.Elem()), obj)
	}
	return reflectutils.QualifiedName(typ)
}

func formatCycle(cycle []reflect.Type) string {
	var b strings.Builder
	for i, typ := range cycle {
		b.WriteString(strings.Repeat("\t", i))
		if i > 0 {
			b.WriteString(" -> ")
		}
		b.WriteString(typ.String())
		b.WriteString("\n")
	}
	return b.String()
}
