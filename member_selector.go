package hypo

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/a-peyrard/hypo/option"
	"github.com/a-peyrard/hypo/reflectutils"
	"github.com/a-peyrard/hypo/slices"
)

type (
	// MemberSpec designates a member of a struct type to treat as a dependency.
	MemberSpec struct {
		Owner  reflect.Type
		Member string
		Setter bool
		Name   string
	}

	// MemberRegistry lists member specs, typically generated by cmd/generator.
	MemberRegistry interface {
		Members() []MemberSpec
	}

	// EmptyRegistry is embedded by the struct on which cmd/generator generates the Members method.
	EmptyRegistry struct{}

	// TypeRegistry maps names to types, to designate types in configuration.
	TypeRegistry struct {
		mu    sync.RWMutex
		types map[string]reflect.Type
	}

	// MemberSelector selects an explicit list of members. A member is selected for the type declaring it.
	MemberSelector struct {
		specs  []MemberSpec
		byType map[reflect.Type][]Dependency
	}
)

// FieldOf designates the field of T with the given name, name is the associated name of the dependency.
func FieldOf[T any](field string, name string) MemberSpec {
	return MemberSpec{Owner: TypeOf[T](), Member: field, Name: name}
}

// SetterOf designates the setter method of *T with the given name.
func SetterOf[T any](method string, name string) MemberSpec {
	return MemberSpec{Owner: TypeOf[T](), Member: method, Setter: true, Name: name}
}

func (s MemberSpec) String() string {
	member := s.Owner.String() + "." + s.Member
	if s.Setter {
		member += "()"
	}
	if s.Name != "" {
		member += "@" + s.Name
	}
	return member
}

func (EmptyRegistry) Members() []MemberSpec {
	return nil
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[string]reflect.Type)}
}

// RegisterType registers T under its short name ("Widget") and its qualified name
// ("github.com/foo/bar.Widget"), plus any alias given.
func RegisterType[T any](r *TypeRegistry, aliases ...string) *TypeRegistry {
	typ := TypeOf[T]()
	r.Register(typ.Name(), typ)
	r.Register(reflectutils.QualifiedName(typ), typ)
	for _, alias := range aliases {
		r.Register(alias, typ)
	}
	return r
}

func (r *TypeRegistry) Register(name string, typ reflect.Type) *TypeRegistry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[name] = typ
	return r
}

func (r *TypeRegistry) Lookup(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	typ, found := r.types[name]
	return typ, found
}

// ParseMemberSpec parses "<type>.<field>" or "<type>.<SetXxx>()", optionally followed by
// "@<name>", the type being looked up in types.
func ParseMemberSpec(types *TypeRegistry, line string) (MemberSpec, error) {
	line = strings.TrimSpace(line)
	ref, name, _ := strings.Cut(line, "@")

	idx := strings.LastIndex(ref, ".")
	if idx <= 0 || idx == len(ref)-1 {
		return MemberSpec{}, fmt.Errorf("invalid member %q, expected <type>.<member>", line)
	}
	typeName, member := ref[:idx], ref[idx+1:]

	typ, found := types.Lookup(typeName)
	if !found {
		return MemberSpec{}, fmt.Errorf("invalid member %q, unknown type %s", line, typeName)
	}
	method, setter := strings.CutSuffix(member, "()")
	if setter {
		member = method
	}

	return MemberSpec{Owner: typ, Member: member, Setter: setter, Name: strings.TrimSpace(name)}, nil
}

// ParseMemberSpecs parses all the lines, see ParseMemberSpec.
func ParseMemberSpecs(types *TypeRegistry, lines []string) ([]MemberSpec, error) {
	return slices.UnsafeMap(lines, func(line string) (MemberSpec, error) {
		return ParseMemberSpec(types, line)
	})
}

func NewMemberSelector(specs []MemberSpec, opts ...option.Option[SelectorOptions]) (*MemberSelector, error) {
	options := buildSelectorOptions(opts)
	s := &MemberSelector{
		specs:  specs,
		byType: make(map[reflect.Type][]Dependency),
	}
	for _, spec := range specs {
		member, err := spec.member()
		if err != nil {
			return nil, err
		}
		dep, err := options.factory.CreateDependency(member, spec.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to create dependency for member %s:\n\t%w", spec, err)
		}
		s.byType[spec.Owner] = append(s.byType[spec.Owner], dep)
	}
	return s, nil
}

func MustMemberSelector(specs []MemberSpec, opts ...option.Option[SelectorOptions]) *MemberSelector {
	s, err := NewMemberSelector(specs, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create member selector:\n\t%v", err))
	}
	return s
}

func (s *MemberSelector) SelectDependencies(_ context.Context, typ reflect.Type) ([]Dependency, error) {
	return s.byType[typ], nil
}

// Specs returns the member specs the selector was built from.
func (s *MemberSelector) Specs() []MemberSpec {
	return s.specs
}

func (s MemberSpec) member() (Member, error) {
	if s.Owner == nil {
		return nil, fmt.Errorf("member %s has no owner type", s.Member)
	}
	if s.Setter {
		return NewSetterMember(s.Owner, s.Member)
	}
	return NewFieldMember(s.Owner, s.Member)
}
