package hypo

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/a-peyrard/hypo/reflectutils"
)

type (
	// Dependency describes one member of a type that needs an externally supplied value.
	Dependency interface {
		// Type is the type of the value required to satisfy the dependency.
		Type() reflect.Type
		// AssociatedName is a hint to guide resolvers, not necessarily the name of any real member.
		AssociatedName() string
		// Member is the underlying struct member, nil if the dependency does not represent one.
		Member() Member
		// Inject commits value into target, it is the only point of mutation of the target.
		Inject(target any, value any) error

		fmt.Stringer
	}

	// Member identifies a struct member that can receive a value.
	Member interface {
		DeclaringType() reflect.Type
		Name() string
	}

	// FieldMember is a field declared on a struct type, exported or not.
	FieldMember struct {
		Owner reflect.Type
		Field reflect.StructField
	}

	// SetterMember is an exported method of *Owner named SetXxx taking exactly one argument.
	SetterMember struct {
		Owner  reflect.Type
		Method reflect.Method
	}

	DependencyFactory interface {
		CreateDependency(member Member, name string) (Dependency, error)
	}

	// DefaultDependencyFactory supports fields and simple setter methods.
	DefaultDependencyFactory struct{}

	FieldDependency struct {
		member FieldMember
		name   string
	}

	SetterDependency struct {
		member SetterMember
		name   string
	}

	funcDependency struct {
		typ    reflect.Type
		name   string
		inject func(target any, value reflect.Value) error
	}
)

// NewFieldMember finds the field declared (not promoted) on owner with the given name.
func NewFieldMember(owner reflect.Type, fieldName string) (FieldMember, error) {
	if owner.Kind() != reflect.Struct {
		return FieldMember{}, fmt.Errorf("could not find field %s on %s: not a struct", fieldName, owner)
	}
	for i := 0; i < owner.NumField(); i++ {
		if f := owner.Field(i); f.Name == fieldName {
			return FieldMember{Owner: owner, Field: f}, nil
		}
	}
	return FieldMember{}, fmt.Errorf("could not find field %s on %s", fieldName, owner)
}

// NewSetterMember finds the simple setter method with the given name on *owner.
func NewSetterMember(owner reflect.Type, methodName string) (SetterMember, error) {
	if owner.Kind() != reflect.Struct {
		return SetterMember{}, fmt.Errorf("could not find simple setter method %s on %s: not a struct", methodName, owner)
	}
	method, found := reflect.PointerTo(owner).MethodByName(methodName)
	// the receiver is the first input
	if !found || !strings.HasPrefix(methodName, "Set") || method.Type.NumIn() != 2 {
		return SetterMember{}, fmt.Errorf("could not find simple setter method %s on %s", methodName, owner)
	}
	return SetterMember{Owner: owner, Method: method}, nil
}

func (m FieldMember) DeclaringType() reflect.Type {
	return m.Owner
}

func (m FieldMember) Name() string {
	return m.Field.Name
}

func (m SetterMember) DeclaringType() reflect.Type {
	return m.Owner
}

func (m SetterMember) Name() string {
	return m.Method.Name
}

func (DefaultDependencyFactory) CreateDependency(member Member, name string) (Dependency, error) {
	switch m := member.(type) {
	case FieldMember:
		return NewFieldDependency(m, name), nil
	case SetterMember:
		return NewSetterDependency(m, name), nil
	default:
		return nil, fmt.Errorf("unsupported member %T, only fields and simple setter methods are supported", member)
	}
}

func NewFieldDependency(member FieldMember, name string) *FieldDependency {
	return &FieldDependency{member: member, name: name}
}

func (d *FieldDependency) Type() reflect.Type {
	return d.member.Field.Type
}

func (d *FieldDependency) AssociatedName() string {
	return d.name
}

func (d *FieldDependency) Member() Member {
	return d.member
}

func (d *FieldDependency) Inject(target any, value any) error {
	holder, err := locateHolder(target, d.member.Owner)
	if err != nil {
		return &InjectionError{Dependency: d, Target: target, Cause: err}
	}
	toSet, err := valueFor(d.Type(), value)
	if err != nil {
		return &InjectionError{Dependency: d, Target: target, Cause: err}
	}
	reflectutils.Writable(holder.Field(d.member.Field.Index[0])).Set(toSet)
	return nil
}

func (d *FieldDependency) String() string {
	return describe("field", d.member.Owner.Name()+"."+d.member.Field.Name, d.name)
}

func NewSetterDependency(member SetterMember, name string) *SetterDependency {
	return &SetterDependency{member: member, name: name}
}

func (d *SetterDependency) Type() reflect.Type {
	return d.member.Method.Type.In(1)
}

func (d *SetterDependency) AssociatedName() string {
	return d.name
}

func (d *SetterDependency) Member() Member {
	return d.member
}

func (d *SetterDependency) Inject(target any, value any) error {
	holder, err := locateHolder(target, d.member.Owner)
	if err != nil {
		return &InjectionError{Dependency: d, Target: target, Cause: err}
	}
	arg, err := valueFor(d.Type(), value)
	if err != nil {
		return &InjectionError{Dependency: d, Target: target, Cause: err}
	}
	out := holder.Addr().MethodByName(d.member.Method.Name).Call([]reflect.Value{arg})
	// a setter may report a failure through a trailing error
	if len(out) > 0 && out[len(out)-1].Type() == ErrorType && !out[len(out)-1].IsNil() {
		return &InjectionError{Dependency: d, Target: target, Cause: out[len(out)-1].Interface().(error)}
	}
	return nil
}

func (d *SetterDependency) String() string {
	return describe("setter", d.member.Owner.Name()+"."+d.member.Method.Name+"()", d.name)
}

// NewFuncDependency creates a dependency that is not backed by a struct member, the value is
// committed by calling inject.
func NewFuncDependency[T any](name string, inject func(target any, value T) error) Dependency {
	return &funcDependency{
		typ:  TypeOf[T](),
		name: name,
		inject: func(target any, value reflect.Value) error {
			typed, _ := value.Interface().(T)
			return inject(target, typed)
		},
	}
}

func (d *funcDependency) Type() reflect.Type {
	return d.typ
}

func (d *funcDependency) AssociatedName() string {
	return d.name
}

func (d *funcDependency) Member() Member {
	return nil
}

func (d *funcDependency) Inject(target any, value any) error {
	v, err := valueFor(d.typ, value)
	if err != nil {
		return &InjectionError{Dependency: d, Target: target, Cause: err}
	}
	if err = d.inject(target, v); err != nil {
		return &InjectionError{Dependency: d, Target: target, Cause: err}
	}
	return nil
}

func (d *funcDependency) String() string {
	return describe("func", d.typ.String(), d.name)
}

func describe(kind, member, name string) string {
	if name == "" {
		return fmt.Sprintf("[%s %s]", kind, member)
	}
	return fmt.Sprintf("[%s %s @%q]", kind, member, name)
}

// locateHolder finds in target the struct value declaring the member.
func locateHolder(target any, owner reflect.Type) (reflect.Value, error) {
	if _, ok := structType(target); !ok {
		return reflect.Value{}, fmt.Errorf("target must be a non nil pointer to a struct, got %T", target)
	}
	holder, found := reflectutils.Locate(reflect.ValueOf(target), owner)
	if !found {
		return reflect.Value{}, fmt.Errorf("%T does not embed %s", target, owner)
	}
	return holder, nil
}

// valueFor converts the resolved value to a reflect.Value assignable to typ, nil becomes the zero
// value of nillable types.
func valueFor(typ reflect.Type, value any) (reflect.Value, error) {
	if value == nil {
		switch typ.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(typ), nil
		default:
			return reflect.Value{}, errors.New("cannot inject nil into a value of type " + typ.String())
		}
	}
	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(typ) {
		return reflect.Value{}, fmt.Errorf("value of type %s is not assignable to %s", v.Type(), typ)
	}
	return v, nil
}
