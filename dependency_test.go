package hypo

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	Service struct {
		Name    string
		logger  Logger
		timeout int
	}

	serviceHolder struct {
		*Service
	}

	methodMember struct{}
)

func (s *Service) SetLogger(logger Logger) {
	s.logger = logger
}

func (s *Service) SetTimeout(timeout int) error {
	if timeout < 0 {
		return errors.New("negative timeout")
	}
	s.timeout = timeout
	return nil
}

func (s *Service) SetBoth(_ Logger, _ int) {}

func (s *Service) Configure(_ Logger) {}

func (methodMember) DeclaringType() reflect.Type { return TypeOf[Service]() }
func (methodMember) Name() string                { return "method" }

func mustFieldDependency(t *testing.T, owner reflect.Type, field, name string) Dependency {
	member, err := NewFieldMember(owner, field)
	require.NoError(t, err)
	dep, err := DefaultDependencyFactory{}.CreateDependency(member, name)
	require.NoError(t, err)
	return dep
}

func mustSetterDependency(t *testing.T, owner reflect.Type, method, name string) Dependency {
	member, err := NewSetterMember(owner, method)
	require.NoError(t, err)
	dep, err := DefaultDependencyFactory{}.CreateDependency(member, name)
	require.NoError(t, err)
	return dep
}

func TestNewFieldMember(t *testing.T) {
	t.Run("it should find a field declared on the type", func(t *testing.T) {
		// WHEN
		member, err := NewFieldMember(TypeOf[Service](), "logger")

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "logger", member.Name())
		assert.Equal(t, TypeOf[Service](), member.DeclaringType())
		assert.Equal(t, TypeOf[Logger](), member.Field.Type)
	})

	t.Run("it should not find promoted fields", func(t *testing.T) {
		// WHEN
		_, err := NewFieldMember(TypeOf[Gadget](), "clock")

		// THEN
		assert.Error(t, err)
	})

	t.Run("it should fail for unknown fields and non struct types", func(t *testing.T) {
		_, err := NewFieldMember(TypeOf[Service](), "missing")
		assert.Error(t, err)

		_, err = NewFieldMember(TypeOf[*Service](), "logger")
		assert.Error(t, err)
	})
}

func TestNewSetterMember(t *testing.T) {
	t.Run("it should find a simple setter", func(t *testing.T) {
		// WHEN
		member, err := NewSetterMember(TypeOf[Service](), "SetLogger")

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "SetLogger", member.Name())
		assert.Equal(t, TypeOf[Service](), member.DeclaringType())
	})

	t.Run("it should reject methods which are not simple setters", func(t *testing.T) {
		for _, method := range []string{"SetBoth", "Configure", "SetMissing"} {
			_, err := NewSetterMember(TypeOf[Service](), method)
			assert.Error(t, err, method)
		}
	})
}

func TestDefaultDependencyFactory(t *testing.T) {
	t.Run("it should reject unsupported members", func(t *testing.T) {
		// WHEN
		_, err := DefaultDependencyFactory{}.CreateDependency(methodMember{}, "")

		// THEN
		assert.Error(t, err)
	})
}

func TestFieldDependency(t *testing.T) {
	t.Run("it should describe the field", func(t *testing.T) {
		// GIVEN
		dep := mustFieldDependency(t, TypeOf[Service](), "logger", "primary")

		// THEN
		assert.Equal(t, TypeOf[Logger](), dep.Type())
		assert.Equal(t, "primary", dep.AssociatedName())
		assert.Equal(t, `[field Service.logger @"primary"]`, dep.String())
		assert.Equal(t, "[field Service.timeout]", mustFieldDependency(t, TypeOf[Service](), "timeout", "").String())
	})

	t.Run("it should inject an unexported field", func(t *testing.T) {
		// GIVEN
		logger := &consoleLogger{}
		dep := mustFieldDependency(t, TypeOf[Service](), "logger", "")
		service := &Service{}

		// WHEN
		err := dep.Inject(service, logger)

		// THEN
		require.NoError(t, err)
		assert.Same(t, logger, service.logger)
	})

	t.Run("it should inject nil as the zero value of nillable types", func(t *testing.T) {
		// GIVEN
		dep := mustFieldDependency(t, TypeOf[Service](), "logger", "")
		service := &Service{logger: &consoleLogger{}}

		// WHEN
		err := dep.Inject(service, nil)

		// THEN
		require.NoError(t, err)
		assert.Nil(t, service.logger)
	})

	t.Run("it should fail to inject nil into a non nillable type", func(t *testing.T) {
		// GIVEN
		dep := mustFieldDependency(t, TypeOf[Service](), "timeout", "")
		service := &Service{timeout: 3}

		// WHEN
		err := dep.Inject(service, nil)

		// THEN
		assert.ErrorIs(t, err, ErrInjectionFailed)
		assert.Equal(t, 3, service.timeout)
	})

	t.Run("it should fail to inject a value of the wrong type", func(t *testing.T) {
		// GIVEN
		dep := mustFieldDependency(t, TypeOf[Service](), "timeout", "")

		// WHEN
		err := dep.Inject(&Service{}, "3")

		// THEN
		assert.ErrorIs(t, err, ErrInjectionFailed)
		var injectionErr *InjectionError
		require.ErrorAs(t, err, &injectionErr)
		assert.Same(t, dep, injectionErr.Dependency)
	})

	t.Run("it should fail to inject into something which is not a pointer to the struct", func(t *testing.T) {
		// GIVEN
		dep := mustFieldDependency(t, TypeOf[Service](), "timeout", "")

		// THEN
		assert.ErrorIs(t, dep.Inject(Service{}, 3), ErrInjectionFailed)
		assert.ErrorIs(t, dep.Inject(&Widget{}, 3), ErrInjectionFailed)
	})

	t.Run("it should inject into an embedded struct, allocating it", func(t *testing.T) {
		// GIVEN
		logger := &consoleLogger{}
		dep := mustFieldDependency(t, TypeOf[Base](), "logger", "base")
		gadget := &Gadget{}

		// WHEN
		err := dep.Inject(gadget, logger)

		// THEN
		require.NoError(t, err)
		require.NotNil(t, gadget.Base)
		assert.Same(t, logger, gadget.Base.logger)
	})
}

func TestSetterDependency(t *testing.T) {
	t.Run("it should describe the setter", func(t *testing.T) {
		// GIVEN
		dep := mustSetterDependency(t, TypeOf[Service](), "SetTimeout", "timeout")

		// THEN
		assert.Equal(t, reflect.TypeOf(0), dep.Type())
		assert.Equal(t, `[setter Service.SetTimeout() @"timeout"]`, dep.String())
	})

	t.Run("it should call the setter", func(t *testing.T) {
		// GIVEN
		logger := &consoleLogger{}
		dep := mustSetterDependency(t, TypeOf[Service](), "SetLogger", "")
		service := &Service{}

		// WHEN
		err := dep.Inject(service, logger)

		// THEN
		require.NoError(t, err)
		assert.Same(t, logger, service.logger)
	})

	t.Run("it should report the error of the setter", func(t *testing.T) {
		// GIVEN
		dep := mustSetterDependency(t, TypeOf[Service](), "SetTimeout", "")

		// WHEN
		err := dep.Inject(&Service{}, -1)

		// THEN
		assert.ErrorIs(t, err, ErrInjectionFailed)
		assert.ErrorContains(t, err, "negative timeout")
	})

	t.Run("it should call the setter of an embedded struct", func(t *testing.T) {
		// GIVEN
		dep := mustSetterDependency(t, TypeOf[Service](), "SetTimeout", "")
		holder := &serviceHolder{}

		// WHEN
		err := dep.Inject(holder, 12)

		// THEN
		require.NoError(t, err)
		require.NotNil(t, holder.Service)
		assert.Equal(t, 12, holder.timeout)
	})
}

func TestFuncDependency(t *testing.T) {
	t.Run("it should call the function with the typed value", func(t *testing.T) {
		// GIVEN
		var got Logger
		logger := &consoleLogger{}
		dep := NewFuncDependency[Logger]("main", func(_ any, value Logger) error {
			got = value
			return nil
		})

		// WHEN
		err := dep.Inject(&Plain{}, logger)

		// THEN
		require.NoError(t, err)
		assert.Same(t, logger, got)
		assert.Nil(t, dep.Member())
		assert.Equal(t, `[func hypo.Logger @"main"]`, dep.String())
	})

	t.Run("it should give the zero value for nil", func(t *testing.T) {
		// GIVEN
		called := false
		dep := NewFuncDependency[Logger]("", func(_ any, value Logger) error {
			called = true
			assert.Nil(t, value)
			return nil
		})

		// WHEN
		err := dep.Inject(&Plain{}, nil)

		// THEN
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("it should wrap the error of the function", func(t *testing.T) {
		// GIVEN
		boom := errors.New("boom")
		dep := NewFuncDependency[int]("", func(any, int) error { return boom })

		// WHEN
		err := dep.Inject(&Plain{}, 1)

		// THEN
		assert.ErrorIs(t, err, ErrInjectionFailed)
		assert.ErrorIs(t, err, boom)
	})
}
