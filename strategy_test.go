package hypo

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStrategy struct {
	done  bool
	err   error
	calls int
	types []reflect.Type
}

func (s *stubStrategy) PerformInjection(_ context.Context, _ any) (bool, error) {
	s.calls++
	return s.done, s.err
}

func (s *stubStrategy) PerformInjectionFor(_ context.Context, _ any, typ reflect.Type) (bool, error) {
	s.calls++
	s.types = append(s.types, typ)
	return s.done, s.err
}

func TestCompositeStrategy(t *testing.T) {
	t.Run("it should apply every strategy", func(t *testing.T) {
		// GIVEN
		first, second := &stubStrategy{done: true}, &stubStrategy{done: false}
		composite := NewCompositeStrategy(first, second)

		// WHEN
		done, err := composite.PerformInjection(context.Background(), &Widget{})

		// THEN
		require.NoError(t, err)
		assert.True(t, done)
		assert.Equal(t, 1, first.calls)
		assert.Equal(t, 1, second.calls)
	})

	t.Run("it should report no injection if no strategy injected anything", func(t *testing.T) {
		// GIVEN
		composite := NewCompositeStrategy(&stubStrategy{}, &stubStrategy{})

		// WHEN
		done, err := composite.PerformInjectionFor(context.Background(), &Widget{}, TypeOf[Widget]())

		// THEN
		require.NoError(t, err)
		assert.False(t, done)
	})

	t.Run("it should stop at the first error", func(t *testing.T) {
		// GIVEN
		boom := errors.New("boom")
		first, second, third := &stubStrategy{done: true}, &stubStrategy{err: boom}, &stubStrategy{}
		composite := NewCompositeStrategy(first, second, third)

		// WHEN
		done, err := composite.PerformInjectionFor(context.Background(), &Widget{}, TypeOf[Widget]())

		// THEN
		assert.Same(t, boom, err)
		assert.True(t, done)
		assert.Equal(t, []reflect.Type{TypeOf[Widget]()}, second.types)
		assert.Equal(t, 0, third.calls)
	})

	t.Run("it should combine tags and members", func(t *testing.T) {
		// GIVEN
		clock := fixedClock{}
		types := NewTypeMappingResolver()
		Bind[Clock](types, clock)
		Bind[Logger](types, &consoleLogger{})
		byMembers := NewEngine(MustMemberSelector([]MemberSpec{FieldOf[Plain]("count", "")}), WithResolver(NewNamedResolver()))
		composite := NewCompositeStrategy(NewEngine(NewTagSelector(), WithResolver(types)), byMembers)
		widget := &Widget{}

		// WHEN
		done, err := composite.PerformInjection(context.Background(), widget)

		// THEN
		require.NoError(t, err)
		assert.True(t, done)
		assert.NotNil(t, widget.logger)
		assert.Len(t, composite.Strategies(), 2)
	})
}
