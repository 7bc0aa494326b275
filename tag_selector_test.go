package hypo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	Annotated struct {
		first   string `inject:"first"`
		second  string `inject:" spaced "`
		skipped string `inject:"-"`
		other   string `wire:"other"`
		bare    int    `inject:""`
	}

	failingFactory struct{}
)

func (failingFactory) CreateDependency(Member, string) (Dependency, error) {
	return nil, errors.New("unsupported")
}

func TestTagSelector(t *testing.T) {
	t.Run("it should select the tagged fields in declaration order", func(t *testing.T) {
		// WHEN
		deps, err := NewTagSelector().SelectDependencies(context.Background(), TypeOf[Annotated]())

		// THEN
		require.NoError(t, err)
		require.Len(t, deps, 3)
		assert.Equal(t, "first", deps[0].Member().Name())
		assert.Equal(t, "first", deps[0].AssociatedName())
		assert.Equal(t, "spaced", deps[1].AssociatedName())
		assert.Equal(t, "bare", deps[2].Member().Name())
		assert.Equal(t, "", deps[2].AssociatedName())
	})

	t.Run("it should use the configured tag key", func(t *testing.T) {
		// WHEN
		deps, err := NewTagSelector(WithTagKey("wire")).SelectDependencies(context.Background(), TypeOf[Annotated]())

		// THEN
		require.NoError(t, err)
		require.Len(t, deps, 1)
		assert.Equal(t, "other", deps[0].AssociatedName())
	})

	t.Run("it should not select the fields of embedded types", func(t *testing.T) {
		// WHEN
		deps, err := NewTagSelector().SelectDependencies(context.Background(), TypeOf[Gadget]())

		// THEN
		require.NoError(t, err)
		require.Len(t, deps, 1)
		assert.Equal(t, "name", deps[0].Member().Name())
	})

	t.Run("it should select nothing for types without tags", func(t *testing.T) {
		// WHEN
		deps, err := NewTagSelector().SelectDependencies(context.Background(), TypeOf[Plain]())

		// THEN
		require.NoError(t, err)
		assert.Empty(t, deps)
	})

	t.Run("it should report the failures of the factory", func(t *testing.T) {
		// WHEN
		_, err := NewTagSelector(WithDependencyFactory(failingFactory{})).SelectDependencies(context.Background(), TypeOf[Widget]())

		// THEN
		assert.ErrorContains(t, err, "unsupported")
	})
}
