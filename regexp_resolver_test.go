package hypo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexpMapper(t *testing.T) {
	t.Run("it should map the qualified name with the capture groups", func(t *testing.T) {
		// GIVEN
		mapper, err := NewRegexpMapper(
			`github\.com/a-peyrard/hypo\.(\w*)Clock = clock.{0}`,
			`github\.com/a-peyrard/(\w+)\.(\w+) = {1}/{0}`,
		)
		require.NoError(t, err)

		// WHEN
		clock, clockFound := mapper.Map(TypeOf[Clock]())
		logger, loggerFound := mapper.Map(TypeOf[Logger]())
		_, stringFound := mapper.Map(StringType)

		// THEN
		assert.True(t, clockFound)
		assert.Equal(t, "clock.", clock)
		assert.True(t, loggerFound)
		assert.Equal(t, "Logger/hypo", logger)
		assert.False(t, stringFound)
	})

	t.Run("it should match the whole name", func(t *testing.T) {
		// GIVEN
		mapper, err := NewRegexpMapper(`hypo\.Logger = logger`)
		require.NoError(t, err)

		// WHEN
		_, found := mapper.Map(TypeOf[Logger]())

		// THEN
		assert.False(t, found)
	})

	t.Run("it should prefix pointers with a star", func(t *testing.T) {
		// GIVEN
		mapper, err := NewRegexpMapper(`\*.*\.(\w+) = pointer to {0}`)
		require.NoError(t, err)

		// WHEN
		mapped, found := mapper.Map(TypeOf[*fileLogger]())

		// THEN
		assert.True(t, found)
		assert.Equal(t, "pointer to fileLogger", mapped)
	})

	t.Run("it should reject invalid mappings", func(t *testing.T) {
		_, err := NewRegexpMapper("no template")
		assert.Error(t, err)

		_, err = NewRegexpMapper("([a-z = foo")
		assert.Error(t, err)
	})
}

func TestRegexpResolver(t *testing.T) {
	newResolver := func(t *testing.T, mapping string) (*RegexpResolver, *int) {
		mapper, err := NewRegexpMapper(mapping)
		require.NoError(t, err)
		created := 0
		factories := RegisterFactory(NewFactoryRegistry(), "Logger", func() Logger {
			created++
			return &fileLogger{}
		})
		return NewRegexpResolver(mapper, factories), &created
	}

	t.Run("it should create a new instance every time", func(t *testing.T) {
		// GIVEN
		resolver, created := newResolver(t, `.*\.(\w+) = {0}`)
		first, second := &Widget{}, &Widget{}

		// WHEN
		_, err := resolver.Resolve(context.Background(), widgetLoggerDependency(t), first)
		require.NoError(t, err)
		resolved, err := resolver.Resolve(context.Background(), widgetLoggerDependency(t), second)

		// THEN
		require.NoError(t, err)
		assert.True(t, resolved)
		assert.Equal(t, 2, *created)
		assert.NotSame(t, first.logger, second.logger)
	})

	t.Run("it should share singletons", func(t *testing.T) {
		// GIVEN
		resolver, created := newResolver(t, `.*\.(\w+) = !{0}`)
		first, second := &Widget{}, &Widget{}

		// WHEN
		_, err := resolver.Resolve(context.Background(), widgetLoggerDependency(t), first)
		require.NoError(t, err)
		_, err = resolver.Resolve(context.Background(), widgetLoggerDependency(t), second)
		require.NoError(t, err)

		// THEN
		assert.Equal(t, 1, *created)
		assert.Same(t, first.logger, second.logger)
	})

	t.Run("it should not resolve unmapped types", func(t *testing.T) {
		// GIVEN
		resolver, _ := newResolver(t, `.*\.Clock = Clock`)

		// WHEN
		resolved, err := resolver.Resolve(context.Background(), widgetLoggerDependency(t), &Widget{})

		// THEN
		require.NoError(t, err)
		assert.False(t, resolved)
	})

	t.Run("it should fail when no factory is registered for the mapped key", func(t *testing.T) {
		// GIVEN
		resolver, _ := newResolver(t, `.*\.(\w+) = {0}Impl`)

		// WHEN
		_, err := resolver.Resolve(context.Background(), widgetLoggerDependency(t), &Widget{})

		// THEN
		assert.ErrorContains(t, err, `no factory registered for "LoggerImpl"`)
	})

	t.Run("it should report the failure of a factory", func(t *testing.T) {
		// GIVEN
		boom := errors.New("boom")
		mapper, err := NewRegexpMapper(`.*\.Logger = failing`)
		require.NoError(t, err)
		factories := NewFactoryRegistry().Register("failing", func() (any, error) { return nil, boom })
		resolver := NewRegexpResolver(mapper, factories)

		// WHEN
		_, err = resolver.Resolve(context.Background(), widgetLoggerDependency(t), &Widget{})

		// THEN
		assert.ErrorIs(t, err, boom)
	})
}
