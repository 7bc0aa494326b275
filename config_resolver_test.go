package hypo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	AppConfig struct {
		Database DatabaseConfig
		Loggers  map[string]any
		Timeout  time.Duration
	}

	DatabaseConfig struct {
		Host string
		Port int
	}

	Repository struct {
		host    string        `inject:"Database.Host"`
		port    int           `inject:"AppConfig.Database.Port"`
		timeout time.Duration `inject:"Timeout"`
		logger  Logger        `inject:"Loggers.main"`
	}
)

func TestConfigResolver(t *testing.T) {
	t.Run("it should resolve dependencies from config paths", func(t *testing.T) {
		// GIVEN
		logger := &consoleLogger{}
		cfg := &AppConfig{
			Database: DatabaseConfig{Host: "db.local", Port: 5432},
			Loggers:  map[string]any{"main": logger},
			Timeout:  3 * time.Second,
		}
		engine := NewEngine(NewTagSelector(), WithResolver(NewConfigResolver(cfg)))
		repository := &Repository{}

		// WHEN
		done, err := engine.PerformInjection(context.Background(), repository)

		// THEN
		require.NoError(t, err)
		assert.True(t, done)
		assert.Equal(t, "db.local", repository.host)
		assert.Equal(t, 5432, repository.port)
		assert.Equal(t, 3*time.Second, repository.timeout)
		assert.Same(t, logger, repository.logger)
	})

	t.Run("it should not resolve missing paths or values of another type", func(t *testing.T) {
		// GIVEN
		cfg := AppConfig{Loggers: map[string]any{"main": "not a logger"}}
		resolver := NewConfigResolver(cfg)
		missing := NewFuncDependency[string]("Database.Missing", func(any, string) error { return nil })
		noName := NewFuncDependency[string]("", func(any, string) error { return nil })
		wrongType := mustFieldDependency(t, TypeOf[Repository](), "logger", "Loggers.main")

		for _, dep := range []Dependency{missing, noName, wrongType} {
			// WHEN
			resolved, err := resolver.Resolve(context.Background(), dep, &Repository{})

			// THEN
			require.NoError(t, err)
			assert.False(t, resolved, dep.String())
		}
	})
}
