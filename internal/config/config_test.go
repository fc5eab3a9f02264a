package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emailbuilder/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	config.ResetCache()

	var cfg config.App
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "@every 30s", cfg.AutosaveSchedule)
	assert.Equal(t, "127.0.0.1:7878", cfg.PreviewAddr)
	assert.False(t, cfg.MinifyHTML)
}

func TestLoad_PrefixedEnv(t *testing.T) {
	config.ResetCache()
	t.Setenv("EMAILBUILDER_STORE_DRIVER", "redis")
	t.Setenv("EMAILBUILDER_STORE_DSN", "redis://localhost:6379/0")
	t.Setenv("EMAILBUILDER_MINIFY_HTML", "true")
	t.Setenv("STORE_DRIVER", "mysql")

	var cfg config.App
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "redis", cfg.StoreDriver)
	assert.Equal(t, "redis://localhost:6379/0", cfg.StoreDSN)
	assert.True(t, cfg.MinifyHTML)
}

func TestLoad_Cached(t *testing.T) {
	config.ResetCache()
	t.Setenv("EMAILBUILDER_LOG_LEVEL", "debug")

	var first config.App
	require.NoError(t, config.Load(&first))

	t.Setenv("EMAILBUILDER_LOG_LEVEL", "error")
	var second config.App
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "debug", second.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	config.ResetCache()
	assert.ErrorIs(t, config.Load[config.App](nil), config.ErrNilPointer)

	t.Setenv("EMAILBUILDER_MINIFY_HTML", "sometimes")
	var cfg config.App
	assert.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)
	assert.Panics(t, func() { config.MustLoad(&cfg) })
}

func TestApp_Paths(t *testing.T) {
	cfg := config.App{DataDir: "/tmp/eb"}
	cfg.ResolveDataDir()
	assert.Equal(t, "/tmp/eb", cfg.DataDir)
	assert.Equal(t, filepath.Join("/tmp/eb", "emailbuilder.db"), cfg.DBPath())

	empty := config.App{}
	empty.ResolveDataDir()
	assert.NotEmpty(t, empty.DataDir)
}
