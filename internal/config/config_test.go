package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDefaultsLocal(t *testing.T) {
	cfg := Config{BuildTarget: "local", DBDriver: "auto", SQLitePath: "./x.db"}
	require.NoError(t, cfg.ResolveDefaults())
	assert.Equal(t, "sqlite", cfg.DBDriver)
}

func TestResolveDefaultsCloudNeedsDSN(t *testing.T) {
	cfg := Config{BuildTarget: "cloud", DBDriver: "auto"}
	assert.Error(t, cfg.ResolveDefaults())

	cfg.PostgresDSN = "postgres://localhost/planner"
	require.NoError(t, cfg.ResolveDefaults())
	assert.Equal(t, "postgres", cfg.DBDriver)
}

func TestResolveDefaultsRejectsUnknownTarget(t *testing.T) {
	cfg := Config{BuildTarget: "staging"}
	assert.Error(t, cfg.ResolveDefaults())
}

func TestResolveDefaultsKeepsExplicitDriver(t *testing.T) {
	cfg := Config{BuildTarget: "cloud", DBDriver: "sqlite", SQLitePath: "./x.db"}
	require.NoError(t, cfg.ResolveDefaults())
	assert.Equal(t, "sqlite", cfg.DBDriver)
}

func TestNewParsesEnvironment(t *testing.T) {
	t.Setenv("SLOTH_PLANNER_BUILD_TARGET", "local")
	t.Setenv("SLOTH_PLANNER_HTTP_PORT", "9191")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.HTTPPort)
	assert.Equal(t, ":9191", cfg.GetHTTPAddr())
	assert.Equal(t, "sqlite", cfg.DBDriver)
}
