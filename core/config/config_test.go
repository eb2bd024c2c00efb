package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	assert.NoError(t, err)

	assert.Equal(t, "lxc", cfg.LXD.Binary)
	assert.Equal(t, "local", cfg.LXD.Remote)
	assert.Equal(t, "default", cfg.LXD.Project)
	assert.Equal(t, "charmcraft", cfg.Bases.Project)
	assert.Equal(t, "3.0", cfg.Bases.MinVersion)
	assert.Equal(t, "sqlite", cfg.History.Driver)
	assert.True(t, cfg.History.Enabled)
	assert.False(t, cfg.Report.Enabled())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("LXD_PROJECT", "build-cache")
	t.Setenv("BASES_MIN_VERSION", "4.0")
	t.Setenv("HISTORY_ENABLED", "false")
	t.Setenv("REPORT_ENDPOINT", "localhost:9000")

	cfg, err := LoadConfig(t.TempDir())
	assert.NoError(t, err)

	assert.Equal(t, "build-cache", cfg.LXD.Project)
	assert.Equal(t, "4.0", cfg.Bases.MinVersion)
	assert.False(t, cfg.History.Enabled)
	assert.True(t, cfg.Report.Enabled())
}
