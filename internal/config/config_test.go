package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fablemud/engine/internal/config"
)

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fablemud.toml")
	body := `
[server]
name = "Testbed"

[game]
max_rounds = 3
seed = 42

[database]
enabled = true

[logging]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Testbed", cfg.Server.Name)
	assert.Equal(t, 3, cfg.Game.MaxRounds)
	assert.Equal(t, int64(42), cfg.Game.Seed)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched sections keep their defaults.
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "data/worlds", cfg.Worlds.Dir)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.NotZero(t, cfg.Server.StartTime)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}
