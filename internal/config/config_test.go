package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"sheetDelta/internal/heart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "config.toml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.FileExists(t, path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestLoadConfigFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[delta]
current_file = "snapshots/june.xlsx"
previous_file = "snapshots/may.xlsx"
start_cell = "C4"

[heart]
with_text = false
size = 51
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "snapshots/june.xlsx", cfg.Delta.CurrentFile)
	assert.Equal(t, "C4", cfg.Delta.StartCell)
	assert.Equal(t, 2, cfg.Delta.HeaderRows)
	assert.Equal(t, "Delta", cfg.Delta.DeltaSheet)
	assert.False(t, cfg.Heart.WithText)
	assert.Equal(t, 51, cfg.Heart.Size)
	assert.Equal(t, 20000, cfg.Heart.Intensity)
	assert.Equal(t, 4, cfg.UI.ColumnsPerRow)
	assert.Equal(t, "info", cfg.Output.LogLevel)
}

func TestLoadConfigRejectsInvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[delta\nstart_cell = "), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLevel(t *testing.T) {
	cfg := Default()
	assert.Equal(t, slog.LevelInfo, cfg.Level())

	cfg.Output.LogLevel = "debug"
	assert.Equal(t, slog.LevelDebug, cfg.Level())

	cfg.Output.LogLevel = "loud"
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestHeartParamsMatchDefaults(t *testing.T) {
	assert.Equal(t, heart.DefaultParams(), Default().HeartParams())
}
