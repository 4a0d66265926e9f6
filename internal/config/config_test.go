package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")

	cfg := DefaultConfig()
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, filepath.Join("/tmp/state", "shuntcalc", "calc.log"), cfg.LogPath)
	require.False(t, cfg.History.Enabled)
	require.Equal(t, "sqlite3", cfg.History.Driver)
	require.Equal(t, filepath.Join("/tmp/state", "shuntcalc", "history.db"), cfg.History.DSN)
	require.NoError(t, cfg.Validate())
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/conf")
	require.Equal(t, filepath.Join("/tmp/conf", "shuntcalc", "config.json"), GetConfigPath())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverridesOnlyProvidedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(path, []byte(`{
		"log_level": "debug",
		"history": {"enabled": true, "driver": "postgres", "dsn": "dbname=calc sslmode=disable"}
	}`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, DefaultConfig().LogPath, cfg.LogPath)
	require.True(t, cfg.History.Enabled)
	require.Equal(t, "postgres", cfg.History.Driver)
	require.Equal(t, "dbname=calc sslmode=disable", cfg.History.DSN)
	require.NoError(t, cfg.Validate())
}

func TestLoadBackfillsEmptyFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"log_level": "", "history": {"driver": ""}}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "sqlite3", cfg.History.Driver)
	require.Equal(t, DefaultConfig().History.DSN, cfg.History.DSN)
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dir", "config.json")
	cfg := DefaultConfig()
	cfg.History.Enabled = true
	cfg.LogLevel = "warn"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.History.Driver = "mysql"
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.History.Enabled = true
	cfg.History.DSN = ""
	require.Error(t, cfg.Validate())
}
