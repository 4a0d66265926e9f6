package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const appName = "shuntcalc"

// HistoryConfig selects where evaluations are recorded.
type HistoryConfig struct {
	Enabled bool   `json:"enabled"`
	Driver  string `json:"driver"` // "sqlite3" or "postgres"
	DSN     string `json:"dsn"`
}

// Config represents application configuration
type Config struct {
	LogLevel string        `json:"log_level"` // debug, info, warn, error, none
	LogPath  string        `json:"log_path"`
	History  HistoryConfig `json:"history"`
}

func defaultConfigDir() string {
	if runtime.GOOS == "windows" {
		if appData := strings.TrimSpace(os.Getenv("APPDATA")); appData != "" {
			return filepath.Join(appData, appName)
		}
	}
	if configHome := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); configHome != "" {
		return filepath.Join(configHome, appName)
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", appName)
}

func defaultStateDir() string {
	if runtime.GOOS == "windows" {
		if localAppData := strings.TrimSpace(os.Getenv("LOCALAPPDATA")); localAppData != "" {
			return filepath.Join(localAppData, appName)
		}
	}
	if stateHome := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); stateHome != "" {
		return filepath.Join(stateHome, appName)
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".local", "state", appName)
}

func DefaultConfig() *Config {
	stateDir := defaultStateDir()
	return &Config{
		LogLevel: "info",
		LogPath:  filepath.Join(stateDir, "calc.log"),
		History: HistoryConfig{
			Enabled: false,
			Driver:  "sqlite3",
			DSN:     filepath.Join(stateDir, "history.db"),
		},
	}
}

// GetConfigPath returns the default location of the config file.
func GetConfigPath() string {
	return filepath.Join(defaultConfigDir(), "config.json")
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	defaults := DefaultConfig()
	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}
	if config.History.Driver == "" {
		config.History.Driver = defaults.History.Driver
	}
	if config.History.DSN == "" && config.History.Driver == defaults.History.Driver {
		config.History.DSN = defaults.History.DSN
	}

	return config, nil
}

func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch c.History.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("unsupported history driver %q", c.History.Driver)
	}
	if c.History.Enabled && c.History.DSN == "" {
		return fmt.Errorf("history is enabled but no dsn is configured")
	}
	return nil
}
