// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultDataDir returns the shared directory searched for trip files.
func DefaultDataDir() string {
	return filepath.Join(XDGDataHome(), "bikeshare", "data")
}

// DefaultDBPath returns the default path for the exploration history database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), "bikeshare", "history.db")
}

// DefaultConfigPath returns the default config path. config.toml wins; a
// config.yaml or config.yml is used only when no TOML file exists.
func DefaultConfigPath() string {
	dir := filepath.Join(XDGConfigHome(), "bikeshare")
	tomlPath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath
	}
	for _, name := range []string{"config.yaml", "config.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return tomlPath
}
