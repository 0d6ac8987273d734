// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileConfig represents the configuration file.
type FileConfig struct {
	Session SessionConfig `toml:"session" yaml:"session"`
}

// SessionConfig maps interactive session settings.
type SessionConfig struct {
	Cities   []string `toml:"cities" yaml:"cities" validate:"omitempty,dive,required"`
	DataDirs []string `toml:"data-dirs" yaml:"data-dirs" validate:"omitempty,dive,required"`
	Retries  *int     `toml:"retries" yaml:"retries" validate:"omitempty,gte=1"`
	History  *bool    `toml:"history" yaml:"history"`
}

// DefaultTemplate is written when the config file does not exist yet.
const DefaultTemplate = `[session]
# cities = ["chicago", "new york city", "washington"]
# data-dirs = ["~/bikeshare-data"]
# retries = 2
# history = false
`

// DefaultYAMLTemplate is DefaultTemplate for .yaml and .yml paths.
const DefaultYAMLTemplate = `session:
  # cities: [chicago, new york city, washington]
  # data-dirs: [~/bikeshare-data]
  # retries: 2
  # history: false
`

// LoadConfig reads a TOML config from the given path. Paths ending in .yaml
// or .yml are read as YAML. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	switch {
	case isYAML(path):
		data, err := os.ReadFile(path)
		if err != nil {
			return FileConfig{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	default:
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	}
	if err := validator.New().Struct(cfg.Session); err != nil {
		return FileConfig{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg.Session.DataDirs = expandHome(cfg.Session.DataDirs)
	return cfg, nil
}

// EnsureConfigFile writes the template matching the path's extension unless
// a file already exists.
func EnsureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	template := DefaultTemplate
	if isYAML(path) {
		template = DefaultYAMLTemplate
	}
	if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func expandHome(dirs []string) []string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return dirs
	}
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if dir == "~" {
			dir = home
		} else if strings.HasPrefix(dir, "~/") {
			dir = filepath.Join(home, dir[2:])
		}
		out = append(out, dir)
	}
	return out
}
