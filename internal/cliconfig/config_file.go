package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config in TOML form.
type FileConfig struct {
	Address  string `toml:"address"`
	Interval any    `toml:"interval"` // milliseconds, as a string or an integer
	Text     string `toml:"text"`
	Backend  string `toml:"backend"`
	LogLevel string `toml:"log_level"`
	Watch    *bool  `toml:"watch"`
	Meta     *bool  `toml:"meta"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.mctransmit/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".mctransmit", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	interval, err := intervalString(fc.Interval)
	if err != nil {
		return fmt.Errorf("interval: %w", err)
	}

	s.setString("address", fc.Address, &cfg.Address)
	s.setString("interval", interval, &cfg.Interval)
	s.setString("text", fc.Text, &cfg.Text)
	s.setString("backend", fc.Backend, &cfg.Backend)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setBool("watch", fc.Watch, &cfg.Watch)
	s.setBool("meta", fc.Meta, &cfg.Meta)

	return nil
}

// intervalString normalizes a decoded interval value to its string form.
// Range checks are left to validation.
func intervalString(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	default:
		return "", fmt.Errorf("want milliseconds as an integer or a string, got %T", v)
	}
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// Load layers file and environment values over base, skipping keys whose
// flags were set explicitly, and validates the result. A missing file is
// not an error.
func Load(base Config, path string, changed map[string]bool) (Config, error) {
	cfg := base

	if path != "" && FileExists(path) {
		fc, err := LoadFileConfig(path)
		if err != nil {
			return base, fmt.Errorf("load config: %w", err)
		}
		if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
			return base, err
		}
	}

	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		return base, err
	}

	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}
