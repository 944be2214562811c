// Package config loads worldclock settings.
//
// Settings are resolved from, lowest to highest priority: built-in
// defaults, a config file, WORLDCLOCK_* environment variables, and finally
// command-line flags (applied by the cli package).
//
// The config file may be YAML (.yaml/.yml, parsed with gopkg.in/yaml.v3)
// or JSON with comments (.json/.jsonc, cleaned with github.com/tidwall/jsonc
// and parsed with encoding/json).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/worldclock/internal/logging"
	"github.com/shinji-kodama/worldclock/internal/model"
	"github.com/shinji-kodama/worldclock/internal/validate"
	"github.com/shinji-kodama/worldclock/internal/worldtime"
)

// Environment variable names.
const (
	EnvBaseURL  = "WORLDCLOCK_BASE_URL"
	EnvTimeout  = "WORLDCLOCK_TIMEOUT"
	EnvLogLevel = "WORLDCLOCK_LOG_LEVEL"
	EnvLogFile  = "WORLDCLOCK_LOG_FILE"
)

// Duration is a time.Duration that reads from strings such as "10s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.set(s)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"10s\": %w", err)
	}
	return d.set(s)
}

func (d *Duration) set(s string) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Config holds every configurable setting.
type Config struct {
	// BaseURL is the API root, without a trailing slash.
	BaseURL string `yaml:"base_url" json:"base_url"`

	// Timeout bounds each API request.
	Timeout Duration `yaml:"timeout" json:"timeout"`

	// LogLevel is a zerolog level name; "disabled" turns diagnostics off.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// LogFile, when set, receives JSON diagnostics instead of stderr.
	LogFile string `yaml:"log_file" json:"log_file"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseURL:  worldtime.DefaultBaseURL,
		Timeout:  Duration(worldtime.DefaultTimeout),
		LogLevel: logging.DefaultLevel,
	}
}

// DefaultPath returns the config file looked up when --config is not given:
// $XDG_CONFIG_HOME/worldclock/config.yaml (or the OS equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "worldclock", "config.yaml")
}

// Load resolves the configuration. When path is empty the default path is
// used and a missing file is not an error; an explicit path must exist.
//
// Errors carry model.ExitUsageError since they are fixed by editing the
// file, environment or flags.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			if !explicit && errors.Is(err, os.ErrNotExist) {
				err = nil
			} else {
				return Config{}, model.WrapCLIError(model.ExitUsageError,
					fmt.Sprintf("failed to load config %s", path), err)
			}
		}
	}

	if err := cfg.mergeEnv(getenv); err != nil {
		return Config{}, model.WrapCLIError(model.ExitUsageError, "invalid environment", err)
	}

	return cfg, nil
}

// mergeFile overlays the settings present in the file onto c.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("invalid YAML: %w", err)
		}
	case ".json", ".jsonc":
		// Strip comments and trailing commas before strict JSON parsing.
		if err := json.Unmarshal(jsonc.ToJSON(data), c); err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (use .yaml, .yml, .json or .jsonc)", ext)
	}
	return nil
}

// mergeEnv overlays WORLDCLOCK_* variables onto c.
func (c *Config) mergeEnv(getenv func(string) string) error {
	if getenv == nil {
		return nil
	}
	if v := getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := getenv(EnvTimeout); v != "" {
		if err := c.Timeout.set(v); err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
	return nil
}

// Validate checks the resolved settings. It returns criterio field errors.
func (c Config) Validate() error {
	var f validate.Fields
	f.Check("base_url", c.BaseURL, validate.NotBlank, validate.HTTPURL)
	f.Check("timeout", time.Duration(c.Timeout).String(), positiveDuration)
	f.Check("log_level", c.LogLevel, logLevel)
	return f.Err()
}

func positiveDuration(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	if d <= 0 {
		return fmt.Errorf("must be greater than zero, got %s", s)
	}
	return nil
}

func logLevel(s string) error {
	_, err := logging.ParseLevel(s)
	return err
}
