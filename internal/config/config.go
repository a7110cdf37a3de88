// Package config loads crmdesk settings from a TOML file and CRMDESK_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database    DatabaseConfig    `mapstructure:"database"`
	Log         LogConfig         `mapstructure:"log"`
	UI          UIConfig          `mapstructure:"ui"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig selects log level and file.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// CompactWidth is the column count below which the narrow-screen card
	// replaces the tab body.
	CompactWidth int `mapstructure:"compact_width"`
	// FallbackRedirect, when positive, switches to the Status tab this long
	// after the dashboard fails. Zero disables the redirect.
	FallbackRedirect time.Duration `mapstructure:"fallback_redirect"`
	// DemoFaults enables the key that corrupts dashboard data.
	DemoFaults bool `mapstructure:"demo_faults"`
}

// DiagnosticsConfig tunes the failure recorder.
type DiagnosticsConfig struct {
	BufferSize    int           `mapstructure:"buffer_size"`
	BatchSize     int           `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// CRMDESK_, e.g. CRMDESK_UI_COMPACT_WIDTH=72. An explicit path wins over
// CRMDESK_CONFIG, which wins over ~/.config/crmdesk/config.toml.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path == "" {
		path = os.Getenv("CRMDESK_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(homeDir(), ".config", "crmdesk"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CRMDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// An explicitly named file must exist; the default location is optional.
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Default returns the configuration used when no file or env is present.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

// Validate rejects settings the UI cannot work with.
func (c Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.UI.CompactWidth < 20 {
		return fmt.Errorf("ui.compact_width must be at least 20, got %d", c.UI.CompactWidth)
	}
	if c.UI.FallbackRedirect < 0 {
		return fmt.Errorf("ui.fallback_redirect must not be negative")
	}
	if c.Diagnostics.BufferSize <= 0 || c.Diagnostics.BatchSize <= 0 {
		return fmt.Errorf("diagnostics.buffer_size and diagnostics.batch_size must be positive")
	}
	if c.Diagnostics.FlushInterval <= 0 {
		return fmt.Errorf("diagnostics.flush_interval must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	base := filepath.Join(homeDir(), ".crmdesk")
	v.SetDefault("database.path", filepath.Join(base, "crmdesk.db"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(base, "crmdesk.log"))
	v.SetDefault("ui.compact_width", 60)
	v.SetDefault("ui.fallback_redirect", "0s")
	v.SetDefault("ui.demo_faults", false)
	v.SetDefault("diagnostics.buffer_size", 256)
	v.SetDefault("diagnostics.batch_size", 32)
	v.SetDefault("diagnostics.flush_interval", "500ms")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
