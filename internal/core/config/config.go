// Package config handles configuration loading and validation for hayotush.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/or-haklay/hayotush/internal/core/styles"
	"github.com/or-haklay/hayotush/internal/core/toast"
)

// Config holds the application configuration.
type Config struct {
	Language LanguageConfig `yaml:"language"`
	Toast    ToastConfig    `yaml:"toast"`
	Host     HostConfig     `yaml:"host"`
	Database DatabaseConfig `yaml:"database"`
	History  HistoryConfig  `yaml:"history"`
	TUI      TUIConfig      `yaml:"tui"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// LanguageConfig controls which translation bundles are offered.
type LanguageConfig struct {
	// Default is used when no preference is saved and the device locale
	// matches none of the supported languages.
	Default   string   `yaml:"default"`
	Supported []string `yaml:"supported"`
}

// ToastConfig tunes the toast queue.
type ToastConfig struct {
	MaxActive    int             `yaml:"max_active"`
	SettleGap    time.Duration   `yaml:"settle_gap"`
	TickInterval time.Duration   `yaml:"tick_interval"`
	Durations    toast.Durations `yaml:"durations"`
}

// QueueSettleGap returns the settle gap as toast.Options expects it. An
// explicit 0 in the config turns the gap off.
func (t ToastConfig) QueueSettleGap() time.Duration {
	if t.SettleGap == 0 {
		return toast.NoSettleGap
	}
	return t.SettleGap
}

// HostConfig describes the process the app runs in.
type HostConfig struct {
	// Development disables forcing the layout direction and relaunching.
	Development bool `yaml:"development"`
	// Reload allows relaunching the process to apply a direction change.
	// nil means enabled.
	Reload *bool `yaml:"reload"`
}

// ReloadEnabled reports whether relaunching is allowed.
func (h HostConfig) ReloadEnabled() bool {
	return h.Reload == nil || *h.Reload
}

// DatabaseConfig holds SQLite connection settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// HistoryConfig controls the stored toast history.
type HistoryConfig struct {
	// Retention is how many toasts are kept. 0 keeps everything.
	Retention     int           `yaml:"retention"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Language: LanguageConfig{
			Default:   "he",
			Supported: []string{"he", "en"},
		},
		Toast: ToastConfig{
			MaxActive:    toast.DefaultMaxActive,
			SettleGap:    toast.DefaultSettleGap,
			TickInterval: toast.DefaultTickInterval,
			Durations:    toast.DefaultDurations(),
		},
		Database: DatabaseConfig{
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			BusyTimeout:  5000,
		},
		History: HistoryConfig{
			Retention:     500,
			SweepInterval: 5 * time.Minute,
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Language.Default == "" {
		c.Language.Default = defaults.Language.Default
	}
	if len(c.Language.Supported) == 0 {
		c.Language.Supported = defaults.Language.Supported
	}

	if c.Toast.MaxActive == 0 {
		c.Toast.MaxActive = defaults.Toast.MaxActive
	}
	if c.Toast.TickInterval == 0 {
		c.Toast.TickInterval = defaults.Toast.TickInterval
	}
	d := &c.Toast.Durations
	if d.Success == 0 {
		d.Success = defaults.Toast.Durations.Success
	}
	if d.Error == 0 {
		d.Error = defaults.Toast.Durations.Error
	}
	if d.Warning == 0 {
		d.Warning = defaults.Toast.Durations.Warning
	}
	if d.Info == 0 {
		d.Info = defaults.Toast.Durations.Info
	}

	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}

	if c.History.SweepInterval == 0 {
		c.History.SweepInterval = defaults.History.SweepInterval
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}

// LogFile returns the default log file location.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "hayotush.log")
}
