package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/or-haklay/hayotush/internal/core/i18n"
	"github.com/or-haklay/hayotush/internal/core/styles"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("data_dir", c.DataDir, notEmpty),
		criterio.Run("language.default", c.Language.Default, notEmpty),
		c.validateSupported(),
		criterio.Run("toast.max_active", c.Toast.MaxActive, atLeast(1)),
		criterio.Run("toast.settle_gap", c.Toast.SettleGap, nonNegative),
		criterio.Run("toast.tick_interval", c.Toast.TickInterval, positive),
		criterio.Run("toast.durations.success", c.Toast.Durations.Success, positive),
		criterio.Run("toast.durations.error", c.Toast.Durations.Error, positive),
		criterio.Run("toast.durations.warning", c.Toast.Durations.Warning, positive),
		criterio.Run("toast.durations.info", c.Toast.Durations.Info, positive),
		criterio.Run("database.max_open_conns", c.Database.MaxOpenConns, atLeast(1)),
		criterio.Run("database.max_idle_conns", c.Database.MaxIdleConns, atLeast(0)),
		criterio.Run("database.busy_timeout", c.Database.BusyTimeout, atLeast(0)),
		criterio.Run("history.retention", c.History.Retention, atLeast(0)),
		criterio.Run("history.sweep_interval", c.History.SweepInterval, positive),
		criterio.Run("tui.theme", c.TUI.Theme, knownTheme),
	)
}

// ValidateDeep performs Validate plus checks that touch the filesystem and
// the bundled translations. The configPath argument specifies the config
// file location to validate (empty string skips config file check).
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("language.supported", c.Language.Supported, bundlesExist),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Host.Development && c.Host.ReloadEnabled() {
		warnings = append(warnings, ValidationWarning{
			Category: "Host",
			Item:     "reload",
			Message:  "reload has no effect on a development host",
		})
	}

	if c.Toast.MaxActive > 1 {
		warnings = append(warnings, ValidationWarning{
			Category: "Toast",
			Item:     "max_active",
			Message:  fmt.Sprintf("%d toasts may overlap on screen", c.Toast.MaxActive),
		})
	}

	if c.Toast.TickInterval > c.Toast.SettleGap && c.Toast.SettleGap > 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Toast",
			Item:     "tick_interval",
			Message:  "tick interval is longer than the settle gap, transitions will lag",
		})
	}

	return warnings
}

func (c *Config) validateSupported() error {
	var errs criterio.FieldErrorsBuilder

	seen := make(map[string]bool, len(c.Language.Supported))
	for i, lang := range c.Language.Supported {
		norm := strings.ToLower(strings.TrimSpace(lang))
		switch {
		case norm == "":
			errs = errs.Append(fmt.Sprintf("language.supported[%d]", i), errors.New("cannot be empty"))
		case seen[norm]:
			errs = errs.Append(fmt.Sprintf("language.supported[%d]", i), fmt.Errorf("duplicate language %q", lang))
		}
		seen[norm] = true
	}

	def := strings.ToLower(strings.TrimSpace(c.Language.Default))
	if def != "" && !slices.ContainsFunc(c.Language.Supported, func(s string) bool {
		return strings.EqualFold(strings.TrimSpace(s), def)
	}) {
		errs = errs.Append("language.default", fmt.Errorf("%q is not in language.supported", c.Language.Default))
	}

	return errs.ToError()
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

func bundlesExist(langs []string) error {
	if len(langs) == 0 {
		return nil
	}
	_, err := i18n.Load(langs[0], langs...)
	return err
}

func knownTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}

func notEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be empty")
	}
	return nil
}

func atLeast(n int) func(int) error {
	return func(v int) error {
		if v < n {
			return fmt.Errorf("must be at least %d", n)
		}
		return nil
	}
}

func positive(d time.Duration) error {
	if d <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

func nonNegative(d time.Duration) error {
	if d < 0 {
		return errors.New("cannot be negative")
	}
	return nil
}
