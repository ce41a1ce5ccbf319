// Package config loads runtime settings from YAML files and the environment
// and turns them into a terminal description, a theme and a logger.
package config

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/taminomara/yuio-sub000/pkg/errors"
	"github.com/taminomara/yuio-sub000/pkg/logging"
	"github.com/taminomara/yuio-sub000/pkg/ui/color"
	"github.com/taminomara/yuio-sub000/pkg/ui/terminal"
)

// Auto lets detection decide a terminal capability.
const Auto = "auto"

// Config holds all runtime settings.
type Config struct {
	Terminal    TerminalConfig    `yaml:"terminal"`
	Theme       ThemeConfig       `yaml:"theme"`
	Coordinator CoordinatorConfig `yaml:"coordinator"`
	Logging     LoggingConfig     `yaml:"logging"`

	files    []string
	warnings []string
}

// TerminalConfig overrides what is detected about the terminal.
type TerminalConfig struct {
	// Color is "auto" or a color support level: none, ansi, ansi256 or
	// truecolor.
	Color string `yaml:"color"`
	// Interactive is "auto", none, move_cursor or full.
	Interactive string `yaml:"interactive"`
	// Unicode forces unicode decorations on or off. Nil means detect.
	Unicode *bool `yaml:"unicode"`
	// DefaultWidth and DefaultHeight are used when the terminal does not
	// report its size.
	DefaultWidth  int `yaml:"default_width"`
	DefaultHeight int `yaml:"default_height"`
}

// ThemeConfig selects a theme file layered over the default theme.
type ThemeConfig struct {
	Path string `yaml:"path"`
}

// CoordinatorConfig tunes the task area.
type CoordinatorConfig struct {
	// MaxRows limits task rows; zero means all but two terminal rows.
	MaxRows int `yaml:"max_rows"`
	// RedrawRate is the maximum number of progress redraws per second.
	RedrawRate float64 `yaml:"redraw_rate"`
	// TickInterval overrides the theme's spinner rate.
	TickInterval time.Duration `yaml:"tick_interval"`
}

// LoggingConfig controls diagnostic logs. Nothing is logged unless Dir is
// set.
type LoggingConfig struct {
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Terminal: TerminalConfig{
			Color:         Auto,
			Interactive:   Auto,
			DefaultWidth:  terminal.DefaultWidth,
			DefaultHeight: terminal.DefaultHeight,
		},
		Coordinator: CoordinatorConfig{
			RedrawRate: 30,
		},
		Logging: LoggingConfig{
			Level: string(logging.LevelInfo),
		},
	}
}

// ApplyEnv applies environment overrides. NO_COLOR and TERM=dumb win over
// everything else; YUIO_COLOR wins over FORCE_COLOR.
func (c *Config) ApplyEnv(env terminal.Env) error {
	if v, ok := lookup(env, "FORCE_COLOR"); ok {
		c.Terminal.Color = forceColor(v)
	}
	if v, ok := lookup(env, "YUIO_COLOR"); ok {
		c.Terminal.Color = strings.ToLower(v)
	}
	if v, ok := lookup(env, "YUIO_INTERACTIVE"); ok {
		c.Terminal.Interactive = strings.ToLower(v)
	}
	if v, ok := lookup(env, "YUIO_UNICODE"); ok {
		b, ok := parseBool(v)
		if !ok {
			return invalid("YUIO_UNICODE", v)
		}
		c.Terminal.Unicode = &b
	}
	if v, ok := lookup(env, "YUIO_THEME"); ok {
		c.Theme.Path = expandHomeDir(v)
	}
	if v, ok := lookup(env, "YUIO_LOG_DIR"); ok {
		c.Logging.Dir = expandHomeDir(v)
	}
	if v, ok := lookup(env, "YUIO_LOG_LEVEL"); ok {
		c.Logging.Level = strings.ToLower(v)
	}
	if v, ok := lookup(env, "YUIO_MAX_TASK_ROWS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return invalid("YUIO_MAX_TASK_ROWS", v)
		}
		c.Coordinator.MaxRows = n
	}

	none := color.SupportNone.String()
	if env.Getenv("NO_COLOR") != "" {
		if c.Terminal.Color != Auto && c.Terminal.Color != none {
			c.warnf("NO_COLOR overrides color %q", c.Terminal.Color)
		}
		c.Terminal.Color = none
	}
	if strings.EqualFold(env.Getenv("TERM"), "dumb") {
		if c.Terminal.Color != Auto && c.Terminal.Color != none {
			c.warnf("TERM=dumb overrides color %q", c.Terminal.Color)
		}
		if c.Terminal.Interactive != Auto && c.Terminal.Interactive != terminal.InteractiveNone.String() {
			c.warnf("TERM=dumb overrides interactive %q", c.Terminal.Interactive)
		}
		c.Terminal.Color = none
		c.Terminal.Interactive = terminal.InteractiveNone.String()
	}
	return nil
}

func (c *Config) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if !slices.Contains(c.warnings, msg) {
		c.warnings = append(c.warnings, msg)
	}
}

// Warnings lists settings that were overridden or look wrong but still
// load.
func (c *Config) Warnings() []string {
	return c.warnings
}

// Files lists the config files that were merged, in order.
func (c *Config) Files() []string {
	return c.files
}

func lookup(env terminal.Env, key string) (string, bool) {
	if !env.Has(key) {
		return "", false
	}
	return strings.TrimSpace(env.Getenv(key)), true
}

// forceColor maps FORCE_COLOR values the way most tools read them: a level
// from 0 to 3, or any other value for basic colors.
func forceColor(v string) string {
	switch strings.ToLower(v) {
	case "0", "false":
		return color.SupportNone.String()
	case "2":
		return color.Support256.String()
	case "3":
		return color.SupportTrueColor.String()
	default:
		return color.SupportANSI.String()
	}
}

func parseBool(v string) (bool, bool) {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

func invalid(field string, value any) error {
	return apperrors.New(apperrors.ErrCodeConfigInvalid, "invalid value").
		WithContext("field", field).
		WithContext("value", fmt.Sprint(value))
}

// Validate checks that every setting has a usable value.
func (c *Config) Validate() error {
	if c.Terminal.Color != Auto {
		if _, ok := color.ParseSupport(c.Terminal.Color); !ok {
			return invalid("terminal.color", c.Terminal.Color)
		}
	}
	if c.Terminal.Interactive != Auto {
		if _, ok := terminal.ParseInteractiveSupport(c.Terminal.Interactive); !ok {
			return invalid("terminal.interactive", c.Terminal.Interactive)
		}
	}
	if c.Terminal.DefaultWidth <= 0 {
		return invalid("terminal.default_width", c.Terminal.DefaultWidth)
	}
	if c.Terminal.DefaultHeight <= 0 {
		return invalid("terminal.default_height", c.Terminal.DefaultHeight)
	}
	if c.Coordinator.MaxRows < 0 {
		return invalid("coordinator.max_rows", c.Coordinator.MaxRows)
	}
	if c.Coordinator.RedrawRate <= 0 || math.IsNaN(c.Coordinator.RedrawRate) {
		return invalid("coordinator.redraw_rate", c.Coordinator.RedrawRate)
	}
	if c.Coordinator.TickInterval < 0 {
		return invalid("coordinator.tick_interval", c.Coordinator.TickInterval)
	}
	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		return invalid("logging.level", c.Logging.Level)
	}
	if c.Coordinator.TickInterval > 0 && c.Coordinator.TickInterval < minTickInterval {
		c.warnf("coordinator.tick_interval %s is below %s", c.Coordinator.TickInterval, minTickInterval)
	}
	return nil
}

const minTickInterval = 10 * time.Millisecond
