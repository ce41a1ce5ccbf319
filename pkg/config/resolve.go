package config

import (
	"fmt"
	"io"

	"github.com/taminomara/yuio-sub000/pkg/logging"
	"github.com/taminomara/yuio-sub000/pkg/ui/color"
	"github.com/taminomara/yuio-sub000/pkg/ui/progress"
	"github.com/taminomara/yuio-sub000/pkg/ui/terminal"
	"github.com/taminomara/yuio-sub000/pkg/ui/theme"
)

// ResolveTerm detects the terminal behind in and out and applies the
// configured overrides. Terminals without colors are never interactive
// unless interactivity is forced.
func (c *Config) ResolveTerm(in io.Reader, out io.Writer, env terminal.Env) terminal.Term {
	t := terminal.Detect(in, out, env)
	t.DefaultWidth = c.Terminal.DefaultWidth
	t.DefaultHeight = c.Terminal.DefaultHeight
	if c.Terminal.Unicode != nil {
		t.IsUnicode = *c.Terminal.Unicode
	}
	if s, ok := color.ParseSupport(c.Terminal.Color); ok && c.Terminal.Color != Auto {
		t.ColorSupport = s
	}
	if s, ok := terminal.ParseInteractiveSupport(c.Terminal.Interactive); ok && c.Terminal.Interactive != Auto {
		t.InteractiveSupport = s
	} else if t.ColorSupport == color.SupportNone {
		t.InteractiveSupport = terminal.InteractiveNone
	}
	return t
}

// NewTheme returns the default theme with the configured theme file
// applied on top.
func (c *Config) NewTheme() (*theme.Theme, error) {
	th := theme.Default()
	if c.Theme.Path == "" {
		return th, nil
	}
	if err := th.LoadFile(c.Theme.Path); err != nil {
		return nil, err
	}
	return th, nil
}

// NewLogger opens the session log in the configured directory. Without a
// directory the returned logger discards everything.
func (c *Config) NewLogger(sessionID string) (*logging.Logger, error) {
	if c.Logging.Dir == "" {
		return logging.Nop(), nil
	}
	l, err := logging.NewLogger(c.Logging.Dir, sessionID)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	if level, ok := logging.ParseLevel(c.Logging.Level); ok {
		l.SetMinLevel(level)
	}
	return l, nil
}

// CoordinatorOptions returns coordinator options for the configured
// settings.
func (c *Config) CoordinatorOptions(log *logging.Logger) []progress.Option {
	opts := []progress.Option{
		progress.WithLogger(log),
		progress.WithRedrawRate(c.Coordinator.RedrawRate),
	}
	if c.Coordinator.MaxRows > 0 {
		opts = append(opts, progress.WithMaxRows(c.Coordinator.MaxRows))
	}
	if c.Coordinator.TickInterval > 0 {
		opts = append(opts, progress.WithTickInterval(c.Coordinator.TickInterval))
	}
	return opts
}

// LogLoaded records where the configuration came from and any warnings
// collected while loading it.
func (c *Config) LogLoaded(log *logging.Logger) {
	for _, w := range c.warnings {
		log.Warn(logging.CategoryConfig, "config_warning", w, nil)
	}
	log.Info(logging.CategoryConfig, "config_loaded", "", map[string]any{
		"files":       c.files,
		"color":       c.Terminal.Color,
		"interactive": c.Terminal.Interactive,
		"theme":       c.Theme.Path,
		"max_rows":    c.Coordinator.MaxRows,
		"redraw_rate": c.Coordinator.RedrawRate,
	})
}
