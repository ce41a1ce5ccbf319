package config_test

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/taminomara/yuio-sub000/pkg/config"
	apperrors "github.com/taminomara/yuio-sub000/pkg/errors"
	"github.com/taminomara/yuio-sub000/pkg/logging"
	"github.com/taminomara/yuio-sub000/pkg/ui/color"
	"github.com/taminomara/yuio-sub000/pkg/ui/terminal"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Terminal.Color != config.Auto || cfg.Terminal.Interactive != config.Auto {
		t.Fatalf("terminal should be detected by default: %+v", cfg.Terminal)
	}
	if cfg.Logging.Dir != "" {
		t.Fatalf("logging should be off by default, got dir %q", cfg.Logging.Dir)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
terminal:
  color: ansi256
  unicode: false
coordinator:
  max_rows: 5
  tick_interval: 250ms
`)

	cfg, err := config.Load(path, terminal.Env{})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Terminal.Color != "ansi256" {
		t.Fatalf("expected color from file, got %q", cfg.Terminal.Color)
	}
	if cfg.Terminal.Unicode == nil || *cfg.Terminal.Unicode {
		t.Fatalf("expected unicode forced off, got %v", cfg.Terminal.Unicode)
	}
	if cfg.Terminal.Interactive != config.Auto {
		t.Fatalf("keys missing from the file should keep defaults, got %q", cfg.Terminal.Interactive)
	}
	if cfg.Coordinator.MaxRows != 5 || cfg.Coordinator.TickInterval != 250*time.Millisecond {
		t.Fatalf("unexpected coordinator config: %+v", cfg.Coordinator)
	}
	if cfg.Coordinator.RedrawRate != 30 {
		t.Fatalf("expected default redraw rate, got %v", cfg.Coordinator.RedrawRate)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(dir, "nope.yaml"), terminal.Env{})
		if !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("expected not-exist error, got %v", err)
		}
	})

	t.Run("unknown key", func(t *testing.T) {
		path := writeFile(t, dir, "unknown.yaml", "terminal:\n  colour: none\n")
		_, err := config.Load(path, terminal.Env{})
		if !apperrors.IsCode(err, apperrors.ErrCodeConfigInvalid) {
			t.Fatalf("expected CONFIG_INVALID, got %v", err)
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		path := writeFile(t, dir, "invalid.yaml", "terminal:\n  interactive: sometimes\n")
		_, err := config.Load(path, terminal.Env{})
		if !apperrors.IsCode(err, apperrors.ErrCodeConfigInvalid) {
			t.Fatalf("expected CONFIG_INVALID, got %v", err)
		}
		if !strings.Contains(err.Error(), "terminal.interactive") {
			t.Fatalf("error should name the field: %v", err)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, dir, "empty.yaml", "")
		if _, err := config.Load(path, terminal.Env{}); err != nil {
			t.Fatalf("empty file should load: %v", err)
		}
	})
}

func TestLoadUserConfig(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("user config location is platform specific")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := config.Load("", terminal.Env{})
	if err != nil {
		t.Fatalf("missing user config should not be an error: %v", err)
	}
	if cfg.Coordinator.MaxRows != 0 {
		t.Fatalf("expected defaults, got %+v", cfg.Coordinator)
	}

	writeFile(t, dir, filepath.Join("yuio", "config.yaml"), "coordinator:\n  max_rows: 3\n")
	cfg, err = config.Load("", terminal.Env{})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Coordinator.MaxRows != 3 {
		t.Fatalf("expected user config to apply, got %+v", cfg.Coordinator)
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name        string
		env         terminal.Env
		color       string
		interactive string
	}{
		{"nothing set", terminal.Env{}, config.Auto, config.Auto},
		{"force color", terminal.Env{"FORCE_COLOR": "1"}, "ansi", config.Auto},
		{"force color level", terminal.Env{"FORCE_COLOR": "3"}, "truecolor", config.Auto},
		{"force color off", terminal.Env{"FORCE_COLOR": "0"}, "none", config.Auto},
		{"yuio color beats force color", terminal.Env{"FORCE_COLOR": "1", "YUIO_COLOR": "ANSI256"}, "ansi256", config.Auto},
		{"no color beats everything", terminal.Env{"NO_COLOR": "1", "YUIO_COLOR": "truecolor"}, "none", config.Auto},
		{"empty no color is ignored", terminal.Env{"NO_COLOR": ""}, config.Auto, config.Auto},
		{"dumb terminal", terminal.Env{"TERM": "dumb", "YUIO_INTERACTIVE": "full"}, "none", "none"},
		{"interactive", terminal.Env{"YUIO_INTERACTIVE": "move_cursor"}, config.Auto, "move_cursor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			if err := cfg.ApplyEnv(tt.env); err != nil {
				t.Fatalf("ApplyEnv returned error: %v", err)
			}
			if cfg.Terminal.Color != tt.color {
				t.Errorf("color = %q, want %q", cfg.Terminal.Color, tt.color)
			}
			if cfg.Terminal.Interactive != tt.interactive {
				t.Errorf("interactive = %q, want %q", cfg.Terminal.Interactive, tt.interactive)
			}
		})
	}
}

func TestApplyEnvSettings(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := config.DefaultConfig()
	err := cfg.ApplyEnv(terminal.Env{
		"YUIO_UNICODE":       "yes",
		"YUIO_THEME":         "~/theme.yaml",
		"YUIO_LOG_DIR":       "/tmp/yuio",
		"YUIO_LOG_LEVEL":     "DEBUG",
		"YUIO_MAX_TASK_ROWS": "7",
	})
	if err != nil {
		t.Fatalf("ApplyEnv returned error: %v", err)
	}
	if cfg.Terminal.Unicode == nil || !*cfg.Terminal.Unicode {
		t.Fatalf("expected unicode forced on")
	}
	if cfg.Theme.Path != filepath.Join(home, "theme.yaml") {
		t.Fatalf("expected home to be expanded, got %q", cfg.Theme.Path)
	}
	if cfg.Logging.Dir != "/tmp/yuio" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
	if cfg.Coordinator.MaxRows != 7 {
		t.Fatalf("expected max rows from env, got %d", cfg.Coordinator.MaxRows)
	}

	for _, env := range []terminal.Env{
		{"YUIO_UNICODE": "maybe"},
		{"YUIO_MAX_TASK_ROWS": "many"},
	} {
		if err := config.DefaultConfig().ApplyEnv(env); !apperrors.IsCode(err, apperrors.ErrCodeConfigInvalid) {
			t.Errorf("ApplyEnv(%v) = %v, want CONFIG_INVALID", env, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"color", func(c *config.Config) { c.Terminal.Color = "rainbow" }},
		{"interactive", func(c *config.Config) { c.Terminal.Interactive = "maybe" }},
		{"width", func(c *config.Config) { c.Terminal.DefaultWidth = 0 }},
		{"height", func(c *config.Config) { c.Terminal.DefaultHeight = -1 }},
		{"max rows", func(c *config.Config) { c.Coordinator.MaxRows = -1 }},
		{"redraw rate", func(c *config.Config) { c.Coordinator.RedrawRate = 0 }},
		{"tick interval", func(c *config.Config) { c.Coordinator.TickInterval = -time.Second }},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !apperrors.IsCode(err, apperrors.ErrCodeConfigInvalid) {
				t.Fatalf("Validate() = %v, want CONFIG_INVALID", err)
			}
		})
	}
}

func TestResolveTerm(t *testing.T) {
	t.Run("detected", func(t *testing.T) {
		cfg := config.DefaultConfig()
		term := cfg.ResolveTerm(nil, &bytes.Buffer{}, terminal.Env{})
		if term.ColorSupport != color.SupportNone || term.InteractiveSupport != terminal.InteractiveNone {
			t.Fatalf("a buffer is not a terminal: %+v", term)
		}
		if w, h := term.Size(); w != terminal.DefaultWidth || h != terminal.DefaultHeight {
			t.Fatalf("unexpected default size %dx%d", w, h)
		}
	})

	t.Run("forced", func(t *testing.T) {
		unicode := true
		cfg := config.DefaultConfig()
		cfg.Terminal.Color = "truecolor"
		cfg.Terminal.Interactive = "move_cursor"
		cfg.Terminal.Unicode = &unicode
		cfg.Terminal.DefaultWidth = 120

		term := cfg.ResolveTerm(nil, &bytes.Buffer{}, terminal.Env{})
		if term.ColorSupport != color.SupportTrueColor {
			t.Errorf("color = %v, want truecolor", term.ColorSupport)
		}
		if term.InteractiveSupport != terminal.InteractiveMoveCursor {
			t.Errorf("interactive = %v, want move_cursor", term.InteractiveSupport)
		}
		if !term.IsUnicode {
			t.Errorf("expected unicode")
		}
		if w, _ := term.Size(); w != 120 {
			t.Errorf("width = %d, want 120", w)
		}
	})
}

func TestNewTheme(t *testing.T) {
	cfg := config.DefaultConfig()
	th, err := cfg.NewTheme()
	if err != nil || th == nil {
		t.Fatalf("default theme: %v", err)
	}

	cfg.Theme.Path = writeFile(t, t.TempDir(), "theme.yaml", "spinner_static_symbol: \"+\"\n")
	th, err = cfg.NewTheme()
	if err != nil {
		t.Fatalf("NewTheme returned error: %v", err)
	}
	if got := th.Symbols(true).SpinnerStatic; got != "+" {
		t.Fatalf("expected theme file to apply, got %q", got)
	}

	cfg.Theme.Path = writeFile(t, t.TempDir(), "bad.yaml", "spinner_pattern: \"\"\n")
	if _, err := cfg.NewTheme(); !apperrors.IsCode(err, apperrors.ErrCodeThemeInvalid) {
		t.Fatalf("expected THEME_INVALID, got %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	cfg := config.DefaultConfig()
	l, err := cfg.NewLogger("session")
	if err != nil || l != nil {
		t.Fatalf("expected a discarding logger, got %v, %v", l, err)
	}

	cfg.Logging.Dir = t.TempDir()
	l, err = cfg.NewLogger("session")
	if err != nil {
		t.Fatalf("NewLogger returned error: %v", err)
	}
	defer l.Close()
	if _, err := os.Stat(filepath.Join(cfg.Logging.Dir, "sessions", "session.jsonl")); err != nil {
		t.Fatalf("expected session log: %v", err)
	}
}

func TestWarnings(t *testing.T) {
	cfg := config.DefaultConfig()
	if err := cfg.ApplyEnv(terminal.Env{"FORCE_COLOR": "3", "NO_COLOR": "1"}); err != nil {
		t.Fatalf("ApplyEnv returned error: %v", err)
	}
	if got := cfg.Warnings(); len(got) != 1 || !strings.Contains(got[0], "NO_COLOR") {
		t.Fatalf("expected a NO_COLOR warning, got %q", got)
	}

	cfg = config.DefaultConfig()
	if err := cfg.ApplyEnv(terminal.Env{"NO_COLOR": "1"}); err != nil {
		t.Fatalf("ApplyEnv returned error: %v", err)
	}
	if got := cfg.Warnings(); len(got) != 0 {
		t.Fatalf("expected no warnings when nothing is overridden, got %q", got)
	}

	cfg = config.DefaultConfig()
	cfg.Coordinator.TickInterval = time.Millisecond
	for range 2 {
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate returned error: %v", err)
		}
	}
	if got := cfg.Warnings(); len(got) != 1 || !strings.Contains(got[0], "tick_interval") {
		t.Fatalf("expected one tick_interval warning, got %q", got)
	}
}

func TestLogLoaded(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "terminal:\n  color: ansi\n")
	cfg, err := config.Load(path, terminal.Env{"TERM": "dumb"})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if files := cfg.Files(); len(files) != 1 || files[0] != path {
		t.Fatalf("expected files [%s], got %q", path, files)
	}

	var buf bytes.Buffer
	cfg.LogLoaded(logging.NewWriterLogger(&buf, "test"))
	out := buf.String()
	for _, want := range []string{
		`"category":"config","type":"config_warning"`,
		`"message":"TERM=dumb overrides color \"ansi\""`,
		`"category":"config","type":"config_loaded"`,
		`"color":"none"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected log to contain %s, got:\n%s", want, out)
		}
	}
}
