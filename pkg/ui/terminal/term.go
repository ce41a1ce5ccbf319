package terminal

import (
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/taminomara/yuio-sub000/pkg/ui/color"
)

// InteractiveSupport is the terminal's capability for interactive rendering.
type InteractiveSupport int

const (
	// InteractiveNone means output is append-only.
	InteractiveNone InteractiveSupport = iota
	// InteractiveMoveCursor means the cursor can be moved and lines erased.
	InteractiveMoveCursor
	// InteractiveFull means raw keyboard input is available as well.
	InteractiveFull
)

func (s InteractiveSupport) String() string {
	switch s {
	case InteractiveMoveCursor:
		return "move_cursor"
	case InteractiveFull:
		return "full"
	default:
		return "none"
	}
}

// ParseInteractiveSupport is the inverse of InteractiveSupport.String.
func ParseInteractiveSupport(s string) (InteractiveSupport, bool) {
	switch strings.ToLower(s) {
	case "none":
		return InteractiveNone, true
	case "move_cursor":
		return InteractiveMoveCursor, true
	case "full":
		return InteractiveFull, true
	}
	return InteractiveNone, false
}

const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// Term describes a terminal: its streams and what it can do.
// Capabilities are queried once and do not change afterwards.
type Term struct {
	Out io.Writer
	In  io.Reader

	ColorSupport       color.Support
	InteractiveSupport InteractiveSupport
	IsUnicode          bool

	// Size reported when the terminal does not report one.
	DefaultWidth  int
	DefaultHeight int

	// SizeFunc queries the current size. Nil means the defaults are used.
	SizeFunc func() (width, height int, err error)
}

// CanMoveCursor reports whether the cursor can be moved and lines erased.
func (t Term) CanMoveCursor() bool {
	return t.ColorSupport > color.SupportNone && t.InteractiveSupport >= InteractiveMoveCursor
}

// IsFullyInteractive reports whether widgets can run on this terminal.
func (t Term) IsFullyInteractive() bool {
	return t.ColorSupport > color.SupportNone && t.InteractiveSupport >= InteractiveFull
}

// Size returns the terminal size, falling back to the defaults.
func (t Term) Size() (width, height int) {
	if t.SizeFunc != nil {
		if w, h, err := t.SizeFunc(); err == nil && w > 0 && h > 0 {
			return w, h
		}
	}
	width, height = t.DefaultWidth, t.DefaultHeight
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return width, height
}

// Env is a set of environment variables. It satisfies termenv.Environ.
type Env map[string]string

// OSEnv returns the process environment.
func OSEnv() Env {
	env := Env{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// Getenv returns the value of key, or "".
func (e Env) Getenv(key string) string {
	return e[key]
}

// Environ returns the variables in KEY=VALUE form.
func (e Env) Environ() []string {
	out := make([]string, 0, len(e))
	for k, v := range e {
		out = append(out, k+"="+v)
	}
	return out
}

// Has reports whether key is set, even to an empty value.
func (e Env) Has(key string) bool {
	_, ok := e[key]
	return ok
}

var ciEnvVars = []string{
	"CI", "TRAVIS", "CIRCLECI", "APPVEYOR", "GITLAB_CI", "BUILDKITE", "DRONE", "TEAMCITY_VERSION",
}

type fdFile interface {
	Fd() uintptr
}

// Detect inspects the given streams and environment.
//
// Interactive support requires color output, a terminal that is not a CI
// runner, and a process in the terminal's foreground group. Full support
// also needs both streams to be terminals.
func Detect(in io.Reader, out io.Writer, env Env) Term {
	t := Term{
		Out:           out,
		In:            in,
		DefaultWidth:  DefaultWidth,
		DefaultHeight: DefaultHeight,
		IsUnicode:     detectUnicode(env),
	}

	outTTY, outFd := isTTY(out)
	inTTY, inFd := isTTY(in)

	if outTTY {
		fd := int(outFd)
		t.SizeFunc = func() (int, int, error) {
			return term.GetSize(fd)
		}
	}

	output := termenv.NewOutput(out, termenv.WithEnvironment(env), termenv.WithTTY(outTTY))
	t.ColorSupport = fromProfile(output.EnvColorProfile())
	if strings.EqualFold(env.Getenv("TERM"), "dumb") {
		t.ColorSupport = color.SupportNone
	}

	inCI := false
	for _, k := range ciEnvVars {
		if env.Has(k) {
			inCI = true
			break
		}
	}

	foreground := outTTY && IsForeground(outFd) && (!inTTY || IsForeground(inFd))
	if foreground && t.ColorSupport > color.SupportNone && !inCI {
		if inTTY {
			t.InteractiveSupport = InteractiveFull
		} else {
			t.InteractiveSupport = InteractiveMoveCursor
		}
	}
	return t
}

func isTTY(v any) (bool, uintptr) {
	f, ok := v.(fdFile)
	if !ok {
		return false, 0
	}
	fd := f.Fd()
	return term.IsTerminal(int(fd)), fd
}

func fromProfile(p termenv.Profile) color.Support {
	switch p {
	case termenv.TrueColor:
		return color.SupportTrueColor
	case termenv.ANSI256:
		return color.Support256
	case termenv.ANSI:
		return color.SupportANSI
	default:
		return color.SupportNone
	}
}

func detectUnicode(env Env) bool {
	for _, k := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := env.Getenv(k); v != "" {
			v = strings.ToLower(v)
			return strings.Contains(v, "utf-8") || strings.Contains(v, "utf8")
		}
	}
	return false
}
