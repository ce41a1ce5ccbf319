// Package theme maps color paths and message decorations to concrete
// colors and symbols.
//
// A color path is a slash-separated name such as "task/progressbar/done".
// The color of a path accumulates the colors of all its prefixes, so
// "task/progressbar/done" combines "task", "task/progressbar" and
// "task/progressbar/done", with deeper entries winning per attribute.
//
// Colors are stored in layers. Each layer has a priority; when two layers
// define the same path, the higher priority wins.
package theme

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taminomara/yuio-sub000/pkg/ui/color"
	"github.com/taminomara/yuio-sub000/pkg/ui/text"
)

// Layer priorities used by the built-in layers.
const (
	PriorityBase     = 0
	PriorityDefault  = 10
	PriorityAdaptive = 20
	PriorityUser     = 100
)

// maxRefDepth bounds reference chains so that cycles resolve to no color.
const maxRefDepth = 32

// Item is a single element of a Spec: either a color or a reference to
// another path.
type Item struct {
	Ref   string
	Color color.Color
}

// Spec is what a path maps to. Items are combined left to right.
type Spec []Item

// Ref returns a spec that refers to another path.
func Ref(path string) Spec {
	return Spec{{Ref: path}}
}

// Is returns a spec for a fixed color.
func Is(c color.Color) Spec {
	return Spec{{Color: c}}
}

// Mix combines paths (strings) and colors into one spec.
func Mix(items ...any) Spec {
	spec := make(Spec, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case string:
			spec = append(spec, Item{Ref: v})
		case color.Color:
			spec = append(spec, Item{Color: v})
		case Spec:
			spec = append(spec, v...)
		}
	}
	return spec
}

type layer struct {
	priority int
	seq      int
	colors   map[string]Spec
}

// Symbols are the glyphs used for progress bars and spinners.
type Symbols struct {
	ProgressBarWidth    int
	ProgressBarStart    string
	ProgressBarEnd      string
	ProgressBarDone     string
	ProgressBarInflight string
	ProgressBarPending  string

	SpinnerPattern    []string
	SpinnerUpdateRate time.Duration
	SpinnerStatic     string
}

// Theme resolves color paths and decorations. It is safe for concurrent use.
type Theme struct {
	mu     sync.RWMutex
	layers []*layer
	seq    int
	cache  map[string]color.Color

	decorations      map[string]string
	asciiDecorations map[string]string

	symbols      Symbols
	asciiSymbols Symbols
}

// New returns a theme with only the base palette: named colors such as
// "red" and "bold".
func New() *Theme {
	t := &Theme{
		cache:            make(map[string]color.Color),
		decorations:      make(map[string]string),
		asciiDecorations: make(map[string]string),
		symbols:          defaultSymbols(),
		asciiSymbols:     asciiSymbols(),
	}
	t.AddLayer(PriorityBase, baseColors())
	return t
}

// Default returns the default theme.
func Default() *Theme {
	t := New()
	t.AddLayer(PriorityDefault, defaultColors())
	for k, v := range defaultDecorations {
		t.decorations[k] = v
	}
	for k, v := range defaultASCIIDecorations {
		t.asciiDecorations[k] = v
	}
	return t
}

// AddLayer adds a layer of colors. Among layers with equal priority, the
// one added last wins.
func (t *Theme) AddLayer(priority int, colors map[string]Spec) {
	t.mu.Lock()
	defer t.mu.Unlock()

	copied := make(map[string]Spec, len(colors))
	for k, v := range colors {
		copied[k] = v
	}
	t.seq++
	t.layers = append(t.layers, &layer{priority: priority, seq: t.seq, colors: copied})
	sort.SliceStable(t.layers, func(i, j int) bool {
		if t.layers[i].priority != t.layers[j].priority {
			return t.layers[i].priority > t.layers[j].priority
		}
		return t.layers[i].seq > t.layers[j].seq
	})
	t.cache = make(map[string]color.Color)
}

// SetColor overrides a path in the user layer.
func (t *Theme) SetColor(path string, spec Spec) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var user *layer
	for _, l := range t.layers {
		if l.priority == PriorityUser {
			user = l
			break
		}
	}
	if user == nil {
		t.seq++
		user = &layer{priority: PriorityUser, seq: t.seq, colors: make(map[string]Spec)}
		t.layers = append([]*layer{user}, t.layers...)
	}
	user.colors[path] = spec
	t.cache = make(map[string]color.Color)
}

// GetColor returns the color for a path. Unknown paths give color.None.
func (t *Theme) GetColor(path string) color.Color {
	t.mu.RLock()
	c, ok := t.cache[path]
	t.mu.RUnlock()
	if ok {
		return c
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	c = t.resolvePath(path, 0)
	t.cache[path] = c
	return c
}

// ColorFor resolves a spec against the theme. It is a shortcut for
// combining a fixed color with paths.
func (t *Theme) ColorFor(spec Spec) color.Color {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resolveSpec(spec, 0)
}

func (t *Theme) resolvePath(path string, depth int) color.Color {
	if depth > maxRefDepth || path == "" {
		return color.None
	}
	result := color.None
	for i := 0; i <= len(path); i++ {
		if i < len(path) && path[i] != '/' {
			continue
		}
		if spec, ok := t.lookup(path[:i]); ok {
			result = result.Or(t.resolveSpec(spec, depth+1))
		}
	}
	return result
}

func (t *Theme) resolveSpec(spec Spec, depth int) color.Color {
	result := color.None
	for _, item := range spec {
		if item.Ref != "" {
			result = result.Or(t.resolvePath(item.Ref, depth))
		} else {
			result = result.Or(item.Color)
		}
	}
	return result
}

func (t *Theme) lookup(path string) (Spec, bool) {
	for _, l := range t.layers {
		if spec, ok := l.colors[path]; ok {
			return spec, true
		}
	}
	return nil, false
}

// SetMsgDecoration sets the decoration for a message kind. An ASCII
// alternative, if non-empty, is used on terminals without unicode.
func (t *Theme) SetMsgDecoration(name, decoration, ascii string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.decorations[name] = decoration
	if ascii != "" {
		t.asciiDecorations[name] = ascii
	} else {
		delete(t.asciiDecorations, name)
	}
}

// GetMsgDecoration returns the decoration for a message kind, such as
// "question" or "heading/1". Without unicode, the ASCII alternative is
// used; a decoration with no alternative is dropped if it is not ASCII.
func (t *Theme) GetMsgDecoration(name string, isUnicode bool) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	d := t.decorations[name]
	if isUnicode {
		return d
	}
	if a, ok := t.asciiDecorations[name]; ok {
		return a
	}
	if isASCII(d) {
		return d
	}
	return ""
}

// MsgDecoration returns the decoration as a colorized string in the
// "msg/<name>/decoration" color.
func (t *Theme) MsgDecoration(name string, isUnicode bool) text.ColorizedString {
	d := t.GetMsgDecoration(name, isUnicode)
	if d == "" {
		return text.ColorizedString{}
	}
	return text.New(t.GetColor("msg/"+msgKind(name)+"/decoration"), d)
}

// Symbols returns progress and spinner symbols.
func (t *Theme) Symbols(isUnicode bool) Symbols {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if isUnicode {
		return t.symbols
	}
	return t.asciiSymbols
}

// SetSymbols replaces the unicode symbols.
func (t *Theme) SetSymbols(s Symbols) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.symbols = s
}

// Adapt derives low-priority colors from the terminal background.
func (t *Theme) Adapt(background color.Value, dark bool) {
	a, b := background.Darken(0.25), background.Darken(0.15)
	if dark {
		a, b = background.Lighten(0.25), background.Lighten(0.15)
	}
	t.AddLayer(PriorityAdaptive, map[string]Spec{
		"low_priority_color_a": Is(color.Fore(a)),
		"low_priority_color_b": Is(color.Fore(b)),
	})
}

func msgKind(name string) string {
	if i := strings.IndexByte(name, '/'); i >= 0 {
		return name[:i]
	}
	return name
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
