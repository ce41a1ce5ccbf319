package runtime

import (
	"strings"

	"github.com/taminomara/yuio-sub000/pkg/ui/terminal"
)

// Binding identifies a key press, ignoring pasted text.
type Binding struct {
	Key   terminal.Key
	Rune  rune
	Ctrl  bool
	Alt   bool
	Shift bool
}

// BindingOf returns the binding that matches an event.
func BindingOf(ev terminal.KeyboardEvent) Binding {
	b := Binding{Key: ev.Key, Ctrl: ev.Ctrl, Alt: ev.Alt, Shift: ev.Shift}
	if ev.Key == terminal.KeyRune {
		b.Rune = ev.Rune
	}
	return b
}

// Key binds a named key.
func Key(k terminal.Key) Binding {
	return Binding{Key: k}
}

// Rune binds a printable character.
func Rune(r rune) Binding {
	return Binding{Key: terminal.KeyRune, Rune: r}
}

// CtrlRune binds Ctrl plus a character.
func CtrlRune(r rune) Binding {
	return Binding{Key: terminal.KeyRune, Rune: r, Ctrl: true}
}

// AltRune binds Alt plus a character.
func AltRune(r rune) Binding {
	return Binding{Key: terminal.KeyRune, Rune: r, Alt: true}
}

// WithAlt adds the Alt modifier.
func (b Binding) WithAlt() Binding {
	b.Alt = true
	return b
}

// WithShift adds the Shift modifier.
func (b Binding) WithShift() Binding {
	b.Shift = true
	return b
}

// WithCtrl adds the Ctrl modifier.
func (b Binding) WithCtrl() Binding {
	b.Ctrl = true
	return b
}

func (b Binding) String() string {
	return strings.ToLower(terminal.KeyboardEvent{
		Key:   b.Key,
		Rune:  b.Rune,
		Ctrl:  b.Ctrl,
		Alt:   b.Alt,
		Shift: b.Shift,
	}.String())
}

// HelpEntry describes one action and the keys that trigger it.
type HelpEntry struct {
	Keys        []Binding
	Description string
}

// KeysString joins the entry's keys, e.g. "ctrl+a/home".
func (h HelpEntry) KeysString() string {
	names := make([]string, len(h.Keys))
	for i, k := range h.Keys {
		names[i] = k.String()
	}
	return strings.Join(names, "/")
}

// Keymap dispatches keyboard events to handlers.
type Keymap[T any] struct {
	handlers map[Binding]func() Outcome[T]
	help     []HelpEntry
	fallback func(ev terminal.KeyboardEvent) Outcome[T]
}

// NewKeymap creates an empty keymap.
func NewKeymap[T any]() *Keymap[T] {
	return &Keymap[T]{handlers: make(map[Binding]func() Outcome[T])}
}

// Bind registers fn for the given bindings. Later bindings replace earlier
// ones. A non-empty description adds a help entry.
func (k *Keymap[T]) Bind(description string, fn func() Outcome[T], bindings ...Binding) {
	for _, b := range bindings {
		k.handlers[b] = fn
	}
	if description != "" && len(bindings) > 0 {
		k.help = append(k.help, HelpEntry{Keys: bindings, Description: description})
	}
}

// Describe adds a help entry for bindings that are registered separately.
func (k *Keymap[T]) Describe(description string, bindings ...Binding) {
	k.help = append(k.help, HelpEntry{Keys: bindings, Description: description})
}

// SetFallback sets the handler for events that have no binding.
func (k *Keymap[T]) SetFallback(fn func(ev terminal.KeyboardEvent) Outcome[T]) {
	k.fallback = fn
}

// Lookup reports whether an event has a binding.
func (k *Keymap[T]) Lookup(ev terminal.KeyboardEvent) bool {
	_, ok := k.handlers[BindingOf(ev)]
	return ok
}

// Dispatch runs the handler for ev. Pastes and unbound keys go to the
// fallback; without one they are ignored.
func (k *Keymap[T]) Dispatch(ev terminal.KeyboardEvent) Outcome[T] {
	if ev.Key != terminal.KeyPaste {
		if fn, ok := k.handlers[BindingOf(ev)]; ok {
			return fn()
		}
	}
	if k.fallback != nil {
		return k.fallback(ev)
	}
	return Continue[T]()
}

// Help lists the described bindings in registration order.
func (k *Keymap[T]) Help() []HelpEntry {
	return k.help
}
