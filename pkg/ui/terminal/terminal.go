// Package terminal describes terminal capabilities and decodes raw
// keyboard input into events.
package terminal

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Key identifies a key. Character keys are KeyRune with the character
// stored in KeyboardEvent.Rune.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // Regular character
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyTab
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyPaste // Bracketed paste, text in KeyboardEvent.PasteStr
)

var keyNames = map[Key]string{
	KeyNone:      "none",
	KeyEnter:     "enter",
	KeyEscape:    "escape",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeyInsert:    "insert",
	KeyTab:       "tab",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "page_up",
	KeyPageDown:  "page_down",
	KeyUp:        "arrow_up",
	KeyDown:      "arrow_down",
	KeyLeft:      "arrow_left",
	KeyRight:     "arrow_right",
	KeyF1:        "f1",
	KeyF2:        "f2",
	KeyF3:        "f3",
	KeyF4:        "f4",
	KeyF5:        "f5",
	KeyF6:        "f6",
	KeyF7:        "f7",
	KeyF8:        "f8",
	KeyF9:        "f9",
	KeyF10:       "f10",
	KeyF11:       "f11",
	KeyF12:       "f12",
	KeyPaste:     "paste",
}

// String returns a human-readable key name, such as "Arrow Up".
func (k Key) String() string {
	if k == KeyRune {
		return "Rune"
	}
	name, ok := keyNames[k]
	if !ok {
		return "Unknown"
	}
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// KeyboardEvent is a single decoded keypress or paste.
type KeyboardEvent struct {
	Key      Key
	Rune     rune
	Ctrl     bool
	Alt      bool
	Shift    bool
	PasteStr string
}

// Char returns a rune event without modifiers.
func Char(r rune) KeyboardEvent {
	return KeyboardEvent{Key: KeyRune, Rune: r}
}

// Ctrl returns a rune event with the Ctrl modifier.
func Ctrl(r rune) KeyboardEvent {
	return KeyboardEvent{Key: KeyRune, Rune: r, Ctrl: true}
}

// Alt returns a rune event with the Alt modifier.
func Alt(r rune) KeyboardEvent {
	return KeyboardEvent{Key: KeyRune, Rune: r, Alt: true}
}

// Named returns an event for a non-character key.
func Named(k Key) KeyboardEvent {
	return KeyboardEvent{Key: k}
}

// IsRune reports whether the event is the given character with no modifiers.
func (e KeyboardEvent) IsRune(r rune) bool {
	return e.Key == KeyRune && e.Rune == r && !e.Ctrl && !e.Alt
}

// String formats the event as "Ctrl+Alt+Shift+Key".
func (e KeyboardEvent) String() string {
	var sb strings.Builder
	if e.Ctrl {
		sb.WriteString("Ctrl+")
	}
	if e.Alt {
		sb.WriteString("Alt+")
	}
	if e.Shift {
		sb.WriteString("Shift+")
	}
	switch {
	case e.Key != KeyRune:
		sb.WriteString(e.Key.String())
	case e.Rune == ' ':
		sb.WriteString("Space")
	default:
		sb.WriteRune(e.Rune)
	}
	return sb.String()
}
