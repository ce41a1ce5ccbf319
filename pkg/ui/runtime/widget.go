// Package runtime runs interactive widgets: it owns the terminal for the
// duration of a widget, feeds it keyboard events and redraws it after each
// one.
package runtime

import (
	"github.com/taminomara/yuio-sub000/pkg/ui/compositor"
	"github.com/taminomara/yuio-sub000/pkg/ui/terminal"
)

// Drawable is anything that can be laid out and drawn, including static
// widgets that never handle events.
type Drawable interface {
	// Layout recomputes the widget for the current frame and returns the
	// height it will definitely take and the height it could use.
	Layout(rc *compositor.RenderContext) (minHeight, maxHeight int)

	// Draw paints the widget. The frame height is between the bounds
	// returned from the last Layout.
	Draw(rc *compositor.RenderContext)
}

// Widget is an interactive terminal component that produces a T.
type Widget[T any] interface {
	Drawable

	// Event handles one keyboard event.
	Event(ev terminal.KeyboardEvent) Outcome[T]
}

// Defaulter is implemented by widgets that have a value to return when the
// user cancels or input ends.
type Defaulter[T any] interface {
	Default() (T, bool)
}

// Helper is implemented by widgets that can describe their key bindings.
type Helper interface {
	Help() []HelpEntry
}

type outcomeKind int

const (
	outcomeContinue outcomeKind = iota
	outcomeStop
	outcomeCancel
)

// Outcome is the result of handling an event.
type Outcome[T any] struct {
	kind  outcomeKind
	value T
}

// Continue keeps the widget running.
func Continue[T any]() Outcome[T] {
	return Outcome[T]{}
}

// Stop ends the widget with a value.
func Stop[T any](value T) Outcome[T] {
	return Outcome[T]{kind: outcomeStop, value: value}
}

// Cancel ends the widget without a value.
func Cancel[T any]() Outcome[T] {
	return Outcome[T]{kind: outcomeCancel}
}

// IsContinue reports whether the widget keeps running.
func (o Outcome[T]) IsContinue() bool { return o.kind == outcomeContinue }

// IsStop reports whether the widget finished with a value.
func (o Outcome[T]) IsStop() bool { return o.kind == outcomeStop }

// IsCancel reports whether the widget was cancelled.
func (o Outcome[T]) IsCancel() bool { return o.kind == outcomeCancel }

// Value is the value passed to Stop.
func (o Outcome[T]) Value() T { return o.value }

// Map converts an outcome of one widget into an outcome of another.
func Map[T, U any](o Outcome[T], fn func(T) U) Outcome[U] {
	out := Outcome[U]{kind: o.kind}
	if o.kind == outcomeStop {
		out.value = fn(o.value)
	}
	return out
}
