package widgets

import (
	"math"

	"github.com/taminomara/yuio-sub000/pkg/ui/compositor"
	"github.com/taminomara/yuio-sub000/pkg/ui/runtime"
	"github.com/taminomara/yuio-sub000/pkg/ui/terminal"
)

// VerticalLayout stacks widgets on top of each other. Events go to a single
// receiver widget, whose result becomes the layout's result.
type VerticalLayout[T any] struct {
	items    []runtime.Drawable
	layouts  [][2]int
	minH     int
	maxH     int
	receiver runtime.Widget[T]
}

// NewVerticalLayout creates a layout of static items.
func NewVerticalLayout[T any](items ...runtime.Drawable) *VerticalLayout[T] {
	return &VerticalLayout[T]{items: items}
}

// Append adds a static item to the bottom of the stack.
func (l *VerticalLayout[T]) Append(items ...runtime.Drawable) *VerticalLayout[T] {
	l.items = append(l.items, items...)
	return l
}

// AppendReceiver adds w to the bottom of the stack and makes it receive
// events. It replaces the previous receiver, which stays in the stack.
func (l *VerticalLayout[T]) AppendReceiver(w runtime.Widget[T]) *VerticalLayout[T] {
	l.items = append(l.items, w)
	l.receiver = w
	return l
}

// Layout sums the heights of all items.
func (l *VerticalLayout[T]) Layout(rc *compositor.RenderContext) (int, int) {
	l.layouts = l.layouts[:0]
	l.minH, l.maxH = 0, 0
	for _, item := range l.items {
		minH, maxH := item.Layout(rc)
		maxH = max(minH, maxH)
		l.layouts = append(l.layouts, [2]int{minH, maxH})
		l.minH += minH
		l.maxH += maxH
	}
	return l.minH, l.maxH
}

// Draw gives every item its minimum height and shares what is left in
// proportion to how much more each item could use.
func (l *VerticalLayout[T]) Draw(rc *compositor.RenderContext) {
	var scale float64
	switch {
	case rc.Height() <= l.minH:
		scale = 0
	case rc.Height() >= l.maxH:
		scale = 1
	default:
		scale = float64(rc.Height()-l.minH) / float64(l.maxH-l.minH)
	}

	y1 := 0.0
	for i, item := range l.items {
		if i >= len(l.layouts) {
			break
		}
		minH, maxH := l.layouts[i][0], l.layouts[i][1]
		y2 := y1 + float64(minH) + scale*float64(maxH-minH)
		iy1, iy2 := int(math.RoundToEven(y1)), int(math.RoundToEven(y2))
		rc.Frame(0, iy1, -1, iy2-iy1, func() {
			item.Draw(rc)
		})
		y1 = y2
	}
}

// Event forwards ev to the receiver.
func (l *VerticalLayout[T]) Event(ev terminal.KeyboardEvent) runtime.Outcome[T] {
	if l.receiver == nil {
		return runtime.Continue[T]()
	}
	return l.receiver.Event(ev)
}

// Default is the receiver's default.
func (l *VerticalLayout[T]) Default() (T, bool) {
	if d, ok := l.receiver.(runtime.Defaulter[T]); ok {
		return d.Default()
	}
	var zero T
	return zero, false
}

// Help is the receiver's help.
func (l *VerticalLayout[T]) Help() []runtime.HelpEntry {
	if h, ok := l.receiver.(runtime.Helper); ok {
		return h.Help()
	}
	return nil
}
