// Package widgets provides the interactive components run by the widget
// runner: text input, option grids with single and multiple choice, and
// static lines and paragraphs to put around them.
package widgets

import (
	"github.com/taminomara/yuio-sub000/pkg/ui/compositor"
	"github.com/taminomara/yuio-sub000/pkg/ui/text"
)

// Line displays a single line of text, cut at the frame edge.
type Line struct {
	line      text.ColorizedString
	colorPath string
}

// NewLine creates a line widget.
func NewLine(line text.ColorizedString) *Line {
	return &Line{line: line}
}

// WithColorPath sets the theme color used before the line's own colors.
func (l *Line) WithColorPath(path string) *Line {
	l.colorPath = path
	return l
}

// SetLine replaces the displayed text.
func (l *Line) SetLine(line text.ColorizedString) {
	l.line = line
}

func (l *Line) Layout(rc *compositor.RenderContext) (int, int) {
	return 1, 1
}

func (l *Line) Draw(rc *compositor.RenderContext) {
	if l.colorPath != "" {
		rc.SetColorPath(l.colorPath)
	}
	rc.WriteColorized(l.line)
}

// Text displays a paragraph wrapped to the frame width.
type Text struct {
	text      text.ColorizedString
	colorPath string

	wrapped      []text.ColorizedString
	wrappedWidth int
}

// NewText creates a text widget.
func NewText(s text.ColorizedString) *Text {
	return &Text{text: s}
}

// WithColorPath sets the theme color used before the text's own colors.
func (t *Text) WithColorPath(path string) *Text {
	t.colorPath = path
	return t
}

// SetText replaces the displayed text.
func (t *Text) SetText(s text.ColorizedString) {
	t.text = s
	t.wrapped = nil
}

func (t *Text) Layout(rc *compositor.RenderContext) (int, int) {
	if t.wrapped == nil || t.wrappedWidth != rc.Width() {
		t.wrapped = t.text.Wrap(rc.Width())
		t.wrappedWidth = rc.Width()
	}
	return len(t.wrapped), len(t.wrapped)
}

func (t *Text) Draw(rc *compositor.RenderContext) {
	if t.colorPath != "" {
		rc.SetColorPath(t.colorPath)
	}
	rc.WriteText(t.wrapped)
}
