package text

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/taminomara/yuio-sub000/pkg/ui/color"
)

// Part is a single element of a ColorizedString: either a run of text,
// or a color marker that applies to all text after it.
type Part struct {
	Text    string
	Color   color.Color
	IsColor bool
}

// ColorizedString is text annotated with inline color markers.
//
// Colors are appended lazily: a marker is only stored once text follows it,
// and only if it differs from the previously stored marker. Markers take no
// space when the string is measured or wrapped.
type ColorizedString struct {
	parts           []Part
	activeColor     color.Color
	lastColor       color.Color
	width           int
	length          int
	explicitNewline string
}

// New builds a colorized string from strings, colors and other colorized strings.
// Any other value is formatted with fmt.Sprint.
func New(items ...any) ColorizedString {
	var s ColorizedString
	for _, item := range items {
		switch v := item.(type) {
		case string:
			s.AppendStr(v)
		case color.Color:
			s.AppendColor(v)
		case ColorizedString:
			s.Append(v)
		case *ColorizedString:
			if v != nil {
				s.Append(*v)
			}
		default:
			s.AppendStr(fmt.Sprint(v))
		}
	}
	return s
}

// AppendColor sets the color for text appended after it.
func (s *ColorizedString) AppendColor(c color.Color) {
	s.activeColor = c
}

// AppendStr appends plain text in the active color.
func (s *ColorizedString) AppendStr(text string) {
	if text == "" {
		return
	}
	if !s.lastColor.Equal(s.activeColor) {
		s.parts = append(s.parts, Part{Color: s.activeColor, IsColor: true})
		s.lastColor = s.activeColor
	}
	s.parts = append(s.parts, Part{Text: text})
	s.width += LineWidth(text)
	s.length += utf8.RuneCountInString(text)
}

// Append appends another colorized string, keeping its colors. Text at the
// start of other that has no marker keeps the default color.
func (s *ColorizedString) Append(other ColorizedString) {
	s.AppendColor(color.None)
	for _, p := range other.parts {
		if p.IsColor {
			s.AppendColor(p.Color)
		} else {
			s.AppendStr(p.Text)
		}
	}
	s.AppendColor(other.activeColor)
}

// Clone returns a copy that does not share storage with s.
func (s ColorizedString) Clone() ColorizedString {
	s.parts = append([]Part(nil), s.parts...)
	return s
}

// Parts returns the string's elements in order.
func (s ColorizedString) Parts() []Part {
	return s.parts
}

// Width is the display width in terminal columns.
func (s ColorizedString) Width() int {
	return s.width
}

// Len is the number of characters, not counting color markers.
func (s ColorizedString) Len() int {
	return s.length
}

// IsEmpty reports whether the string has no text.
func (s ColorizedString) IsEmpty() bool {
	return s.length == 0
}

// ActiveColor is the last color appended to the string.
func (s ColorizedString) ActiveColor() color.Color {
	return s.activeColor
}

// ExplicitNewline is the newline sequence that ended this line in the
// original text, or "" if the line was broken by wrapping.
func (s ColorizedString) ExplicitNewline() string {
	return s.explicitNewline
}

// String returns the text without colors.
func (s ColorizedString) String() string {
	var b strings.Builder
	for _, p := range s.parts {
		if !p.IsColor {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

// Code renders the string with escape codes. Every marker is combined with
// base, and the terminal color is reset at the end.
func (s ColorizedString) Code(support color.Support, base color.Color) string {
	if support == color.SupportNone {
		return s.String()
	}
	var b strings.Builder
	b.WriteString(base.Code(support))
	for _, p := range s.parts {
		if p.IsColor {
			b.WriteString(base.Or(p.Color).Code(support))
		} else {
			b.WriteString(p.Text)
		}
	}
	b.WriteString(color.None.Code(support))
	return b.String()
}

// Lines splits s at every "\n" without wrapping. Each line starts in the
// color that was active where the previous one ended.
func (s ColorizedString) Lines() []ColorizedString {
	var lines []ColorizedString
	var cur ColorizedString
	for _, p := range s.parts {
		if p.IsColor {
			cur.AppendColor(p.Color)
			continue
		}
		first := true
		for piece := range strings.SplitSeq(p.Text, "\n") {
			if !first {
				active := cur.activeColor
				cur.explicitNewline = "\n"
				lines = append(lines, cur)
				cur = ColorizedString{}
				cur.AppendColor(active)
			}
			cur.AppendStr(piece)
			first = false
		}
	}
	cur.AppendColor(s.activeColor)
	return append(lines, cur)
}

// Join concatenates lines, restoring their explicit newlines.
// Joining the result of Wrap and wrapping it again gives the same lines.
func Join(lines []ColorizedString) ColorizedString {
	var out ColorizedString
	for i, line := range lines {
		out.Append(line)
		if line.explicitNewline != "" {
			out.AppendStr(line.explicitNewline)
		} else if i+1 < len(lines) {
			out.AppendStr(" ")
		}
	}
	return out
}
