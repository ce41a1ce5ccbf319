package progress

import (
	"fmt"
	"strings"

	"github.com/taminomara/yuio-sub000/pkg/ui/text"
)

// Kind selects the decoration and colors of a message.
type Kind string

const (
	KindInfo     Kind = "info"
	KindWarning  Kind = "warning"
	KindError    Kind = "error"
	KindSuccess  Kind = "success"
	KindQuestion Kind = "question"
	KindHeading  Kind = "heading"
)

func (k Kind) decoration() string {
	if k == KindHeading {
		return "heading/1"
	}
	return string(k)
}

// LineOption configures an emitted line.
type LineOption func(*emitLine)

// IgnoreSuspended prints the line right away even while output is
// suspended. Prompts use it for their question.
func IgnoreSuspended() LineOption {
	return func(e *emitLine) {
		e.ignoreSuspended = true
	}
}

// EmitLine prints a line above the task area.
func (c *Coordinator) EmitLine(line text.ColorizedString, opts ...LineOption) error {
	return c.emit([]text.ColorizedString{line}, opts)
}

// Emit prints a message of the given kind. Lines after the first are
// aligned with the text of the first one.
func (c *Coordinator) Emit(kind Kind, msg string, opts ...LineOption) error {
	return c.emit(c.FormatMessage(kind, msg), opts)
}

func (c *Coordinator) emit(lines []text.ColorizedString, opts []LineOption) error {
	cmd := emitLine{lines: lines}
	for _, opt := range opts {
		opt(&cmd)
	}
	return c.enqueue(cmd)
}

// FormatMessage renders a message with the theme's decoration and colors.
func (c *Coordinator) FormatMessage(kind Kind, msg string) []text.ColorizedString {
	deco := c.theme.GetMsgDecoration(kind.decoration(), c.term.IsUnicode)
	decoColor := c.theme.GetColor("msg/" + string(kind) + "/decoration")
	textColor := c.theme.GetColor("msg/" + string(kind) + "/text")
	indent := strings.Repeat(" ", text.LineWidth(deco))

	parts := strings.Split(strings.TrimSuffix(msg, "\n"), "\n")
	lines := make([]text.ColorizedString, len(parts))
	for i, part := range parts {
		if i == 0 {
			lines[i] = text.New(decoColor, deco, textColor, part)
		} else {
			lines[i] = text.New(indent, textColor, part)
		}
	}
	return lines
}

func sprintf(format string, args []any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// Info prints an informational message. Arguments are formatted as with
// fmt.Sprintf.
func (c *Coordinator) Info(format string, args ...any) {
	c.Emit(KindInfo, sprintf(format, args))
}

// Warning prints a warning.
func (c *Coordinator) Warning(format string, args ...any) {
	c.Emit(KindWarning, sprintf(format, args))
}

// Error prints an error message.
func (c *Coordinator) Error(format string, args ...any) {
	c.Emit(KindError, sprintf(format, args))
}

// Success prints a success message.
func (c *Coordinator) Success(format string, args ...any) {
	c.Emit(KindSuccess, sprintf(format, args))
}

// Question prints a question.
func (c *Coordinator) Question(format string, args ...any) {
	c.Emit(KindQuestion, sprintf(format, args))
}

// Heading prints a heading.
func (c *Coordinator) Heading(format string, args ...any) {
	c.Emit(KindHeading, sprintf(format, args))
}
