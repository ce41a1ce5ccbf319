// Package prompt asks the user questions.
//
// On a fully interactive terminal, questions are answered with widgets.
// Otherwise, or when the terminal cannot be switched to raw mode, the
// answer is read as a line of text from the terminal's input.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	apperrors "github.com/taminomara/yuio-sub000/pkg/errors"
	"github.com/taminomara/yuio-sub000/pkg/logging"
	"github.com/taminomara/yuio-sub000/pkg/ui/color"
	"github.com/taminomara/yuio-sub000/pkg/ui/progress"
	"github.com/taminomara/yuio-sub000/pkg/ui/runtime"
	"github.com/taminomara/yuio-sub000/pkg/ui/terminal"
	"github.com/taminomara/yuio-sub000/pkg/ui/text"
	"github.com/taminomara/yuio-sub000/pkg/ui/widgets"
)

// Theme provides colors and decorations for questions.
type Theme interface {
	GetColor(path string) color.Color
	GetMsgDecoration(name string, isUnicode bool) string
}

// Prompter asks questions on one terminal. It is not safe for concurrent
// use.
type Prompter struct {
	coord   *progress.Coordinator
	term    terminal.Term
	theme   Theme
	log     *logging.Logger
	runOpts []runtime.Option

	in *bufio.Reader
}

// Option configures a Prompter.
type Option func(*Prompter)

// WithLogger sets the diagnostic logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Prompter) {
		p.log = l
	}
}

// WithRunOptions passes options to every widget run.
func WithRunOptions(opts ...runtime.Option) Option {
	return func(p *Prompter) {
		p.runOpts = append(p.runOpts, opts...)
	}
}

// New creates a prompter. While a question is asked, the coordinator, if
// not nil, is suspended so that task updates do not get in the way.
func New(c *progress.Coordinator, t terminal.Term, th Theme, opts ...Option) *Prompter {
	p := &Prompter{coord: c, term: t, theme: th}
	for _, opt := range opts {
		opt(p)
	}
	p.runOpts = append([]runtime.Option{runtime.WithLogger(p.log)}, p.runOpts...)
	return p
}

// AskOption configures Ask.
type AskOption func(*askOptions)

type askOptions struct {
	def         string
	hasDefault  bool
	placeholder string
}

// WithDefault sets the answer used when the user gives none.
func WithDefault(s string) AskOption {
	return func(o *askOptions) {
		o.def = s
		o.hasDefault = true
	}
}

// WithPlaceholder sets the text shown in an empty input.
func WithPlaceholder(s string) AskOption {
	return func(o *askOptions) {
		o.placeholder = s
	}
}

// Ask asks for a line of text.
func (p *Prompter) Ask(ctx context.Context, question string, opts ...AskOption) (string, error) {
	var o askOptions
	for _, opt := range opts {
		opt(&o)
	}
	resume := p.suspend()
	defer resume()

	desc := ""
	if o.hasDefault {
		desc = o.def
	}
	q := p.question(question, "", desc)

	inputOpts := []widgets.InputOption{widgets.WithPlaceholder(o.placeholder)}
	if o.hasDefault {
		inputOpts = append(inputOpts, widgets.WithDefault(o.def))
	}
	w := widgets.NewVerticalLayout[string](widgets.NewLine(q)).
		AppendReceiver(widgets.NewInput(inputOpts...))

	answer, err := runtime.Run(ctx, p.term, p.theme, w, p.runOpts...)
	if !needsFallback(err) {
		if err == nil {
			if answer == "" && o.hasDefault {
				answer = o.def
			}
			p.echo(q, answer)
		}
		return answer, err
	}

	for {
		line, err := p.readLine(q)
		switch {
		case errors.Is(err, io.EOF) && o.hasDefault:
			return o.def, nil
		case errors.Is(err, io.EOF):
			return valueRequired[string](p)
		case err != nil:
			return "", err
		case line != "":
			return line, nil
		case o.hasDefault:
			return o.def, nil
		}
		p.complain("Input is required.")
	}
}

// Answer is the default of a yes/no question.
type Answer int

const (
	NoDefault Answer = iota
	Yes
	No
)

// AskYesNo asks a yes/no question.
func (p *Prompter) AskYesNo(ctx context.Context, question string, def Answer) (bool, error) {
	resume := p.suspend()
	defer resume()

	desc := ""
	switch def {
	case Yes:
		desc = "yes"
	case No:
		desc = "no"
	}
	q := p.question(question, "yes/no", desc)

	choice := widgets.NewChoice([]widgets.Option[bool]{
		{Value: true, Display: "yes"},
		{Value: false, Display: "no"},
	})
	if def == No {
		choice.Grid().SetIndex(1)
	}
	if def != NoDefault {
		choice.WithDefault(def == Yes)
	}
	w := widgets.NewVerticalLayout[bool](widgets.NewLine(q)).AppendReceiver(choice)

	answer, err := runtime.Run(ctx, p.term, p.theme, w, p.runOpts...)
	if !needsFallback(err) {
		if err == nil {
			p.echo(q, yesNo(answer))
		}
		return answer, err
	}

	for {
		line, err := p.readLine(q)
		switch {
		case errors.Is(err, io.EOF) && def != NoDefault:
			return def == Yes, nil
		case errors.Is(err, io.EOF):
			return valueRequired[bool](p)
		case err != nil:
			return false, err
		case line == "" && def != NoDefault:
			return def == Yes, nil
		case line == "":
			p.complain("Input is required.")
			continue
		}
		if v, ok := parseYesNo(line); ok {
			return v, nil
		}
		p.complain("Error: invalid value.")
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func parseYesNo(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "1":
		return true, true
	case "n", "no", "false", "0":
		return false, true
	}
	return false, false
}

// AskChoice asks the user to pick one of the options. def is the index of
// the default option, or -1 for none.
func AskChoice[T any](ctx context.Context, p *Prompter, question string, options []widgets.Option[T], def int) (T, error) {
	resume := p.suspend()
	defer resume()

	hasDefault := def >= 0 && def < len(options)
	desc := ""
	if hasDefault {
		desc = display(options[def])
	}
	q := p.question(question, "", desc)

	choice := widgets.NewChoice(options)
	if hasDefault {
		choice.Grid().SetIndex(def)
		choice.WithDefault(options[def].Value)
	}
	w := widgets.NewVerticalLayout[T](widgets.NewLine(q)).AppendReceiver(choice)

	answer, err := runtime.Run(ctx, p.term, p.theme, w, p.runOpts...)
	if !needsFallback(err) {
		if err == nil {
			if i, ok := choice.Grid().Index(); ok {
				p.echo(q, display(options[i]))
			}
		}
		return answer, err
	}

	var zero T
	if len(options) == 0 {
		return zero, apperrors.New(apperrors.ErrCodeValueRequired, "no options to choose from")
	}
	for i, o := range options {
		p.writeLine(text.New(fmt.Sprintf("  %d. ", i+1), p.theme.GetColor("msg/plain_text"), display(o)))
	}
	for {
		line, err := p.readLine(q)
		switch {
		case errors.Is(err, io.EOF) && hasDefault:
			return options[def].Value, nil
		case errors.Is(err, io.EOF):
			return valueRequired[T](p)
		case err != nil:
			return zero, err
		case line == "" && hasDefault:
			return options[def].Value, nil
		case line == "":
			p.complain("Input is required.")
			continue
		}
		if i, ok := findOption(options, line); ok {
			return options[i].Value, nil
		}
		p.complain("Error: invalid choice.")
	}
}

// AskMultiple asks the user to pick any number of options. Without a
// widget, the answer is a comma-separated list of numbers or option texts.
func AskMultiple[T any](ctx context.Context, p *Prompter, question string, options []widgets.Option[T]) ([]T, error) {
	resume := p.suspend()
	defer resume()

	q := p.question(question, "", "")
	ms := widgets.NewMultiselect(options)
	w := widgets.NewVerticalLayout[[]T](widgets.NewLine(q)).AppendReceiver(ms)

	answer, err := runtime.Run(ctx, p.term, p.theme, w, p.runOpts...)
	if !needsFallback(err) {
		if err == nil {
			var names []string
			for _, i := range ms.SelectedIndexes() {
				names = append(names, display(options[i]))
			}
			p.echo(q, strings.Join(names, ", "))
		}
		return answer, err
	}

	for i, o := range options {
		p.writeLine(text.New(fmt.Sprintf("  %d. ", i+1), p.theme.GetColor("msg/plain_text"), display(o)))
	}
	for {
		line, err := p.readLine(q)
		switch {
		case errors.Is(err, io.EOF):
			return valueRequired[[]T](p)
		case err != nil:
			return nil, err
		}
		values, ok := pickMany(options, line)
		if ok {
			return values, nil
		}
		p.complain("Error: invalid choice.")
	}
}

// pickMany parses a comma-separated answer. An empty answer selects
// nothing.
func pickMany[T any](options []widgets.Option[T], answer string) ([]T, bool) {
	values := []T{}
	for part := range strings.SplitSeq(answer, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		i, ok := findOption(options, part)
		if !ok {
			return nil, false
		}
		values = append(values, options[i].Value)
	}
	return values, true
}

func display[T any](o widgets.Option[T]) string {
	if o.Display != "" {
		return o.Display
	}
	return fmt.Sprint(o.Value)
}

// findOption accepts a 1-based number or an option's text, ignoring case.
func findOption[T any](options []widgets.Option[T], answer string) (int, bool) {
	answer = strings.TrimSpace(answer)
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(options) {
			return n - 1, true
		}
		return 0, false
	}
	for i, o := range options {
		if strings.EqualFold(display(o), answer) {
			return i, true
		}
	}
	return 0, false
}

func needsFallback(err error) bool {
	return apperrors.IsCode(err, apperrors.ErrCodeNotInteractive) ||
		apperrors.IsCode(err, apperrors.ErrCodeRawModeUnavailable)
}

func valueRequired[T any](p *Prompter) (T, error) {
	var zero T
	p.log.Warn(logging.CategoryInput, "no_answer", "input ended before an answer was given", nil)
	return zero, apperrors.New(apperrors.ErrCodeValueRequired, "input ended and there is no default")
}

func (p *Prompter) suspend() (resume func()) {
	if p.coord == nil || p.coord.Suspend() != nil {
		return func() {}
	}
	return func() { _ = p.coord.Resume() }
}

// question formats the question line: the text, what kind of input is
// expected and the default, followed by ": " or, if the text already ends
// with punctuation and there is nothing to add, a single space.
func (p *Prompter) question(msg, input, def string) text.ColorizedString {
	textColor := p.theme.GetColor("msg/question/text")
	q := text.New(
		p.theme.GetColor("msg/question/decoration"), p.theme.GetMsgDecoration("question", p.term.IsUnicode),
		textColor, msg,
	)
	if input != "" {
		q.AppendStr(" (" + input + ")")
	}
	if def != "" {
		q.Append(text.New(" [", p.theme.GetColor("note"), def, textColor, "]"))
	}
	if input != "" || def != "" || !endsWithPunct(msg) {
		q.AppendStr(": ")
	} else {
		q.AppendStr(" ")
	}
	return q
}

func endsWithPunct(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)
	return unicode.IsPunct(r[len(r)-1])
}

// echo leaves the question and its answer on screen after a widget is
// erased.
func (p *Prompter) echo(q text.ColorizedString, answer string) {
	line := q.Clone()
	line.Append(text.New(p.theme.GetColor("msg/plain_text"), answer))
	p.writeLine(line)
}

func (p *Prompter) complain(msg string) {
	p.writeLine(text.New(p.theme.GetColor("msg/error/text"), msg))
}

func (p *Prompter) writeLine(line text.ColorizedString) {
	_, _ = io.WriteString(p.term.Out, line.Code(p.term.ColorSupport, color.None)+"\n")
}

// readLine prints q and reads one line of input without its line ending.
// The last line of the input counts even if it has no line ending.
func (p *Prompter) readLine(q text.ColorizedString) (string, error) {
	_, _ = io.WriteString(p.term.Out, q.Code(p.term.ColorSupport, color.None))
	if p.term.In == nil {
		return "", io.EOF
	}
	if p.in == nil {
		p.in = bufio.NewReader(p.term.In)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
