package widgets

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/taminomara/yuio-sub000/pkg/ui/compositor"
	"github.com/taminomara/yuio-sub000/pkg/ui/runtime"
	"github.com/taminomara/yuio-sub000/pkg/ui/terminal"
	"github.com/taminomara/yuio-sub000/pkg/ui/text"
)

// wordSeparators are ASCII punctuation and whitespace.
const wordSeparators = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~ \t\n\r\v\f"

const maxUndo = 50

type editAction int

const (
	actionSymbol editAction = iota
	actionSeparator
	actionDelete
)

type snapshot struct {
	text   []rune
	pos    int
	action editAction
}

// Input is an editable text box with emacs-style key bindings and undo.
type Input struct {
	text        []rune
	pos         int
	placeholder string
	decoration  string
	multiline   bool
	special     bool
	def         string
	hasDefault  bool

	history           []snapshot
	skipped           int
	requireCheckpoint bool

	keymap *runtime.Keymap[string]

	wrapped          []text.ColorizedString
	wrappedWidth     int
	cursorX, cursorY int
	cursorValid      bool
}

// InputOption configures an Input.
type InputOption func(*Input)

// WithText sets the initial text; the cursor is placed after it.
func WithText(s string) InputOption {
	return func(in *Input) {
		in.text = []rune(s)
		in.pos = len(in.text)
	}
}

// WithPlaceholder sets the text shown while the input is empty.
func WithPlaceholder(s string) InputOption {
	return func(in *Input) { in.placeholder = s }
}

// WithDecoration sets a marker drawn before the first line.
func WithDecoration(s string) InputOption {
	return func(in *Input) { in.decoration = s }
}

// Multiline makes Enter insert a newline; Alt+Enter accepts.
func Multiline() InputOption {
	return func(in *Input) { in.multiline = true }
}

// AllowSpecial keeps non-printable characters instead of dropping them.
func AllowSpecial() InputOption {
	return func(in *Input) { in.special = true }
}

// WithDefault sets the value returned when input is cancelled.
func WithDefault(s string) InputOption {
	return func(in *Input) {
		in.def = s
		in.hasDefault = true
	}
}

// NewInput creates an input widget.
func NewInput(opts ...InputOption) *Input {
	in := &Input{}
	for _, opt := range opts {
		opt(in)
	}
	in.history = []snapshot{{text: in.text, pos: in.pos, action: actionSymbol}}
	in.keymap = in.bindings()
	return in
}

func (in *Input) bindings() *runtime.Keymap[string] {
	km := runtime.NewKeymap[string]()
	cont := func(fn func()) func() runtime.Outcome[string] {
		return func() runtime.Outcome[string] {
			fn()
			return runtime.Continue[string]()
		}
	}
	accept := func() runtime.Outcome[string] { return runtime.Stop(string(in.text)) }

	if in.multiline {
		km.Bind("new line", cont(func() { in.Insert("\n") }), runtime.Key(terminal.KeyEnter))
		km.Bind("accept", accept, runtime.Key(terminal.KeyEnter).WithAlt())
	} else {
		km.Bind("accept", accept, runtime.Key(terminal.KeyEnter))
		km.Bind("", accept, runtime.Key(terminal.KeyEnter).WithAlt())
	}
	km.Bind("", func() runtime.Outcome[string] { return runtime.Cancel[string]() }, runtime.Key(terminal.KeyEscape))

	km.Bind("", cont(func() { in.Up(true) }), runtime.Key(terminal.KeyUp))
	km.Bind("", cont(func() { in.Down(true) }), runtime.Key(terminal.KeyDown))
	km.Bind("", cont(func() { in.Left(true) }), runtime.Key(terminal.KeyLeft), runtime.CtrlRune('b'))
	km.Bind("", cont(func() { in.Right(true) }), runtime.Key(terminal.KeyRight), runtime.CtrlRune('f'))
	km.Bind("", cont(func() { in.LeftWord(true) }), runtime.Key(terminal.KeyLeft).WithAlt(), runtime.AltRune('b'))
	km.Bind("", cont(func() { in.RightWord(true) }), runtime.Key(terminal.KeyRight).WithAlt(), runtime.AltRune('f'))
	km.Bind("", cont(func() { in.Home(true) }), runtime.Key(terminal.KeyHome), runtime.CtrlRune('a'))
	km.Bind("", cont(func() { in.End(true) }), runtime.Key(terminal.KeyEnd), runtime.CtrlRune('e'))

	km.Bind("", cont(in.Backspace), runtime.Key(terminal.KeyBackspace), runtime.CtrlRune('h'))
	km.Bind("", cont(in.Delete), runtime.Key(terminal.KeyDelete))
	km.Bind("", func() runtime.Outcome[string] {
		if len(in.text) == 0 {
			return runtime.Cancel[string]()
		}
		in.Delete()
		return runtime.Continue[string]()
	}, runtime.CtrlRune('d'))
	km.Bind("delete word", cont(in.BackspaceWord), runtime.CtrlRune('w'), runtime.Key(terminal.KeyBackspace).WithAlt())
	km.Bind("", cont(in.DeleteWord), runtime.AltRune('d'), runtime.Key(terminal.KeyDelete).WithAlt())
	km.Bind("", cont(in.BackspaceHome), runtime.CtrlRune('u'))
	km.Bind("", cont(in.DeleteEnd), runtime.CtrlRune('k'))
	km.Bind("undo", cont(in.Undo), runtime.CtrlRune('7'), runtime.CtrlRune('_'), runtime.CtrlRune('-'))

	km.SetFallback(func(ev terminal.KeyboardEvent) runtime.Outcome[string] {
		switch {
		case ev.Key == terminal.KeyPaste:
			in.Insert(in.cleanPaste(ev.PasteStr))
		case ev.Key == terminal.KeyRune && !ev.Ctrl && !ev.Alt:
			if in.special || unicode.IsPrint(ev.Rune) {
				in.Insert(string(ev.Rune))
			}
		}
		return runtime.Continue[string]()
	})
	return km
}

func (in *Input) cleanPaste(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if !in.multiline {
		s = strings.ReplaceAll(s, "\n", " ")
	}
	if in.special {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)
}

// Text returns the current text.
func (in *Input) Text() string {
	return string(in.text)
}

// SetText replaces the text, keeping the cursor within it.
func (in *Input) SetText(s string) {
	in.text = []rune(s)
	in.wrapped = nil
	in.SetPos(in.pos)
}

// Pos returns the cursor position in characters.
func (in *Input) Pos() int {
	return in.pos
}

// SetPos moves the cursor, clamping it to the text.
func (in *Input) SetPos(pos int) {
	in.pos = max(0, min(pos, len(in.text)))
	in.cursorValid = false
}

// Checkpoint makes the next edit start a new undo step.
func (in *Input) Checkpoint() {
	in.requireCheckpoint = true
}

func (in *Input) checkpoint(action editAction) {
	prev := in.history[len(in.history)-1]

	if action == prev.action && !in.requireCheckpoint {
		// Same kind of edit at the same place: extend the last step.
		in.skipped++
		return
	}
	skipped := in.skipped
	in.skipped = 0
	if action == actionSymbol && prev.action == actionSeparator && skipped == 0 {
		// A single separator is merged with the word that follows it.
		in.history[len(in.history)-1].action = action
		return
	}
	if string(in.text) == string(prev.text) {
		return
	}

	in.history = append(in.history, snapshot{
		text:   append([]rune(nil), in.text...),
		pos:    in.pos,
		action: action,
	})
	if len(in.history) > maxUndo {
		in.history = in.history[1:]
	}
	in.requireCheckpoint = false
}

// Undo restores the text before the last group of edits.
func (in *Input) Undo() {
	last := in.history[len(in.history)-1]
	in.text = append([]rune(nil), last.text...)
	in.wrapped = nil
	in.SetPos(last.pos)
	if len(in.history) > 1 {
		in.history = in.history[:len(in.history)-1]
	}
}

// Insert inserts s at the cursor.
func (in *Input) Insert(s string) {
	if s == "" {
		return
	}
	action := actionSymbol
	if r, _ := utf8.DecodeRuneInString(s); utf8.RuneCountInString(s) == 1 && isWordSeparator(r) {
		action = actionSeparator
	}
	in.checkpoint(action)

	ins := []rune(s)
	buf := make([]rune, 0, len(in.text)+len(ins))
	buf = append(buf, in.text[:in.pos]...)
	buf = append(buf, ins...)
	buf = append(buf, in.text[in.pos:]...)
	in.text = buf
	in.wrapped = nil
	in.SetPos(in.pos + len(ins))
}

func (in *Input) move(pos int, checkpoint bool) {
	in.SetPos(pos)
	in.requireCheckpoint = in.requireCheckpoint || checkpoint
}

// Left moves the cursor one character left.
func (in *Input) Left(checkpoint bool) {
	in.move(in.pos-1, checkpoint)
}

// Right moves the cursor one character right.
func (in *Input) Right(checkpoint bool) {
	in.move(in.pos+1, checkpoint)
}

// LeftWord moves the cursor to the start of the previous word.
func (in *Input) LeftWord(checkpoint bool) {
	pos := max(in.pos-1, 0)
	for pos > 0 && isWordSeparator(in.text[pos]) && in.text[pos-1] != '\n' {
		pos--
	}
	for pos > 0 && !isWordSeparator(in.text[pos-1]) {
		pos--
	}
	in.move(pos, checkpoint)
}

// RightWord moves the cursor to the end of the next word.
func (in *Input) RightWord(checkpoint bool) {
	pos := min(in.pos+1, len(in.text))
	for pos < len(in.text) && isWordSeparator(in.text[pos]) && in.text[pos] != '\n' {
		pos++
	}
	for pos < len(in.text) && !isWordSeparator(in.text[pos]) {
		pos++
	}
	in.move(pos, checkpoint)
}

// Home moves the cursor to the start of the line.
func (in *Input) Home(checkpoint bool) {
	in.move(in.lineStart(in.pos), checkpoint)
}

// End moves the cursor to the end of the line.
func (in *Input) End(checkpoint bool) {
	in.move(in.lineEnd(in.pos), checkpoint)
}

// Up moves the cursor to the same display column on the previous line.
func (in *Input) Up(checkpoint bool) {
	start := in.lineStart(in.pos)
	if start > 0 {
		column := text.LineWidth(string(in.text[start:in.pos]))
		prev := in.lineStart(start - 1)
		in.move(in.atColumn(prev, column), checkpoint)
	} else {
		in.move(0, checkpoint)
	}
}

// Down moves the cursor to the same display column on the next line.
func (in *Input) Down(checkpoint bool) {
	start := in.lineStart(in.pos)
	column := text.LineWidth(string(in.text[start:in.pos]))
	end := in.lineEnd(in.pos)
	if end < len(in.text) {
		in.move(in.atColumn(end+1, column), checkpoint)
	} else {
		in.move(end, checkpoint)
	}
}

func (in *Input) lineStart(pos int) int {
	for pos > 0 && in.text[pos-1] != '\n' {
		pos--
	}
	return pos
}

func (in *Input) lineEnd(pos int) int {
	for pos < len(in.text) && in.text[pos] != '\n' {
		pos++
	}
	return pos
}

// atColumn walks from pos until the given display column or line end.
func (in *Input) atColumn(pos, column int) int {
	width := 0
	for pos < len(in.text) && in.text[pos] != '\n' && width < column {
		width += text.LineWidth(string(in.text[pos]))
		pos++
	}
	return pos
}

// cut removes text between the cursor and where motion puts it.
func (in *Input) cut(motion func(checkpoint bool)) {
	prev := in.pos
	motion(false)
	from, to := min(prev, in.pos), max(prev, in.pos)
	if from == to {
		return
	}
	in.pos = prev
	in.checkpoint(actionDelete)

	in.text = append(in.text[:from:from], in.text[to:]...)
	in.wrapped = nil
	in.SetPos(from)
}

// Backspace deletes the character before the cursor.
func (in *Input) Backspace() { in.cut(in.Left) }

// Delete deletes the character after the cursor.
func (in *Input) Delete() { in.cut(in.Right) }

// BackspaceWord deletes the word before the cursor.
func (in *Input) BackspaceWord() { in.cut(in.LeftWord) }

// DeleteWord deletes the word after the cursor.
func (in *Input) DeleteWord() { in.cut(in.RightWord) }

// BackspaceHome deletes everything from the start of the line to the cursor.
func (in *Input) BackspaceHome() { in.cut(in.Home) }

// DeleteEnd deletes everything from the cursor to the end of the line.
func (in *Input) DeleteEnd() { in.cut(in.End) }

func (in *Input) decorationWidth() int {
	if in.decoration == "" {
		return 0
	}
	return text.LineWidth(in.decoration) + 1
}

func (in *Input) Layout(rc *compositor.RenderContext) (int, int) {
	decorationWidth := in.decorationWidth()
	textWidth := rc.Width() - decorationWidth
	if textWidth < 2 {
		in.wrapped = nil
		in.wrappedWidth = max(textWidth, 0)
		in.cursorValid = false
		return 0, 0
	}

	if in.wrapped == nil || in.wrappedWidth != textWidth {
		in.wrappedWidth = textWidth
		if len(in.text) > 0 {
			in.wrapped = text.New(rc.GetColor("menu/input/text"), string(in.text)).Wrap(textWidth, text.PreserveSpaces())
			in.cursorValid = false
		} else {
			in.wrapped = text.New(rc.GetColor("menu/input/placeholder"), in.placeholder).Wrap(textWidth)
			in.cursorX, in.cursorY, in.cursorValid = decorationWidth, 0, true
		}
	}

	if !in.cursorValid {
		in.cursorX, in.cursorY = decorationWidth, len(in.wrapped)
		total := 0
		for y, line := range in.wrapped {
			if total+line.Len() >= in.pos {
				x := text.LineWidth(string([]rune(line.String())[:in.pos-total]))
				if x >= textWidth {
					in.cursorX, in.cursorY = decorationWidth, y+1
				} else {
					in.cursorX, in.cursorY = decorationWidth+x, y
				}
				break
			}
			total += line.Len() + utf8.RuneCountInString(line.ExplicitNewline())
		}
		in.cursorValid = true
	}

	height := max(len(in.wrapped), in.cursorY)
	return height, height
}

func (in *Input) Draw(rc *compositor.RenderContext) {
	if in.decoration != "" {
		rc.SetColorPath("menu/input/decoration")
		rc.Write(in.decoration)
		rc.MovePos(1, 0)
	}
	if in.wrapped != nil {
		rc.WriteText(in.wrapped)
	}
	if in.cursorValid {
		rc.SetFinalPos(in.cursorX, in.cursorY)
	}
}

// Event handles editing keys. Ctrl+D on an empty input cancels it.
func (in *Input) Event(ev terminal.KeyboardEvent) runtime.Outcome[string] {
	return in.keymap.Dispatch(ev)
}

// Default is the value set with WithDefault.
func (in *Input) Default() (string, bool) {
	return in.def, in.hasDefault
}

// Help lists the main bindings.
func (in *Input) Help() []runtime.HelpEntry {
	return in.keymap.Help()
}

func isWordSeparator(r rune) bool {
	return strings.ContainsRune(wordSeparators, r)
}
