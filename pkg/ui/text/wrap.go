package text

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/taminomara/yuio-sub000/pkg/ui/color"
)

// WrapOption configures Wrap.
type WrapOption func(*wrapOptions)

type wrapOptions struct {
	preserveSpaces     bool
	preserveNewlines   bool
	breakOnHyphens     bool
	breakLongWords     bool
	truncate           bool
	ellipsis           string
	indent             ColorizedString
	continuationIndent *ColorizedString
}

// PreserveSpaces keeps whitespace runs as they are instead of collapsing them.
func PreserveSpaces() WrapOption {
	return func(o *wrapOptions) { o.preserveSpaces = true }
}

// CollapseNewlines treats newlines in the text as ordinary spaces.
func CollapseNewlines() WrapOption {
	return func(o *wrapOptions) { o.preserveNewlines = false }
}

// NoHyphenBreaks disables breaking hyphenated words after the hyphen.
func NoHyphenBreaks() WrapOption {
	return func(o *wrapOptions) { o.breakOnHyphens = false }
}

// NoLongWordBreaks keeps words longer than the width on a single line.
func NoLongWordBreaks() WrapOption {
	return func(o *wrapOptions) { o.breakLongWords = false }
}

// Truncate cuts words that do not fit, marking the cut with ellipsis.
// It only affects words that are not broken, see NoLongWordBreaks.
func Truncate(ellipsis string) WrapOption {
	return func(o *wrapOptions) {
		o.truncate = true
		o.ellipsis = ellipsis
	}
}

// Indent is prepended to the first line. It is also used for continuation
// lines unless ContinuationIndent is given.
func Indent(indent ColorizedString) WrapOption {
	return func(o *wrapOptions) { o.indent = indent }
}

// ContinuationIndent is prepended to every line after the first.
func ContinuationIndent(indent ColorizedString) WrapOption {
	return func(o *wrapOptions) { o.continuationIndent = &indent }
}

// Wrap splits the string into lines no wider than width.
//
// Words are packed greedily. A word wider than the line is broken between
// characters, but a wide character is never split: it moves to the next
// line as a whole. Newlines in the text always break the line and are
// recorded in ExplicitNewline. Empty input gives one empty line.
func (s ColorizedString) Wrap(width int, opts ...WrapOption) []ColorizedString {
	o := wrapOptions{preserveNewlines: true, breakOnHyphens: true, breakLongWords: true}
	for _, opt := range opts {
		opt(&o)
	}
	if width < 1 {
		width = 1
	}

	w := &wrapper{width: width, opts: o}
	w.contIndent = o.indent
	if o.continuationIndent != nil {
		w.contIndent = *o.continuationIndent
	}
	w.cur.Append(o.indent)
	w.curWidth = o.indent.Width()
	w.atLineStart = true

	for _, p := range s.parts {
		if p.IsColor {
			w.color(p.Color)
			continue
		}
		for _, word := range splitWords(p.Text, o.breakOnHyphens) {
			w.word(word)
		}
	}

	if !w.cur.IsEmpty() || len(w.lines) == 0 || w.lines[len(w.lines)-1].explicitNewline != "" {
		w.flushLine("")
	}
	return w.lines
}

type wrapper struct {
	width      int
	opts       wrapOptions
	contIndent ColorizedString

	lines       []ColorizedString
	cur         ColorizedString
	curWidth    int
	atLineStart bool
	hasEllipsis bool
	needSpace   bool
}

func (w *wrapper) flushLine(explicitNewline string) {
	w.cur.explicitNewline = explicitNewline
	w.lines = append(w.lines, w.cur)

	active := w.cur.activeColor
	w.cur = ColorizedString{}
	w.cur.Append(w.contIndent)
	w.cur.AppendColor(active)
	w.curWidth = w.contIndent.Width()
	w.atLineStart = true
	w.hasEllipsis = false
	w.needSpace = false
}

func (w *wrapper) color(c color.Color) {
	if w.needSpace && w.curWidth+1 < w.width {
		// Whitespace before a color change is flushed so it gets the old color.
		w.appendWord(" ", 1)
	}
	w.needSpace = false
	w.cur.AppendColor(c)
}

func (w *wrapper) word(word string) {
	if isNewline(word) {
		if w.opts.preserveNewlines || strings.HasPrefix(word, "\v") {
			w.flushLine(word)
			return
		}
		word = " "
	}

	isSpace := isSpaceRun(word)
	if isSpace {
		keepIndent := w.atLineStart && (len(w.lines) == 0 || w.lines[len(w.lines)-1].explicitNewline != "")
		if w.opts.preserveSpaces || keepIndent {
			word = normalizeSpaces(word)
		} else {
			w.needSpace = true
			return
		}
	}

	width := LineWidth(word)
	if w.tryFit(word, width) {
		return
	}

	if !w.atLineStart && !isSpace {
		w.flushLine("")
	}

	if w.opts.breakLongWords || isSpace {
		w.appendWordWithBreaks(word, width)
	} else {
		w.appendWord(word, width)
	}
}

func (w *wrapper) tryFit(word string, width int) bool {
	space := 0
	if w.needSpace {
		space = 1
	}
	if w.curWidth+width+space > w.width {
		return false
	}
	if w.needSpace {
		w.appendWord(" ", 1)
		w.needSpace = false
	}
	w.appendWord(word, width)
	return true
}

func (w *wrapper) appendWord(word string, width int) {
	if w.opts.truncate && w.curWidth+width > w.width {
		head, headWidth := fitHead(word, w.width-w.curWidth)
		if head != "" {
			w.cur.AppendStr(head)
			w.curWidth += headWidth
			w.atLineStart = false
			w.hasEllipsis = false
		}
		if w.opts.ellipsis != "" {
			w.addEllipsis()
		}
		return
	}
	w.cur.AppendStr(word)
	w.curWidth += width
	w.hasEllipsis = false
	w.atLineStart = false
}

func (w *wrapper) addEllipsis() {
	if w.hasEllipsis {
		return
	}
	if w.curWidth+1 <= w.width {
		w.cur.AppendStr(w.opts.ellipsis)
		w.curWidth++
		w.atLineStart = false
		w.hasEllipsis = true
		return
	}
	if w.atLineStart {
		return
	}
	// Replace the last character on the line.
	for i := len(w.cur.parts) - 1; i >= 0; i-- {
		p := &w.cur.parts[i]
		if p.IsColor {
			continue
		}
		_, size := utf8.DecodeLastRuneInString(p.Text)
		p.Text = p.Text[:len(p.Text)-size] + w.opts.ellipsis
		w.hasEllipsis = true
		return
	}
}

func (w *wrapper) appendWordWithBreaks(word string, width int) {
	for word != "" && w.curWidth+width > w.width {
		head, headWidth := fitHead(word, w.width-w.curWidth)
		if w.atLineStart && head == "" {
			if w.opts.truncate {
				return
			}
			// Nothing fits on an empty line: force one character.
			g := Graphemes(word)[0]
			head, headWidth = g, GraphemeWidth(g)
		}
		w.appendWord(head, headWidth)
		word = word[len(head):]
		width -= headWidth
		if word == "" {
			// The line is full; the next token breaks it.
			return
		}
		w.flushLine("")
	}
	if word != "" {
		w.appendWord(word, width)
	}
}

// fitHead returns the longest prefix of word, cut at a character boundary,
// that fits into the given number of columns.
func fitHead(word string, columns int) (string, int) {
	n, width := 0, 0
	for _, g := range Graphemes(word) {
		gw := GraphemeWidth(g)
		if width+gw > columns {
			break
		}
		n += len(g)
		width += gw
	}
	return word[:n], width
}

func isNewline(word string) bool {
	return word != "" && (word[0] == '\n' || word[0] == '\r' || word[0] == '\v')
}

func isSpaceRun(word string) bool {
	for _, r := range word {
		if r != ' ' && r != '\t' && r != '\b' && r != '\f' {
			return false
		}
	}
	return word != ""
}

var spaceReplacer = strings.NewReplacer("\t", " ", "\b", " ", "\f", " ", "\r", " ", "\n", " ", "\v", " ")

func normalizeSpaces(s string) string {
	return spaceReplacer.Replace(s)
}

// splitWords tokenizes text into newline sequences, whitespace runs and words.
// With hyphens enabled, "letter-letter" compounds are split after the hyphen
// and runs of two or more dashes between words become separate tokens.
func splitWords(s string, hyphens bool) []string {
	var out []string
	for len(s) > 0 {
		switch {
		case s[0] == '\v' || s[0] == '\r' || s[0] == '\n':
			n := newlineLen(s)
			out = append(out, s[:n])
			s = s[n:]
		case isWordSpace(s[0]):
			n := 1
			for n < len(s) && isWordSpace(s[n]) {
				n++
			}
			out = append(out, s[:n])
			s = s[n:]
		default:
			n := 0
			for n < len(s) && !isWordSpace(s[n]) && s[n] != '\n' && s[n] != '\r' && s[n] != '\v' {
				n++
			}
			if hyphens {
				out = append(out, splitHyphens(s[:n])...)
			} else {
				out = append(out, s[:n])
			}
			s = s[n:]
		}
	}
	return out
}

func newlineLen(s string) int {
	n := 0
	if s[0] == '\v' {
		n = 1
		if n == len(s) || (s[n] != '\r' && s[n] != '\n') {
			return n
		}
	}
	if s[n] == '\r' {
		if n+1 < len(s) && s[n+1] == '\n' {
			return n + 2
		}
		return n + 1
	}
	return n + 1
}

func isWordSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\b' || b == '\f'
}

func splitHyphens(word string) []string {
	runes := []rune(word)
	var out []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if runes[i] != '-' {
			continue
		}
		// Em-dash: two or more dashes between word characters.
		if i+1 < len(runes) && runes[i+1] == '-' {
			j := i
			for j < len(runes) && runes[j] == '-' {
				j++
			}
			if i > start && j < len(runes) && isWordPunct(runes[i-1]) && isWordChar(runes[j]) {
				out = append(out, string(runes[start:i]), string(runes[i:j]))
				start = j
			}
			i = j - 1
			continue
		}
		// Hyphenated compound: at least two letters before, a letter after.
		if i-start >= 2 && isLetter(runes[i-1]) && isLetter(runes[i-2]) &&
			i+1 < len(runes) && isLetter(runes[i+1]) && hasLetterAfter(runes, i+2) {
			out = append(out, string(runes[start:i+1]))
			start = i + 1
		}
	}
	return append(out, string(runes[start:]))
}

func hasLetterAfter(runes []rune, i int) bool {
	if i < len(runes) && runes[i] == '-' {
		i++
	}
	return i < len(runes) && isLetter(runes[i])
}

func isLetter(r rune) bool {
	return unicode.IsLetter(r)
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isWordPunct(r rune) bool {
	return isWordChar(r) || strings.ContainsRune("!\"'&.,?", r)
}
