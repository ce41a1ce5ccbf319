package widgets

import (
	"strings"
	"unicode"

	"github.com/taminomara/yuio-sub000/pkg/ui/compositor"
	"github.com/taminomara/yuio-sub000/pkg/ui/runtime"
	"github.com/taminomara/yuio-sub000/pkg/ui/terminal"
	"github.com/taminomara/yuio-sub000/pkg/ui/text"
)

const (
	spaceBetweenColumns = 2
	minColumnWidth      = 10
)

// Option is one entry of a Grid.
type Option[T any] struct {
	Value T

	// Display is the option's main text. Prefix and Suffix are drawn
	// around it in their own colors.
	Display string
	Prefix  string
	Suffix  string

	// Comment is shown in brackets after the text, if there is room.
	Comment string

	// ColorTag selects the colors under menu/choice/{status}/{element}/{tag}.
	ColorTag string
}

// Grid lays out options in columns and pages and keeps track of the
// current one. Choice and Multiselect are built on it.
type Grid[T any] struct {
	options    []Option[T]
	current    int
	decoration string

	// selected is set for grids that mark options as selected.
	selected func(i int) bool

	activeDeco   string
	selectedMark string
	emptyMark    string
	markWidth    int
	columnWidth  int
	numRows      int
	numColumns   int

	search []rune
}

// NewGrid creates a grid with the first option current.
func NewGrid[T any](options []Option[T]) *Grid[T] {
	g := &Grid[T]{}
	g.SetOptions(options, 0)
	return g
}

// SetOptions replaces the options and sets the current index.
func (g *Grid[T]) SetOptions(options []Option[T], index int) {
	g.options = options
	g.search = nil
	g.SetIndex(index)
}

// Options returns the options.
func (g *Grid[T]) Options() []Option[T] {
	return g.options
}

// SetDecoration sets the marker drawn before the current option. By default
// the theme's "menu/active" decoration is used.
func (g *Grid[T]) SetDecoration(decoration string) {
	g.decoration = decoration
}

// SetIndex makes the i-th option current. A negative index, or a grid
// without options, leaves nothing current. Other indices wrap around.
func (g *Grid[T]) SetIndex(i int) {
	if i < 0 || len(g.options) == 0 {
		g.current = -1
		return
	}
	g.current = i % len(g.options)
}

// Index returns the current index.
func (g *Grid[T]) Index() (int, bool) {
	return g.current, g.current >= 0
}

// Current returns the current option.
func (g *Grid[T]) Current() (Option[T], bool) {
	if g.current < 0 || g.current >= len(g.options) {
		var zero Option[T]
		return zero, false
	}
	return g.options[g.current], true
}

func (g *Grid[T]) pageSize() int {
	return g.numRows * g.numColumns
}

// PrevItem moves to the previous option, wrapping around.
func (g *Grid[T]) PrevItem() {
	g.search = nil
	if len(g.options) == 0 {
		return
	}
	if g.current < 0 {
		g.current = len(g.options) - 1
		return
	}
	g.current = mod(g.current-1, len(g.options))
}

// NextItem moves to the next option, wrapping around.
func (g *Grid[T]) NextItem() {
	g.search = nil
	if len(g.options) == 0 {
		return
	}
	if g.current < 0 {
		g.current = 0
		return
	}
	g.current = mod(g.current+1, len(g.options))
}

// PrevColumn moves one column left.
func (g *Grid[T]) PrevColumn() {
	g.moveColumn(-1)
}

// NextColumn moves one column right.
func (g *Grid[T]) NextColumn() {
	g.moveColumn(1)
}

func (g *Grid[T]) moveColumn(dir int) {
	g.search = nil
	if len(g.options) == 0 || g.current < 0 || g.numRows == 0 {
		return
	}
	// Columns have numRows cells, the last one possibly padded.
	total := g.numRows * ceilDiv(len(g.options), g.numRows)
	g.current = mod(g.current+dir*g.numRows, total)
	if g.current >= len(g.options) {
		g.current = len(g.options) - 1
	}
}

// NextPage moves to the first option of the next page.
func (g *Grid[T]) NextPage() {
	g.search = nil
	size := g.pageSize()
	if len(g.options) == 0 || g.current < 0 || size == 0 {
		return
	}
	g.current += size - g.current%size
	if g.current >= len(g.options) {
		g.current = 0
	}
}

// PrevPage moves to the last option of the previous page.
func (g *Grid[T]) PrevPage() {
	g.search = nil
	size := g.pageSize()
	if len(g.options) == 0 || g.current < 0 || size == 0 {
		return
	}
	g.current -= g.current%size + 1
	if g.current < 0 {
		g.current = len(g.options) - 1
	}
}

// Home moves to the first option.
func (g *Grid[T]) Home() {
	g.search = nil
	if len(g.options) > 0 && g.current >= 0 {
		g.current = 0
	}
}

// End moves to the last option.
func (g *Grid[T]) End() {
	g.search = nil
	if len(g.options) > 0 && g.current >= 0 {
		g.current = len(g.options) - 1
	}
}

// QuickSelect jumps to an option whose text starts with the characters
// typed so far. Typing the same single character again cycles through
// the options that start with it. It reports whether an option matched.
func (g *Grid[T]) QuickSelect(r rune) bool {
	if len(g.options) == 0 {
		return false
	}
	r = unicode.ToLower(r)
	start := max(g.current, 0)

	if len(g.search) > 0 && !(len(g.search) == 1 && g.search[0] == r) {
		prefix := string(g.search) + string(r)
		if i, ok := g.find(prefix, start); ok {
			g.search = append(g.search, r)
			g.current = i
			return true
		}
	}

	g.search = []rune{r}
	if i, ok := g.find(string(r), start+1); ok {
		g.current = i
		return true
	}
	return false
}

func (g *Grid[T]) find(prefix string, from int) (int, bool) {
	n := len(g.options)
	for k := 0; k < n; k++ {
		i := (from + k) % n
		if strings.HasPrefix(strings.ToLower(g.options[i].Display), prefix) {
			return i, true
		}
	}
	return 0, false
}

func (g *Grid[T]) decorationWidth() int {
	w := text.LineWidth(g.activeDeco) + 1
	if g.selected != nil {
		w += g.markWidth
	}
	return w
}

func (g *Grid[T]) optionWidth(o Option[T]) int {
	w := spaceBetweenColumns + g.decorationWidth() +
		text.LineWidth(o.Prefix) + text.LineWidth(o.Display) + text.LineWidth(o.Suffix)
	if o.Comment != "" {
		w += 3 + text.LineWidth(o.Comment)
	}
	return w
}

func (g *Grid[T]) resolveDecorations(rc *compositor.RenderContext) {
	g.activeDeco = g.decoration
	if g.activeDeco == "" {
		g.activeDeco = themeMarker(rc, "menu/active", ">")
	}
	if g.selected != nil {
		g.selectedMark = themeMarker(rc, "menu/selected", "[x]")
		g.emptyMark = themeMarker(rc, "menu/unselected", "[ ]")
		g.markWidth = max(text.LineWidth(g.selectedMark), text.LineWidth(g.emptyMark)) + 1
	}
}

func themeMarker(rc *compositor.RenderContext, name, fallback string) string {
	if d := strings.TrimRight(rc.Decoration(name), " "); d != "" {
		return d
	}
	return fallback
}

// Layout fits as many columns as the widest option allows. The grid wants
// enough rows for all options but can do with one.
func (g *Grid[T]) Layout(rc *compositor.RenderContext) (int, int) {
	g.resolveDecorations(rc)

	width := minColumnWidth
	for _, o := range g.options {
		width = max(width, g.optionWidth(o))
	}
	g.columnWidth = max(1, min(width, rc.Width()))
	g.numColumns = max(1, rc.Width()/g.columnWidth)
	g.numRows = max(1, ceilDiv(len(g.options), g.numColumns))
	return 1, g.numRows
}

// Draw shows the page that contains the current option.
func (g *Grid[T]) Draw(rc *compositor.RenderContext) {
	g.numRows = min(g.numRows, rc.Height())
	size := g.pageSize()
	if size == 0 {
		return
	}

	start := 0
	if g.current >= 0 {
		start = g.current - g.current%size
	}
	end := min(start+size, len(g.options))

	for i := start; i < end; i++ {
		x := (i - start) / g.numRows
		y := (i - start) % g.numRows
		rc.SetPos(x*g.columnWidth, y)
		g.drawOption(rc, g.columnWidth-spaceBetweenColumns, i)
	}
}

func (g *Grid[T]) drawOption(rc *compositor.RenderContext, width, i int) {
	o := g.options[i]
	prefixWidth := text.LineWidth(o.Prefix)
	mainWidth := text.LineWidth(o.Display)
	leftWidth := prefixWidth + mainWidth + text.LineWidth(o.Suffix)
	decoWidth := g.decorationWidth()

	right := o.Comment
	rightWidth := text.LineWidth(right)
	rightDecoWidth := 0
	if right != "" {
		rightDecoWidth = 3
	}

	total := decoWidth + leftWidth + rightDecoWidth + rightWidth
	if total > width {
		rightWidth = max(rightWidth-(total-width), 0)
		if rightWidth == 0 {
			right, rightDecoWidth = "", 0
		}
		total = decoWidth + leftWidth + rightDecoWidth + rightWidth
	}
	if total > width {
		leftWidth = max(leftWidth-(total-width), 3)
		total = decoWidth + leftWidth + rightDecoWidth + rightWidth
	}
	if total > width || total == 0 {
		return
	}

	status := "normal"
	if i == g.current {
		status = "active"
	}
	path := func(element string) string {
		p := "menu/choice/" + status + "/" + element
		if o.ColorTag != "" {
			p += "/" + o.ColorTag
		}
		return p
	}

	if i == g.current {
		rc.SetColorPath(path("decoration"))
		rc.Write(g.activeDeco)
		rc.SetColorPath(path("plain_text"))
		rc.Write(" ")
	} else {
		rc.SetColorPath(path("plain_text"))
		rc.Write(strings.Repeat(" ", text.LineWidth(g.activeDeco)+1))
	}

	if g.selected != nil {
		mark := g.emptyMark
		rc.SetColorPath(path("decoration"))
		if g.selected(i) {
			mark = g.selectedMark
			rc.SetColorPath("menu/choice/selected/decoration")
		}
		rc.Write(mark)
		rc.SetColorPath(path("plain_text"))
		rc.Write(strings.Repeat(" ", g.markWidth-text.LineWidth(mark)))
	}

	rc.SetColorPath(path("prefix"))
	rc.WriteMax(o.Prefix, leftWidth)
	rc.SetColorPath(path("text"))
	rc.WriteMax(o.Display, max(0, leftWidth-prefixWidth))
	rc.SetColorPath(path("suffix"))
	rc.WriteMax(o.Suffix, max(0, leftWidth-prefixWidth-mainWidth))
	rc.SetColorPath(path("plain_text"))
	rc.Write(strings.Repeat(" ", max(0, width-decoWidth-leftWidth-rightDecoWidth-rightWidth)))

	if right != "" {
		rc.SetColorPath(path("plain_text"))
		rc.Write(" [")
		rc.SetColorPath(path("comment"))
		rc.WriteMax(right, rightWidth)
		rc.SetColorPath(path("plain_text"))
		rc.Write("]")
	}
}

// bindGrid adds navigation and quick-select to a keymap.
func bindGrid[T, U any](km *runtime.Keymap[U], g *Grid[T]) {
	cont := func(fn func()) func() runtime.Outcome[U] {
		return func() runtime.Outcome[U] {
			fn()
			return runtime.Continue[U]()
		}
	}
	up, down := runtime.Key(terminal.KeyUp), runtime.Key(terminal.KeyDown)
	left, right := runtime.Key(terminal.KeyLeft), runtime.Key(terminal.KeyRight)

	km.Bind("", cont(g.PrevItem), up, runtime.Key(terminal.KeyTab).WithShift())
	km.Bind("", cont(g.NextItem), down, runtime.Key(terminal.KeyTab))
	km.Bind("", cont(g.PrevColumn), left)
	km.Bind("", cont(g.NextColumn), right)
	km.Bind("", cont(g.PrevPage), runtime.Key(terminal.KeyPageUp))
	km.Bind("", cont(g.NextPage), runtime.Key(terminal.KeyPageDown))
	km.Bind("", cont(g.Home), runtime.Key(terminal.KeyHome))
	km.Bind("", cont(g.End), runtime.Key(terminal.KeyEnd))
	km.Describe("choose option", up, down, left, right)

	km.SetFallback(func(ev terminal.KeyboardEvent) runtime.Outcome[U] {
		if ev.Key == terminal.KeyRune && !ev.Ctrl && !ev.Alt && unicode.IsPrint(ev.Rune) {
			g.QuickSelect(ev.Rune)
		}
		return runtime.Continue[U]()
	})
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
