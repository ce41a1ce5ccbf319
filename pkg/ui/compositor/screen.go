// Package compositor draws widgets onto an inline region of the terminal.
//
// A RenderContext keeps two canvases: the one that is currently displayed
// and the one being drawn. Widgets draw into the pending canvas using
// frame-relative coordinates; Render compares both canvases and emits only
// the escape sequences needed to update the cells that changed.
package compositor

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"github.com/taminomara/yuio-sub000/pkg/ui/color"
	"github.com/taminomara/yuio-sub000/pkg/ui/terminal"
	"github.com/taminomara/yuio-sub000/pkg/ui/text"
)

// Colors resolves theme color paths.
type Colors interface {
	GetColor(path string) color.Color
}

type rect struct {
	x0, y0, x1, y1 int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x0 && x < r.x1 && y >= r.y0 && y < r.y1
}

func (r rect) intersect(o rect) rect {
	out := rect{max(r.x0, o.x0), max(r.y0, o.y0), min(r.x1, o.x1), min(r.y1, o.y1)}
	if out.x1 < out.x0 {
		out.x1 = out.x0
	}
	if out.y1 < out.y0 {
		out.y1 = out.y0
	}
	return out
}

// RenderContext is a drawing surface for widgets. It is not safe for
// concurrent use; a single goroutine owns it.
type RenderContext struct {
	term     terminal.Term
	colors   Colors
	noneCode string

	// Active frame, in absolute canvas coordinates, and the cursor
	// relative to it.
	frameX, frameY int
	frameW, frameH int
	clip           rect
	cursorX        int
	cursorY        int
	cursorCode     string

	width, height  int
	finalX, finalY int
	pending        canvas
	displayed      canvas
	pendingRows    int
	displayedRows  int

	// What we know about the real terminal cursor, relative to the
	// top-left corner of the drawing region.
	fullRedraw bool
	termX      int
	termY      int
	termCode   string
	maxTermY   int
	out        bytes.Buffer

	spinnerTick int
	stats       Stats
}

// New creates a render context for the given terminal. Colors may be nil,
// in which case every color path resolves to the default color.
func New(term terminal.Term, colors Colors) *RenderContext {
	return &RenderContext{
		term:     term,
		colors:   colors,
		noneCode: color.None.Code(term.ColorSupport),
	}
}

// Term returns the terminal this context renders to.
func (rc *RenderContext) Term() terminal.Term {
	return rc.term
}

// Width is the width of the active frame.
func (rc *RenderContext) Width() int {
	return rc.frameW
}

// Height is the height of the active frame.
func (rc *RenderContext) Height() int {
	return rc.frameH
}

// CanvasSize is the size of the whole canvas, regardless of frames.
func (rc *RenderContext) CanvasSize() (width, height int) {
	return rc.width, rc.height
}

// Pos returns the cursor position relative to the active frame.
func (rc *RenderContext) Pos() (x, y int) {
	return rc.cursorX, rc.cursorY
}

// SpinnerTick is a counter that animated widgets use to pick a frame.
func (rc *RenderContext) SpinnerTick() int {
	return rc.spinnerTick
}

// AdvanceSpinner moves every spinner to its next frame.
func (rc *RenderContext) AdvanceSpinner() {
	rc.spinnerTick++
}

// Prepare resets the pending canvas for a new round of drawing. The
// displayed canvas is kept, so the next Render only sends the difference.
// A change of terminal size always results in a full redraw.
func (rc *RenderContext) Prepare(fullRedraw bool) {
	width, height := rc.term.Size()
	fullRedraw = fullRedraw || width != rc.width || height != rc.height

	rc.frameX, rc.frameY = 0, 0
	rc.frameW, rc.frameH = width, height
	rc.clip = rect{0, 0, width, height}
	rc.cursorX, rc.cursorY = 0, 0
	rc.cursorCode = rc.noneCode

	rc.width, rc.height = width, height
	rc.finalX, rc.finalY = 0, 0
	if fullRedraw {
		rc.maxTermY = 0
		rc.displayed = newCanvas(width, height, rc.noneCode)
		rc.displayedRows = 0
	}
	rc.pending = newCanvas(width, height, rc.noneCode)
	rc.pendingRows = 0
	rc.fullRedraw = rc.fullRedraw || fullRedraw
}

// Frame runs fn with the drawing frame moved to (x, y) relative to the
// active frame and resized to w×h. A negative w or h takes the remaining
// space. Inside fn the cursor starts at the frame's corner with the
// default color; both are restored when fn returns. Writes outside the
// frame are dropped.
func (rc *RenderContext) Frame(x, y, w, h int, fn func()) {
	frameX, frameY, frameW, frameH := rc.frameX, rc.frameY, rc.frameW, rc.frameH
	clip := rc.clip
	cursorX, cursorY, cursorCode := rc.cursorX, rc.cursorY, rc.cursorCode
	defer func() {
		rc.frameX, rc.frameY, rc.frameW, rc.frameH = frameX, frameY, frameW, frameH
		rc.clip = clip
		rc.cursorX, rc.cursorY, rc.cursorCode = cursorX, cursorY, cursorCode
	}()

	if w < 0 {
		w = rc.frameW - x
	}
	if h < 0 {
		h = rc.frameH - y
	}
	rc.frameX += x
	rc.frameY += y
	rc.frameW = max(w, 0)
	rc.frameH = max(h, 0)
	rc.clip = rc.clip.intersect(rect{rc.frameX, rc.frameY, rc.frameX + rc.frameW, rc.frameY + rc.frameH})
	rc.cursorX, rc.cursorY = 0, 0
	rc.cursorCode = rc.noneCode

	fn()
}

// SetPos moves the cursor within the active frame. Coordinates outside the
// frame are allowed; writes there are clipped.
func (rc *RenderContext) SetPos(x, y int) {
	rc.cursorX, rc.cursorY = x, y
}

// MovePos moves the cursor by the given amount.
func (rc *RenderContext) MovePos(dx, dy int) {
	rc.cursorX += dx
	rc.cursorY += dy
}

// NewLine moves the cursor to the start of the next line of the frame.
func (rc *RenderContext) NewLine() {
	rc.cursorX = 0
	rc.cursorY++
}

// SetFinalPos sets where the terminal cursor is left after rendering,
// relative to the active frame. By default it is the canvas origin.
func (rc *RenderContext) SetFinalPos(x, y int) {
	rc.finalX = rc.frameX + x
	rc.finalY = rc.frameY + y
}

// SetColor sets the color of subsequent writes.
func (rc *RenderContext) SetColor(c color.Color) {
	rc.cursorCode = c.Code(rc.term.ColorSupport)
}

// SetColorPath sets the color of subsequent writes from a theme path.
func (rc *RenderContext) SetColorPath(path string) {
	rc.SetColor(rc.GetColor(path))
}

// GetColor resolves a theme path.
func (rc *RenderContext) GetColor(path string) color.Color {
	if rc.colors == nil {
		return color.None
	}
	return rc.colors.GetColor(path)
}

// Decoration returns a message decoration from the theme, such as
// "menu/active", or "" when the colors carry no decorations.
func (rc *RenderContext) Decoration(name string) string {
	d, ok := rc.colors.(interface {
		GetMsgDecoration(name string, isUnicode bool) string
	})
	if !ok {
		return ""
	}
	return d.GetMsgDecoration(name, rc.term.IsUnicode)
}

// ResetColor restores the terminal's default color for subsequent writes.
func (rc *RenderContext) ResetColor() {
	rc.cursorCode = rc.noneCode
}

// Write draws s at the cursor and advances the cursor by its width.
// Whitespace, including newlines and tabs, is drawn as a single space; use
// text.ColorizedString.Wrap and WriteText for multi-line text.
func (rc *RenderContext) Write(s string) {
	rc.WriteMax(s, -1)
}

// WriteMax is like Write, but draws at most maxWidth columns. A wide
// character that does not fit is not drawn. A negative maxWidth means no
// limit.
func (rc *RenderContext) WriteMax(s string, maxWidth int) {
	w := rc.writer(maxWidth)
	w.str(s)
	rc.cursorX += w.advance
}

// WriteColorized draws a colorized string. Text before the first color
// marker uses the current color; after the write the current color is the
// string's last color.
func (rc *RenderContext) WriteColorized(s text.ColorizedString) {
	rc.WriteColorizedMax(s, -1)
}

// WriteColorizedMax is WriteColorized with a width limit, see WriteMax.
func (rc *RenderContext) WriteColorizedMax(s text.ColorizedString, maxWidth int) {
	w := rc.writer(maxWidth)
	for _, p := range s.Parts() {
		if w.stopped {
			break
		}
		if p.IsColor {
			w.code = p.Color.Code(rc.term.ColorSupport)
			continue
		}
		w.str(p.Text)
	}
	rc.cursorX += w.advance
	rc.cursorCode = w.code
}

// WriteText writes several lines. Every line starts at the column where
// the first one started; the cursor is left at the end of the last line.
func (rc *RenderContext) WriteText(lines []text.ColorizedString) {
	x := rc.cursorX
	for i, line := range lines {
		if i > 0 {
			rc.cursorX = x
			rc.cursorY++
		}
		rc.WriteColorized(line)
	}
}

// Fill covers the whole active frame with glyph in the current color.
func (rc *RenderContext) Fill(glyph string) {
	width := text.LineWidth(glyph)
	if width < 1 {
		return
	}
	for y := 0; y < rc.frameH; y++ {
		rc.SetPos(0, y)
		for x := 0; x+width <= rc.frameW; x += width {
			rc.Write(glyph)
		}
	}
}

func (rc *RenderContext) writer(maxWidth int) *cellWriter {
	return &cellWriter{
		rc:       rc,
		x:        rc.frameX + rc.cursorX,
		y:        rc.frameY + rc.cursorY,
		maxWidth: maxWidth,
		code:     rc.cursorCode,
		lastX:    -1,
	}
}

// cellWriter places graphemes on one row of the pending canvas.
type cellWriter struct {
	rc       *RenderContext
	x, y     int
	maxWidth int
	code     string
	advance  int
	stopped  bool
	lastX    int // cell that received the last visible glyph
}

func (w *cellWriter) str(s string) {
	for _, g := range text.Graphemes(s) {
		if w.stopped {
			return
		}
		r, _ := utf8.DecodeRuneInString(g)
		gw := text.GraphemeWidth(g)
		switch {
		case unicode.IsSpace(r):
			g, gw = " ", 1
		case gw == 0:
			// A lone zero-width character joins the preceding glyph.
			if w.lastX >= 0 {
				cell := &w.rc.pending[w.y][w.lastX]
				cell.Glyph += g
			}
			continue
		}
		w.put(g, gw)
	}
}

func (w *cellWriter) put(g string, gw int) {
	if w.maxWidth >= 0 && w.advance+gw > w.maxWidth {
		w.stopped = true
		return
	}
	x := w.x + w.advance
	w.advance += gw

	rc := w.rc
	clip := rc.clip
	if w.y < clip.y0 || w.y >= clip.y1 {
		return
	}

	fits := x >= clip.x0 && x+gw <= clip.x1
	if fits {
		rc.pending.set(x, w.y, g, gw, w.code)
		w.lastX = x
		rc.pendingRows = max(rc.pendingRows, w.y+1)
		return
	}

	// A wide glyph cut by the frame edge leaves blanks in the visible part.
	w.lastX = -1
	for i := x; i < x+gw; i++ {
		if clip.contains(i, w.y) {
			rc.pending.set(i, w.y, " ", 1, w.code)
			rc.pendingRows = max(rc.pendingRows, w.y+1)
		}
	}
}
