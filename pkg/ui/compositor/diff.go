package compositor

import (
	"strings"
)

// Stats are the totals for one render context.
type Stats struct {
	Renders       int
	BytesRendered int
	LastRender    int
}

// Stats returns render totals since the context was created.
func (rc *RenderContext) Stats() Stats {
	return rc.stats
}

// Render sends the difference between the displayed and the pending canvas
// to the terminal, then moves the terminal cursor to the final position.
//
// The drawing region starts at the line where the cursor was when the
// context first rendered. Moving down into rows that were never reached
// before is done with newlines, so that the terminal scrolls if the region
// does not fit below the cursor; rows that were already reached are
// revisited with relative cursor movements.
func (rc *RenderContext) Render() error {
	if rc.pending == nil {
		rc.Prepare(false)
	}
	if !rc.term.CanMoveCursor() {
		return rc.renderAppendOnly()
	}

	switch {
	case rc.fullRedraw:
		rc.moveTo(0, 0)
		rc.eraseBelow()
	case rc.displayedRows > rc.pendingRows:
		// The new frame is shorter: wipe the leftover rows in one go.
		rc.moveTo(0, rc.pendingRows)
		rc.eraseBelow()
		blank := blankCell(rc.noneCode)
		for y := rc.pendingRows; y < rc.height; y++ {
			for x := range rc.displayed[y] {
				rc.displayed[y][x] = blank
			}
		}
	}

	for y := 0; y < rc.height; y++ {
		row, prev := rc.pending[y], rc.displayed[y]
		for x := 0; x < rc.width; {
			cell := row[x]
			if cell.IsContinuation() {
				x++
				continue
			}
			span := 1
			for x+span < rc.width && row[x+span].IsContinuation() {
				span++
			}
			if !spanEqual(row[x:x+span], prev[x:x+span]) {
				rc.moveTo(x, y)
				if cell.Code != rc.termCode {
					rc.out.WriteString(cell.Code)
					rc.termCode = cell.Code
				}
				rc.out.WriteString(cell.Glyph)
				rc.termX += span
			}
			x += span
		}
	}

	finalX := max(0, min(rc.width-1, rc.finalX))
	finalY := max(0, min(rc.height-1, rc.finalY))
	rc.moveTo(finalX, finalY)

	for y := range rc.pending {
		copy(rc.displayed[y], rc.pending[y])
	}
	rc.displayedRows = rc.pendingRows
	rc.fullRedraw = false

	return rc.flush()
}

// Finalize erases everything that was drawn and leaves the cursor where
// drawing started, with the default color.
func (rc *RenderContext) Finalize() error {
	if !rc.term.CanMoveCursor() {
		return nil
	}
	rc.Prepare(true)
	rc.moveTo(0, 0)
	rc.out.WriteString(eraseToEnd)
	rc.out.WriteString(rc.noneCode)
	rc.termCode = rc.noneCode
	rc.fullRedraw = false
	return rc.flush()
}

func (rc *RenderContext) eraseBelow() {
	if rc.termCode != "" && rc.termCode != rc.noneCode {
		// Erasing fills with the current background.
		rc.out.WriteString(rc.noneCode)
		rc.termCode = rc.noneCode
	}
	rc.out.WriteString(eraseToEnd)
}

// moveTo moves the terminal cursor to (x, y) in canvas coordinates.
func (rc *RenderContext) moveTo(x, y int) {
	dy := y - rc.termY
	switch {
	case dy > 0 && y > rc.maxTermY:
		rc.out.WriteString(strings.Repeat("\n", dy))
		rc.termX = 0
	case dy > 0:
		rc.out.WriteString(cursorDown(dy))
	case dy < 0:
		rc.out.WriteString(cursorUp(-dy))
	}
	rc.termY = y
	rc.maxTermY = max(rc.maxTermY, y)

	if x != rc.termX {
		rc.out.WriteString(cursorColumn(x))
		rc.termX = x
	}
}

// renderAppendOnly prints the rows that have content, one after another.
// Nothing is ever erased, so every call appends a new copy.
func (rc *RenderContext) renderAppendOnly() error {
	code := rc.noneCode
	for y := 0; y < rc.pendingRows; y++ {
		row := rc.pending[y]
		end := len(row)
		for end > 0 && row[end-1] == blankCell(rc.noneCode) {
			end--
		}
		for _, cell := range row[:end] {
			if cell.Code != code {
				rc.out.WriteString(cell.Code)
				code = cell.Code
			}
			rc.out.WriteString(cell.Glyph)
		}
		if code != rc.noneCode {
			rc.out.WriteString(rc.noneCode)
			code = rc.noneCode
		}
		rc.out.WriteByte('\n')
	}
	rc.fullRedraw = false
	return rc.flush()
}

func (rc *RenderContext) flush() error {
	n := rc.out.Len()
	rc.stats.Renders++
	rc.stats.BytesRendered += n
	rc.stats.LastRender = n
	recordRender(n)

	if n == 0 {
		return nil
	}
	_, err := rc.term.Out.Write(rc.out.Bytes())
	rc.out.Reset()
	if f, ok := rc.term.Out.(interface{ Flush() error }); ok && err == nil {
		err = f.Flush()
	}
	return err
}

func spanEqual(a, b []Cell) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
