package compositor

// Cell is one column of the canvas.
//
// A wide glyph occupies two cells: the glyph itself, followed by a
// continuation cell with an empty Glyph. Combining marks stay in the cell
// of the character they modify.
type Cell struct {
	Glyph string
	Code  string // SGR sequence for the cell's color
}

// IsContinuation reports whether the cell is covered by a wide glyph
// to its left.
func (c Cell) IsContinuation() bool {
	return c.Glyph == ""
}

func blankCell(code string) Cell {
	return Cell{Glyph: " ", Code: code}
}

type canvas [][]Cell

func newCanvas(width, height int, code string) canvas {
	backing := make([]Cell, width*height)
	for i := range backing {
		backing[i] = blankCell(code)
	}
	c := make(canvas, height)
	for y := range c {
		c[y] = backing[y*width : (y+1)*width : (y+1)*width]
	}
	return c
}

// set stores a glyph of the given width at (x, y), fixing up any wide glyph
// it partially overwrites.
func (c canvas) set(x, y int, glyph string, width int, code string) {
	row := c[y]
	n := len(row)

	// Left half of a wide glyph whose right half we are about to cover.
	if row[x].IsContinuation() && x > 0 {
		row[x-1] = blankCell(row[x-1].Code)
	}
	// Right half of a wide glyph whose left half we are about to cover.
	end := x + width
	if end < n && row[end].IsContinuation() {
		row[end] = blankCell(row[end].Code)
	}

	row[x] = Cell{Glyph: glyph, Code: code}
	for i := x + 1; i < end && i < n; i++ {
		row[i] = Cell{Code: code}
	}
}
