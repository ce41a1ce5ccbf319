package compositor

import "strconv"

// ANSI control sequences used by the renderer.
const (
	csi        = "\x1b["
	eraseToEnd = "\x1b[J"
)

// cursorUp moves the cursor up n rows without changing the column.
func cursorUp(n int) string {
	return csi + strconv.Itoa(n) + "A"
}

// cursorDown moves the cursor down n rows without scrolling.
func cursorDown(n int) string {
	return csi + strconv.Itoa(n) + "B"
}

// cursorColumn moves the cursor to the zero-based column x.
func cursorColumn(x int) string {
	return csi + strconv.Itoa(x+1) + "G"
}
