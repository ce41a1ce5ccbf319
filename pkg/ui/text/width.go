// Package text implements colorized strings and word wrapping
// measured in terminal columns.
package text

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// LineWidth returns the number of terminal columns a string occupies.
// East Asian wide and fullwidth characters take two columns; combining
// marks and control characters take none.
func LineWidth(s string) int {
	if isASCIIPrintable(s) {
		return len(s)
	}
	return runewidth.StringWidth(s)
}

// Graphemes splits a string into user-perceived characters, so that
// combining marks stay attached to their base character.
func Graphemes(s string) []string {
	if isASCIIPrintable(s) {
		out := make([]string, len(s))
		for i := range s {
			out[i] = s[i : i+1]
		}
		return out
	}
	out := make([]string, 0, len(s))
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		out = append(out, cluster)
	}
	return out
}

// GraphemeWidth is the width of a single grapheme as returned by Graphemes.
func GraphemeWidth(g string) int {
	if len(g) == 1 && g[0] >= 0x20 && g[0] < 0x7f {
		return 1
	}
	return runewidth.StringWidth(g)
}

func isASCIIPrintable(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] >= 0x7f {
			return false
		}
	}
	return true
}
