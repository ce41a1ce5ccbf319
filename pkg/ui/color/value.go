// Package color describes terminal colors and converts them into SGR
// escape codes for terminals with different levels of color support.
package color

import (
	"fmt"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// ValueMode defines how a color value is represented.
type ValueMode uint8

const (
	// ValueModeIndex is a palette index: 0-15, or 16-255 for the extended
	// palette.
	ValueModeIndex ValueMode = iota
	// ValueModeRGB is a 24-bit true color.
	ValueModeRGB
	// ValueModeDefault is the terminal's own default color (SGR 39/49).
	ValueModeDefault
)

// Value is a single foreground or background color.
type Value struct {
	Mode  ValueMode
	Index uint8 // palette index for ValueModeIndex
	R     uint8
	G     uint8
	B     uint8
}

// Palette values.
var (
	ValueBlack   = Index(0)
	ValueRed     = Index(1)
	ValueGreen   = Index(2)
	ValueYellow  = Index(3)
	ValueBlue    = Index(4)
	ValueMagenta = Index(5)
	ValueCyan    = Index(6)
	ValueWhite   = Index(7)
	ValueDefault = Value{Mode: ValueModeDefault}
)

var indexNames = [...]string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

// Index creates a palette color. Indexes 8-15 are the bright variants.
func Index(i uint8) Value {
	return Value{Mode: ValueModeIndex, Index: i}
}

// RGB creates a true color.
func RGB(r, g, b uint8) Value {
	return Value{Mode: ValueModeRGB, R: r, G: g, B: b}
}

// Hex creates a true color from 0xRRGGBB.
func Hex(hex uint32) Value {
	return RGB(uint8(hex>>16), uint8(hex>>8), uint8(hex))
}

// ParseHex parses "#RRGGBB" or "#RGB".
func ParseHex(s string) (Value, error) {
	if len(s) == 4 && s[0] == '#' {
		s = "#" + string([]byte{s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Value{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB(r, g, b), nil
}

// IsRGB reports whether the value carries a true color.
func (v Value) IsRGB() bool {
	return v.Mode == ValueModeRGB
}

// String renders an RGB value as "#rrggbb"; palette values render by name.
func (v Value) String() string {
	if v.IsRGB() {
		return fmt.Sprintf("#%02x%02x%02x", v.R, v.G, v.B)
	}
	if v.Mode == ValueModeDefault {
		return "default"
	}
	if int(v.Index) < len(indexNames) {
		return indexNames[v.Index]
	}
	if v.Index < 16 {
		return "bright_" + indexNames[v.Index-8]
	}
	return "index(" + strconv.Itoa(int(v.Index)) + ")"
}

func (v Value) colorful() colorful.Color {
	return colorful.Color{R: float64(v.R) / 255, G: float64(v.G) / 255, B: float64(v.B) / 255}
}

func fromColorful(c colorful.Color) Value {
	r, g, b := c.Clamped().RGB255()
	return RGB(r, g, b)
}

// Lighten makes an RGB color lighter by the given fraction (0..1) of the
// remaining brightness. Palette colors are returned unchanged.
func (v Value) Lighten(amount float64) Value {
	if !v.IsRGB() {
		return v
	}
	amount = clamp01(amount)
	h, s, val := v.colorful().Hsv()
	val = 1 - (1-val)*(1-amount)
	return fromColorful(colorful.Hsv(h, s, val))
}

// Darken makes an RGB color darker by the given fraction (0..1).
func (v Value) Darken(amount float64) Value {
	if !v.IsRGB() {
		return v
	}
	amount = clamp01(amount)
	h, s, val := v.colorful().Hsv()
	return fromColorful(colorful.Hsv(h, s, val*(1-amount)))
}

// MatchLuminosity keeps hue and saturation of v and takes brightness from other.
func (v Value) MatchLuminosity(other Value) Value {
	if !v.IsRGB() || !other.IsRGB() {
		return v
	}
	h, s, _ := v.colorful().Hsv()
	_, _, val := other.colorful().Hsv()
	return fromColorful(colorful.Hsv(h, s, val))
}

// Lerp returns a function interpolating linearly between the given colors.
// If any color is a palette color, the function always returns the first one.
func Lerp(values ...Value) func(f float64) Value {
	if len(values) == 0 {
		panic("color.Lerp: expected at least one value")
	}
	for _, v := range values {
		if !v.IsRGB() {
			first := values[0]
			return func(float64) Value { return first }
		}
	}
	if len(values) == 1 {
		first := values[0]
		return func(float64) Value { return first }
	}
	last := len(values) - 1
	return func(f float64) Value {
		f = clamp01(f)
		i := int(f * float64(last))
		if i >= last {
			return values[last]
		}
		local := (f - float64(i)/float64(last)) * float64(last)
		return fromColorful(values[i].colorful().BlendRgb(values[i+1].colorful(), local))
	}
}

// code returns the SGR parameter for this value; prefix is "3" or "4".
func (v Value) code(support Support, prefix string) string {
	switch {
	case v.Mode == ValueModeDefault:
		return prefix + "9"
	case !v.IsRGB() && v.Index < 8:
		return prefix + strconv.Itoa(int(v.Index))
	case !v.IsRGB() && v.Index < 16:
		// Bright palette: 9x foreground, 10x background.
		if prefix == "3" {
			return "9" + strconv.Itoa(int(v.Index-8))
		}
		return "10" + strconv.Itoa(int(v.Index-8))
	case !v.IsRGB():
		return prefix + "8;5;" + strconv.Itoa(int(v.Index))
	case support == SupportTrueColor:
		return fmt.Sprintf("%s8;2;%d;%d;%d", prefix, v.R, v.G, v.B)
	case support == Support256:
		return prefix + "8;5;" + strconv.Itoa(RGBTo256(v.R, v.G, v.B))
	default:
		return prefix + strconv.Itoa(RGBTo8(v.R, v.G, v.B))
	}
}

var cubeLevels = [...]int{0x00, 0x5f, 0x87, 0xaf, 0xd7, 0xff}

func closestIndex(x int, values []int) int {
	best, bestDist := 0, -1
	for i, v := range values {
		d := x - v
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// RGBTo256 maps a true color to the nearest entry of the 256-color palette.
// Grays also consider the 24-step grayscale ramp.
func RGBTo256(r, g, b uint8) int {
	if r == g && g == b {
		levels := make([]int, 0, len(cubeLevels)+24)
		levels = append(levels, cubeLevels[:]...)
		for i := 0; i < 24; i++ {
			levels = append(levels, 0x08+10*i)
		}
		i := closestIndex(int(r), levels)
		if i >= len(cubeLevels) {
			return 232 + i - len(cubeLevels)
		}
		return i*36 + i*6 + i + 16
	}
	ri := closestIndex(int(r), cubeLevels[:])
	gi := closestIndex(int(g), cubeLevels[:])
	bi := closestIndex(int(b), cubeLevels[:])
	return ri*36 + gi*6 + bi + 16
}

// RGBTo8 maps a true color onto the 8 basic colors by thresholding each channel.
func RGBTo8(r, g, b uint8) int {
	code := 0
	if r >= 128 {
		code |= 1
	}
	if g >= 128 {
		code |= 2
	}
	if b >= 128 {
		code |= 4
	}
	return code
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
