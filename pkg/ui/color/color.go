package color

import "strings"

// Support is the level of color support of a terminal.
type Support uint8

const (
	// SupportNone means no escape codes are emitted at all.
	SupportNone Support = iota
	// SupportANSI is the basic 8/16 color palette.
	SupportANSI
	// Support256 is the extended 256 color palette.
	Support256
	// SupportTrueColor is 24-bit RGB.
	SupportTrueColor
)

func (s Support) String() string {
	switch s {
	case SupportANSI:
		return "ansi"
	case Support256:
		return "ansi256"
	case SupportTrueColor:
		return "truecolor"
	default:
		return "none"
	}
}

// ParseSupport parses the names produced by Support.String.
func ParseSupport(name string) (Support, bool) {
	switch strings.ToLower(name) {
	case "none", "no", "off":
		return SupportNone, true
	case "ansi", "16", "8":
		return SupportANSI, true
	case "ansi256", "256":
		return Support256, true
	case "truecolor", "24bit", "rgb":
		return SupportTrueColor, true
	}
	return SupportNone, false
}

// Color is a complete output style: foreground, background and text attributes.
//
// Unset fields inherit from whatever the color is combined with; see Or.
// When emitted, a color fully replaces the terminal's previous style.
type Color struct {
	Fore      *Value
	Back      *Value
	Bold      *bool
	Dim       *bool
	Italic    *bool
	Underline *bool
	Inverse   *bool
}

var (
	yes = true
	no  = false
)

// Predefined colors.
var (
	None = Color{}

	StyleBold      = Color{Bold: &yes}
	StyleNoBold    = Color{Bold: &no}
	StyleDim       = Color{Dim: &yes}
	StyleNoDim     = Color{Dim: &no}
	StyleItalic    = Color{Italic: &yes}
	StyleUnderline = Color{Underline: &yes}
	StyleInverse   = Color{Inverse: &yes}

	ForeNormal  = Fore(ValueDefault)
	ForeBlack   = Fore(ValueBlack)
	ForeRed     = Fore(ValueRed)
	ForeGreen   = Fore(ValueGreen)
	ForeYellow  = Fore(ValueYellow)
	ForeBlue    = Fore(ValueBlue)
	ForeMagenta = Fore(ValueMagenta)
	ForeCyan    = Fore(ValueCyan)
	ForeWhite   = Fore(ValueWhite)

	BackNormal  = Back(ValueDefault)
	BackBlack   = Back(ValueBlack)
	BackRed     = Back(ValueRed)
	BackGreen   = Back(ValueGreen)
	BackYellow  = Back(ValueYellow)
	BackBlue    = Back(ValueBlue)
	BackMagenta = Back(ValueMagenta)
	BackCyan    = Back(ValueCyan)
	BackWhite   = Back(ValueWhite)
)

// Fore creates a color with only the foreground set.
func Fore(v Value) Color {
	return Color{Fore: &v}
}

// Back creates a color with only the background set.
func Back(v Value) Color {
	return Color{Back: &v}
}

// Or combines two colors. Every field set in other overrides the same field in c.
func (c Color) Or(other Color) Color {
	if other.Fore != nil {
		c.Fore = other.Fore
	}
	if other.Back != nil {
		c.Back = other.Back
	}
	if other.Bold != nil {
		c.Bold = other.Bold
	}
	if other.Dim != nil {
		c.Dim = other.Dim
	}
	if other.Italic != nil {
		c.Italic = other.Italic
	}
	if other.Underline != nil {
		c.Underline = other.Underline
	}
	if other.Inverse != nil {
		c.Inverse = other.Inverse
	}
	return c
}

// Merge folds colors left to right with Or.
func Merge(colors ...Color) Color {
	var out Color
	for _, c := range colors {
		out = out.Or(c)
	}
	return out
}

// Equal compares two colors field by field.
func (c Color) Equal(other Color) bool {
	return valueEqual(c.Fore, other.Fore) &&
		valueEqual(c.Back, other.Back) &&
		boolEqual(c.Bold, other.Bold) &&
		boolEqual(c.Dim, other.Dim) &&
		boolEqual(c.Italic, other.Italic) &&
		boolEqual(c.Underline, other.Underline) &&
		boolEqual(c.Inverse, other.Inverse)
}

// IsNone reports whether no field is set.
func (c Color) IsNone() bool {
	return c.Equal(None)
}

// Code converts the color into an SGR escape sequence for the given support level.
// It returns an empty string when colors are not supported.
func (c Color) Code(support Support) string {
	if support == SupportNone {
		return ""
	}

	codes := make([]string, 0, 6)
	if c.Fore != nil {
		codes = append(codes, c.Fore.code(support, "3"))
	}
	if c.Back != nil {
		codes = append(codes, c.Back.code(support, "4"))
	}
	if isSet(c.Bold) {
		codes = append(codes, "1")
	}
	if isSet(c.Dim) {
		codes = append(codes, "2")
	}
	if isSet(c.Italic) {
		codes = append(codes, "3")
	}
	if isSet(c.Underline) {
		codes = append(codes, "4")
	}
	if isSet(c.Inverse) {
		codes = append(codes, "7")
	}

	if len(codes) == 0 {
		return "\x1b[m"
	}
	return "\x1b[;" + strings.Join(codes, ";") + "m"
}

func isSet(b *bool) bool {
	return b != nil && *b
}

func valueEqual(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func boolEqual(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
