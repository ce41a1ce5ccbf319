package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorOr(t *testing.T) {
	t.Run("right side wins", func(t *testing.T) {
		c := ForeRed.Or(ForeGreen)
		require.NotNil(t, c.Fore)
		assert.Equal(t, ValueGreen, *c.Fore)
	})

	t.Run("unset fields are inherited", func(t *testing.T) {
		c := StyleBold.Or(ForeRed).Or(BackBlue)
		assert.True(t, c.Equal(Color{Fore: ForeRed.Fore, Back: BackBlue.Back, Bold: StyleBold.Bold}))
	})

	t.Run("explicit false overrides true", func(t *testing.T) {
		c := StyleBold.Or(StyleNoBold)
		assert.Equal(t, "\x1b[m", c.Code(SupportANSI))
	})

	t.Run("merge folds left to right", func(t *testing.T) {
		assert.True(t, Merge(ForeRed, StyleDim, ForeBlue).Equal(ForeBlue.Or(StyleDim)))
		assert.True(t, Merge().IsNone())
	})
}

func TestColorCode(t *testing.T) {
	tests := []struct {
		name    string
		color   Color
		support Support
		want    string
	}{
		{"none support", ForeRed, SupportNone, ""},
		{"empty color", None, SupportANSI, "\x1b[m"},
		{"palette fore", ForeRed, SupportANSI, "\x1b[;31m"},
		{"palette back", BackGreen, SupportANSI, "\x1b[;42m"},
		{"default fore", ForeNormal, SupportANSI, "\x1b[;39m"},
		{"bright fore", Fore(Index(9)), SupportANSI, "\x1b[;91m"},
		{"bright back", Back(Index(9)), SupportANSI, "\x1b[;101m"},
		{"default back", BackNormal, SupportANSI, "\x1b[;49m"},
		{"extended palette", Fore(Index(200)), SupportANSI, "\x1b[;38;5;200m"},
		{"bold dim", StyleBold.Or(StyleDim), SupportANSI, "\x1b[;1;2m"},
		{"true color", Fore(RGB(0xA0, 0x1E, 0x9C)), SupportTrueColor, "\x1b[;38;2;160;30;156m"},
		{"256 color", Fore(RGB(0xA0, 0x1E, 0x9C)), Support256, "\x1b[;38;5;127m"},
		{"8 color", Fore(RGB(0xA0, 0x1E, 0x9C)), SupportANSI, "\x1b[;35m"},
		{"fore and back", ForeBlack.Or(BackWhite).Or(StyleBold), SupportANSI, "\x1b[;30;47;1m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.color.Code(tt.support))
		})
	}
}

func TestRGBTo256(t *testing.T) {
	assert.Equal(t, 16, RGBTo256(0, 0, 0))
	assert.Equal(t, 231, RGBTo256(0xff, 0xff, 0xff))
	assert.Equal(t, 196, RGBTo256(0xff, 0, 0))
	// Grays prefer the grayscale ramp when it is closer.
	assert.Equal(t, 232, RGBTo256(0x08, 0x08, 0x08))
	assert.Equal(t, 244, RGBTo256(0x80, 0x80, 0x80))
	assert.Equal(t, 127, RGBTo256(0xA0, 0x1E, 0x9C))
}

func TestRGBTo8(t *testing.T) {
	assert.Equal(t, 0, RGBTo8(10, 20, 30))
	assert.Equal(t, 1, RGBTo8(200, 20, 30))
	assert.Equal(t, 7, RGBTo8(200, 200, 200))
	assert.Equal(t, 6, RGBTo8(0, 128, 128))
}

func TestParseHex(t *testing.T) {
	v, err := ParseHex("#A01E9C")
	require.NoError(t, err)
	assert.Equal(t, RGB(0xA0, 0x1E, 0x9C), v)
	assert.Equal(t, "#a01e9c", v.String())

	v, err = ParseHex("#fff")
	require.NoError(t, err)
	assert.Equal(t, RGB(0xff, 0xff, 0xff), v)

	_, err = ParseHex("nope")
	assert.Error(t, err)
}

func TestValueMath(t *testing.T) {
	t.Run("palette values are untouched", func(t *testing.T) {
		assert.Equal(t, ValueRed, ValueRed.Lighten(0.5))
		assert.Equal(t, ValueRed, ValueRed.Darken(0.5))
	})

	t.Run("lighten and darken bounds", func(t *testing.T) {
		v := RGB(0x80, 0x20, 0x20)
		assert.Equal(t, v, v.Lighten(0))
		assert.Equal(t, RGB(0, 0, 0), v.Darken(1))
	})

	t.Run("lerp endpoints", func(t *testing.T) {
		a, b := RGB(0xA0, 0x1E, 0x9C), RGB(0x22, 0xC6, 0x0C)
		lerp := Lerp(a, b)
		assert.Equal(t, a, lerp(0))
		assert.Equal(t, b, lerp(1))
	})

	t.Run("match luminosity", func(t *testing.T) {
		assert.Equal(t, RGB(0x80, 0, 0), RGB(0xff, 0, 0).MatchLuminosity(RGB(0x80, 0x80, 0x80)))
		assert.Equal(t, ValueRed, ValueRed.MatchLuminosity(RGB(0x80, 0x80, 0x80)))
	})

	t.Run("lerp with palette color returns first", func(t *testing.T) {
		lerp := Lerp(ValueRed, RGB(1, 2, 3))
		assert.Equal(t, ValueRed, lerp(0.7))
	})
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "default", ValueDefault.String())
	assert.Equal(t, "red", ValueRed.String())
	assert.Equal(t, "bright_red", Index(9).String())
	assert.Equal(t, "index(200)", Index(200).String())
	assert.NotEqual(t, ValueDefault, Index(9))
}

func TestParseSupport(t *testing.T) {
	for _, s := range []Support{SupportNone, SupportANSI, Support256, SupportTrueColor} {
		got, ok := ParseSupport(s.String())
		require.True(t, ok)
		assert.Equal(t, s, got)
	}
	_, ok := ParseSupport("bogus")
	assert.False(t, ok)
}
