package theme

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/taminomara/yuio-sub000/pkg/errors"
	"github.com/taminomara/yuio-sub000/pkg/ui/color"
)

func TestGetColorAccumulatesPrefixes(t *testing.T) {
	th := New()
	th.AddLayer(PriorityDefault, map[string]Spec{
		"a":     Is(color.StyleBold),
		"a/b":   Is(color.ForeRed),
		"a/b/c": Is(color.ForeGreen),
	})

	assert.True(t, th.GetColor("a").Equal(color.StyleBold))
	assert.True(t, th.GetColor("a/b").Equal(color.StyleBold.Or(color.ForeRed)))
	assert.True(t, th.GetColor("a/b/c").Equal(color.StyleBold.Or(color.ForeGreen)))
	// Unknown suffixes inherit from the closest prefix.
	assert.True(t, th.GetColor("a/b/zzz").Equal(color.StyleBold.Or(color.ForeRed)))
	assert.True(t, th.GetColor("zzz").IsNone())
	assert.True(t, th.GetColor("").IsNone())
}

func TestGetColorReferences(t *testing.T) {
	th := New()
	th.AddLayer(PriorityDefault, map[string]Spec{
		"heading_color": Ref("bold"),
		"error_color":   Ref("red"),
		"tb/heading":    Mix("heading_color", "error_color"),
		"tb/message":    Ref("tb/heading"),
		"fixed":         Mix(color.ForeBlue, "dim"),
	})

	want := color.StyleBold.Or(color.ForeRed)
	assert.True(t, th.GetColor("tb/heading").Equal(want))
	assert.True(t, th.GetColor("tb/message").Equal(want))
	assert.True(t, th.GetColor("fixed").Equal(color.ForeBlue.Or(color.StyleDim)))
	assert.True(t, th.ColorFor(Mix(color.StyleBold, "red")).Equal(want))
}

func TestLayerPriority(t *testing.T) {
	th := New()
	th.AddLayer(PriorityDefault, map[string]Spec{"accent": Ref("magenta")})
	th.AddLayer(PriorityBase+1, map[string]Spec{"accent": Ref("green")})
	assert.True(t, th.GetColor("accent").Equal(color.ForeMagenta), "higher priority wins regardless of order")

	th.AddLayer(PriorityDefault, map[string]Spec{"accent": Ref("cyan")})
	assert.True(t, th.GetColor("accent").Equal(color.ForeCyan), "later layer wins on equal priority")

	th.SetColor("accent", Ref("yellow"))
	assert.True(t, th.GetColor("accent").Equal(color.ForeYellow), "user layer wins")

	th.SetColor("accent", Ref("red"))
	assert.True(t, th.GetColor("accent").Equal(color.ForeRed), "cache is invalidated")
}

func TestReferenceCycle(t *testing.T) {
	th := New()
	th.AddLayer(PriorityDefault, map[string]Spec{
		"x": Mix("y", color.StyleBold),
		"y": Ref("x"),
	})
	// Cycles terminate; the fixed part still applies.
	assert.True(t, th.GetColor("x").Equal(color.StyleBold))
}

func TestDefaultTheme(t *testing.T) {
	th := Default()

	assert.True(t, th.GetColor("task/decoration/done").Equal(color.ForeGreen))
	assert.True(t, th.GetColor("task/decoration/error").Equal(color.ForeRed))
	assert.True(t, th.GetColor("menu/choice/active/text").Equal(color.ForeMagenta))
	assert.True(t, th.GetColor("menu/choice/normal/text/red").Equal(color.ForeRed))
	assert.True(t, th.GetColor("msg/error/text").Equal(color.ForeRed))
	assert.True(t, th.GetColor("task/heading").Equal(color.StyleBold))
}

func TestMsgDecorations(t *testing.T) {
	th := Default()

	assert.Equal(t, "> ", th.GetMsgDecoration("question", true))
	assert.Equal(t, "> ", th.GetMsgDecoration("question", false), "ascii decorations are kept")
	assert.Equal(t, "⣿ ", th.GetMsgDecoration("heading/1", true))
	assert.Equal(t, "# ", th.GetMsgDecoration("heading/1", false))
	assert.Equal(t, "", th.GetMsgDecoration("nope", true))

	th.SetMsgDecoration("info", "ℹ ", "")
	assert.Equal(t, "ℹ ", th.GetMsgDecoration("info", true))
	assert.Equal(t, "", th.GetMsgDecoration("info", false), "non-ascii without alternative is dropped")

	d := th.MsgDecoration("question", true)
	assert.Equal(t, "> ", d.String())
	assert.True(t, d.Parts()[0].Color.Equal(color.ForeMagenta))
}

func TestSymbols(t *testing.T) {
	th := Default()
	s := th.Symbols(true)
	assert.Equal(t, 15, s.ProgressBarWidth)
	assert.Equal(t, "■", s.ProgressBarDone)
	assert.Len(t, s.SpinnerPattern, 8)
	assert.Equal(t, 200*time.Millisecond, s.SpinnerUpdateRate)

	a := th.Symbols(false)
	assert.Equal(t, "#", a.ProgressBarDone)
	assert.Equal(t, "[", a.ProgressBarStart)
}

func TestAdapt(t *testing.T) {
	th := Default()
	bg := color.RGB(0x10, 0x10, 0x10)
	th.Adapt(bg, true)
	c := th.GetColor("menu/help/key")
	require.NotNil(t, c.Fore)
	assert.Equal(t, bg.Lighten(0.25), *c.Fore)
}

func TestLoad(t *testing.T) {
	t.Run("applies overrides", func(t *testing.T) {
		th := Default()
		err := th.Load(strings.NewReader(`
progress_bar_width: 20
progress_bar_done_symbol: "="
spinner_pattern: "ab"
spinner_update_rate_ms: 50
msg_decorations:
  question: "? "
colors:
  accent_color: "#a01e9c"
  task/heading: bold red
`))
		require.NoError(t, err)

		s := th.Symbols(true)
		assert.Equal(t, 20, s.ProgressBarWidth)
		assert.Equal(t, "=", s.ProgressBarDone)
		assert.Equal(t, []string{"a", "b"}, s.SpinnerPattern)
		assert.Equal(t, 50*time.Millisecond, s.SpinnerUpdateRate)
		assert.Equal(t, "? ", th.GetMsgDecoration("question", true))

		accent := th.GetColor("task/decoration")
		require.NotNil(t, accent.Fore)
		assert.Equal(t, color.RGB(0xa0, 0x1e, 0x9c), *accent.Fore)
		assert.True(t, th.GetColor("task/heading").Equal(color.StyleBold.Or(color.ForeRed)))
	})

	t.Run("empty document", func(t *testing.T) {
		require.NoError(t, Default().Load(strings.NewReader("")))
	})

	t.Run("rejects bad input", func(t *testing.T) {
		for _, doc := range []string{
			"colors: {a: '#zzzzzz'}",
			"colors: {a: ''}",
			"progress_bar_width: 0",
			"spinner_pattern: ''",
			"unknown_field: 1",
			"colors: [",
		} {
			err := Default().Load(strings.NewReader(doc))
			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeThemeInvalid), "doc %q: %v", doc, err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		err := Default().LoadFile("/nonexistent/theme.yaml")
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeThemeInvalid))
	})
}

func TestConcurrentLookups(t *testing.T) {
	th := Default()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = th.GetColor("task/decoration/done")
				_ = th.GetMsgDecoration("task", true)
			}
		}()
	}
	th.SetColor("accent_color", Ref("cyan"))
	wg.Wait()
	assert.True(t, th.GetColor("task/decoration").Equal(color.ForeCyan))
}
