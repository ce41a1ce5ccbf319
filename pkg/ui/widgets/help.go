package widgets

import (
	"github.com/taminomara/yuio-sub000/pkg/ui/compositor"
	"github.com/taminomara/yuio-sub000/pkg/ui/runtime"
	"github.com/taminomara/yuio-sub000/pkg/ui/text"
)

// Help shows the key bindings of another widget, e.g.
// "enter accept  ctrl+w delete word". It takes no rows when the frame is too
// short for it.
type Help struct {
	source runtime.Helper

	lines []text.ColorizedString
}

// NewHelp creates a help line for source.
func NewHelp(source runtime.Helper) *Help {
	return &Help{source: source}
}

func (h *Help) Layout(rc *compositor.RenderContext) (int, int) {
	var s text.ColorizedString
	for i, entry := range h.source.Help() {
		if i > 0 {
			s.AppendColor(rc.GetColor("menu/help/plain_text"))
			s.AppendStr("  ")
		}
		s.AppendColor(rc.GetColor("menu/help/key"))
		s.AppendStr(nbsp(entry.KeysString()))
		s.AppendColor(rc.GetColor("menu/help/text"))
		s.AppendStr(" " + nbsp(entry.Description))
	}
	if s.IsEmpty() {
		h.lines = nil
		return 0, 0
	}
	h.lines = s.Wrap(rc.Width(), text.PreserveSpaces())
	return 0, len(h.lines)
}

func (h *Help) Draw(rc *compositor.RenderContext) {
	rc.WriteText(h.lines)
}

// nbsp keeps a help item on one line when wrapping.
func nbsp(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r == ' ' {
			out[i] = ' '
		}
	}
	return string(out)
}
