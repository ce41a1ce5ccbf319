package progress

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/taminomara/yuio-sub000/pkg/ui/color"
	"github.com/taminomara/yuio-sub000/pkg/ui/terminal"
)

// bannerStyle is the style of internal error reports. It does not depend
// on the theme, so a broken theme cannot hide them.
func bannerStyle(t terminal.Term) lipgloss.Style {
	r := lipgloss.NewRenderer(t.Out)
	r.SetColorProfile(profileOf(t.ColorSupport))
	return r.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
}

func profileOf(s color.Support) termenv.Profile {
	switch s {
	case color.SupportANSI:
		return termenv.ANSI
	case color.Support256:
		return termenv.ANSI256
	case color.SupportTrueColor:
		return termenv.TrueColor
	default:
		return termenv.Ascii
	}
}
