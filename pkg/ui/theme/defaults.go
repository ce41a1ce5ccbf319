package theme

import (
	"time"

	"github.com/taminomara/yuio-sub000/pkg/ui/color"
)

// ColorTags are the plain color names every theme defines. Widgets accept
// them as option color tags.
var ColorTags = []string{"normal", "black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

func baseColors() map[string]Spec {
	return map[string]Spec{
		"code": Ref("magenta"),
		"note": Ref("green"),

		"bold":       Is(color.StyleBold),
		"b":          Ref("bold"),
		"dim":        Is(color.StyleDim),
		"d":          Ref("dim"),
		"italic":     Is(color.StyleItalic),
		"underline":  Is(color.StyleUnderline),
		"inverse":    Is(color.StyleInverse),
		"normal_dim": Is(color.ForeNormal.Or(color.StyleDim)),

		"normal":  Is(color.ForeNormal),
		"black":   Is(color.ForeBlack),
		"red":     Is(color.ForeRed),
		"green":   Is(color.ForeGreen),
		"yellow":  Is(color.ForeYellow),
		"blue":    Is(color.ForeBlue),
		"magenta": Is(color.ForeMagenta),
		"cyan":    Is(color.ForeCyan),
		"white":   Is(color.ForeWhite),
	}
}

func defaultColors() map[string]Spec {
	c := map[string]Spec{
		// Main colors, referenced from everything below.
		"heading_color":        Ref("bold"),
		"primary_color":        Ref("normal"),
		"accent_color":         Ref("magenta"),
		"accent_color_2":       Ref("cyan"),
		"secondary_color":      Ref("dim"),
		"error_color":          Ref("red"),
		"warning_color":        Ref("yellow"),
		"success_color":        Ref("green"),
		"low_priority_color_a": Ref("dim"),
		"low_priority_color_b": Ref("dim"),

		"code": Ref("accent_color"),
		"note": Ref("accent_color_2"),

		// Messages.
		"msg/decoration":          Ref("accent_color"),
		"msg/plain_text":          Is(color.None),
		"msg/heading/text":        Ref("heading_color"),
		"msg/question/text":       Ref("heading_color"),
		"msg/error/text":          Ref("error_color"),
		"msg/warning/text":        Ref("warning_color"),
		"msg/success/text":        Ref("success_color"),
		"msg/info/text":           Ref("primary_color"),
		"msg/task/text":           Ref("primary_color"),
		"msg/thematic_break/text": Ref("low_priority_color_a"),

		// Tasks and progress bars.
		"task/plain_text":           Ref("secondary_color"),
		"task/heading":              Ref("heading_color"),
		"task/progress":             Ref("task/plain_text"),
		"task/comment":              Ref("primary_color"),
		"task/more":                 Ref("secondary_color"),
		"task/decoration":           Ref("accent_color"),
		"task/decoration/done":      Ref("success_color"),
		"task/decoration/error":     Ref("error_color"),
		"task/progressbar/done":     Ref("accent_color"),
		"task/progressbar/inflight": Ref("accent_color"),
		"task/progressbar/pending":  Ref("secondary_color"),

		// Diagnostics.
		"diagnostic/banner": Mix("error_color", "bold"),

		// Widgets.
		"menu/input/decoration":                Ref("low_priority_color_a"),
		"menu/input/text":                      Ref("primary_color"),
		"menu/input/placeholder":               Ref("secondary_color"),
		"menu/choice/normal/plain_text":        Ref("secondary_color"),
		"menu/choice/normal/decoration":        Ref("primary_color"),
		"menu/choice/normal/text":              Ref("primary_color"),
		"menu/choice/normal/comment":           Ref("note"),
		"menu/choice/normal/comment/original":  Ref("success_color"),
		"menu/choice/normal/comment/corrected": Ref("error_color"),
		"menu/choice/normal/text/dir":          Ref("blue"),
		"menu/choice/normal/text/exec":         Ref("red"),
		"menu/choice/normal/text/symlink":      Ref("magenta"),
		"menu/choice/active/plain_text":        Ref("secondary_color"),
		"menu/choice/active/decoration":        Ref("accent_color"),
		"menu/choice/active/text":              Ref("accent_color"),
		"menu/choice/active/comment":           Ref("note"),
		"menu/choice/active/comment/original":  Ref("success_color"),
		"menu/choice/active/comment/corrected": Ref("error_color"),
		"menu/choice/selected/decoration":      Ref("success_color"),
		"menu/help/plain_text":                 Ref("low_priority_color_b"),
		"menu/help/text":                       Ref("low_priority_color_b"),
		"menu/help/key":                        Ref("low_priority_color_a"),
	}

	for _, kind := range []string{"heading", "question", "task", "error", "warning", "success", "info", "thematic_break"} {
		c["msg/"+kind+"/decoration"] = Ref("msg/decoration")
	}

	for _, tag := range ColorTags {
		for _, status := range []string{"normal", "active"} {
			for _, role := range []string{"plain_text", "decoration", "text", "comment"} {
				c["menu/choice/"+status+"/"+role+"/"+tag] = Ref(tag)
			}
		}
	}
	return c
}

var defaultDecorations = map[string]string{
	"heading/section": "",
	"heading/1":       "⣿ ",
	"question":        "> ",
	"task":            "> ",
	"thematic_break":  "╌╌╌╌╌",
	"list":            "•   ",
	"quote":           ">   ",
	"code":            "        ",
	"menu/active":     "> ",
	"menu/selected":   "◉ ",
	"menu/unselected": "○ ",
}

var defaultASCIIDecorations = map[string]string{
	"heading/1":       "# ",
	"thematic_break":  "-----",
	"list":            "*   ",
	"menu/selected":   "[x] ",
	"menu/unselected": "[ ] ",
}

func defaultSymbols() Symbols {
	return Symbols{
		ProgressBarWidth:    15,
		ProgressBarDone:     "■",
		ProgressBarInflight: "▣",
		ProgressBarPending:  "□",
		SpinnerPattern:      []string{"⣤", "⣤", "⣤", "⠶", "⠛", "⠛", "⠛", "⠶"},
		SpinnerUpdateRate:   200 * time.Millisecond,
		SpinnerStatic:       "⣿",
	}
}

func asciiSymbols() Symbols {
	return Symbols{
		ProgressBarWidth:    15,
		ProgressBarStart:    "[",
		ProgressBarEnd:      "]",
		ProgressBarDone:     "#",
		ProgressBarInflight: ">",
		ProgressBarPending:  "-",
		SpinnerPattern:      []string{"|", "/", "-", "\\"},
		SpinnerUpdateRate:   200 * time.Millisecond,
		SpinnerStatic:       "*",
	}
}
