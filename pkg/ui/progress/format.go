package progress

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/taminomara/yuio-sub000/pkg/ui/color"
	"github.com/taminomara/yuio-sub000/pkg/ui/text"
	"github.com/taminomara/yuio-sub000/pkg/ui/theme"
)

// row is one line of the task area: a task, or a placeholder for more
// hidden siblings.
type row struct {
	task   *Task
	indent int
	more   int
}

// collapse lays out tasks in at most budget task rows. When a group of
// siblings does not fit, the ones with the lowest rank are replaced by a
// single "+N more" row after the group. Placeholders do not count against
// the budget.
//
// Siblings are ranked by priority, then running before finished, then by
// declaration order. Rows left over after placing the visible siblings go
// to their children in rank order.
func collapse(rows []row, tasks []*Task, budget, indent int) []row {
	if len(tasks) == 0 {
		return rows
	}

	total := 0
	for _, t := range tasks {
		total += t.size()
	}

	childBudget := make(map[*Task]int, len(tasks))
	if total <= budget {
		for _, t := range tasks {
			childBudget[t] = t.size() - 1
		}
	} else {
		ranked := slices.Clone(tasks)
		slices.SortStableFunc(ranked, compareRank)
		n := min(len(ranked), max(budget, 0))
		left := budget - n
		for _, t := range ranked[:n] {
			b := min(left, t.size()-1)
			childBudget[t] = b
			left -= b
		}
	}

	hidden := 0
	for _, t := range tasks {
		b, ok := childBudget[t]
		if !ok {
			hidden++
			continue
		}
		rows = append(rows, row{task: t, indent: indent})
		rows = collapse(rows, t.children, b, indent+1)
	}
	if hidden > 0 {
		rows = append(rows, row{indent: indent, more: hidden})
	}
	return rows
}

func compareRank(a, b *Task) int {
	if c := cmp.Compare(b.priority, a.priority); c != 0 {
		return c
	}
	ra, rb := a.status == StatusRunning, b.status == StatusRunning
	switch {
	case ra && !rb:
		return -1
	case rb && !ra:
		return 1
	}
	return 0
}

// formatter turns tasks into colorized lines.
type formatter struct {
	colors  Theme
	symbols theme.Symbols

	// decorated adds the spinner column and progress bars. Without it,
	// lines only say whether the task is running or how it ended.
	decorated bool
	tick      int
}

func (f *formatter) color(path string) color.Color {
	return f.colors.GetColor(path)
}

func (f *formatter) row(r row) text.ColorizedString {
	if r.task == nil {
		return f.more(r.more, r.indent)
	}
	return f.task(r.task, r.indent)
}

// subtree formats t and all of its children.
func (f *formatter) subtree(t *Task, indent int, out []text.ColorizedString) []text.ColorizedString {
	out = append(out, f.task(t, indent))
	for _, c := range t.children {
		out = f.subtree(c, indent+1, out)
	}
	return out
}

func (f *formatter) more(n, indent int) text.ColorizedString {
	return text.New(strings.Repeat("  ", indent), f.color("task/more"), "+"+strconv.Itoa(n)+" more")
}

func (f *formatter) task(t *Task, indent int) text.ColorizedString {
	var s text.ColorizedString
	s.AppendStr(strings.Repeat("  ", indent))

	if f.decorated {
		if glyph, path := f.statusGlyph(t.status); glyph != "" {
			s.AppendColor(f.color(path))
			s.AppendStr(glyph + " ")
		}
	}

	s.AppendColor(f.color("task/heading"))
	s.AppendStr(t.msg)

	plain := f.color("task/plain_text")
	switch {
	case t.status == StatusDone:
		s.Append(text.New(plain, ": ", f.color("task/decoration/done"), "OK"))
	case t.status == StatusError:
		s.Append(text.New(plain, ": ", f.color("task/decoration/error"), "ERROR"))
	case !f.decorated:
		s.Append(text.New(plain, "..."))
	case t.progress.kind == progressNone:
		if t.comment != "" {
			s.Append(text.New(plain, " - ", f.color("task/comment"), t.comment))
		}
		s.Append(text.New(plain, "..."))
	default:
		s.AppendStr(" ")
		s.Append(f.progressBar(t.progress))
		if t.comment != "" {
			s.Append(text.New(plain, " - ", f.color("task/comment"), t.comment))
		}
	}
	return s
}

func (f *formatter) statusGlyph(status Status) (glyph, path string) {
	switch status {
	case StatusDone:
		return f.symbols.SpinnerStatic, "task/decoration/done"
	case StatusError:
		return f.symbols.SpinnerStatic, "task/decoration/error"
	}
	if n := len(f.symbols.SpinnerPattern); n > 0 {
		return f.symbols.SpinnerPattern[f.tick%n], "task/decoration"
	}
	return f.symbols.SpinnerStatic, "task/decoration"
}

// progressBar draws the bar followed by a "d/t", "d/i/t" or "NN%"
// indicator.
func (f *formatter) progressBar(p progressValue) text.ColorizedString {
	width := max(f.symbols.ProgressBarWidth, 0)
	done, inflight := barCells(p, width)

	s := text.New(
		f.color("task/progressbar"), f.symbols.ProgressBarStart,
		f.color("task/progressbar/done"), strings.Repeat(f.symbols.ProgressBarDone, done),
		f.color("task/progressbar/inflight"), strings.Repeat(f.symbols.ProgressBarInflight, inflight),
		f.color("task/progressbar/pending"), strings.Repeat(f.symbols.ProgressBarPending, width-done-inflight),
		f.color("task/progressbar"), f.symbols.ProgressBarEnd,
		f.color("task/progress"), " "+indicator(p),
	)
	return s
}

// barCells splits a bar of the given width into done and in-flight cells.
// A bar that is neither empty nor full, and has no explicit in-flight
// work, shows its leading edge as in-flight.
func barCells(p progressValue, width int) (done, inflight int) {
	var donePart, inflightPart float64
	switch p.kind {
	case progressFraction:
		donePart = p.fraction
	case progressCount:
		donePart = ratio(p.done, p.total)
	case progressInflight:
		donePart = ratio(p.done, p.total)
		inflightPart = ratio(p.inflight, p.total)
	}
	donePart = clamp01(donePart)
	inflightPart = clamp01(inflightPart)
	if donePart+inflightPart > 1 {
		inflightPart = 1 - donePart
	}

	done = int(float64(width) * donePart)
	inflight = int(float64(width) * inflightPart)
	if p.kind != progressInflight && inflight == 0 && done > 0 && done < width {
		inflight = 1
		done--
	}
	return done, inflight
}

func indicator(p progressValue) string {
	switch p.kind {
	case progressCount:
		return fmt.Sprintf("%d/%d", p.done, p.total)
	case progressInflight:
		return fmt.Sprintf("%d/%d/%d", p.done, p.inflight, p.total)
	default:
		return fmt.Sprintf("%.0f%%", clamp01(p.fraction)*100)
	}
}

func ratio(a, b int) float64 {
	if b <= 0 {
		return 0
	}
	return float64(a) / float64(b)
}

func clamp01(v float64) float64 {
	return min(1, max(0, v))
}
