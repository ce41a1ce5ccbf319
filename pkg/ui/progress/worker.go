package progress

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/time/rate"

	apperrors "github.com/taminomara/yuio-sub000/pkg/errors"
	"github.com/taminomara/yuio-sub000/pkg/logging"
	"github.com/taminomara/yuio-sub000/pkg/ui/color"
	"github.com/taminomara/yuio-sub000/pkg/ui/compositor"
	"github.com/taminomara/yuio-sub000/pkg/ui/terminal"
	"github.com/taminomara/yuio-sub000/pkg/ui/text"
	"github.com/taminomara/yuio-sub000/pkg/ui/theme"
)

// worker holds the state that only the coordinator's goroutine touches.
type worker struct {
	term    terminal.Term
	theme   Theme
	symbols theme.Symbols
	opts    options
	log     *logging.Logger

	rc      *compositor.RenderContext
	limiter *rate.Limiter
	banner  lipgloss.Style

	tasks     []*Task
	suspended int
	pending   []text.ColorizedString

	// drawn is true while the task area is on screen; dirty is true when
	// it does not reflect the latest state.
	drawn bool
	dirty bool
}

func newWorker(t terminal.Term, th Theme, symbols theme.Symbols, o options) *worker {
	return &worker{
		term:    t,
		theme:   th,
		symbols: symbols,
		opts:    o,
		log:     o.logger,
		rc:      compositor.New(t, th),
		limiter: rate.NewLimiter(o.redrawRate, 1),
		banner:  bannerStyle(t),
	}
}

// execute applies one command. Failures are reported and never stop the
// worker; a caller waiting on the command is always released.
func (w *worker) execute(cmd command) {
	if r, ok := cmd.(releaser); ok {
		defer r.release()
	}
	defer func() {
		if r := recover(); r != nil {
			w.fail(cmd, apperrors.Newf(apperrors.ErrCodeCommandFailed, "%s panicked: %v", cmd.name(), r))
		}
	}()

	metricCommands.WithLabelValues(cmd.name()).Inc()
	if err := cmd.execute(w); err != nil {
		w.fail(cmd, err)
	}
}

func (w *worker) fail(cmd command, err error) {
	var coded *apperrors.Error
	if !errors.As(err, &coded) {
		err = apperrors.Wrap(err, apperrors.ErrCodeCommandFailed, cmd.name()+" failed")
	}
	metricFailures.WithLabelValues(string(apperrors.GetCode(err))).Inc()
	details := map[string]any{
		"command": cmd.name(),
		"code":    string(apperrors.GetCode(err)),
	}
	if errors.As(err, &coded) && len(coded.Stack) > 0 {
		details["stack"] = coded.StackTrace()
	}
	w.log.Error(logging.CategoryCoordinator, "command_failed", err.Error(), details)

	// The banner goes out even while suspended. The task area is erased
	// first and comes back with the next redraw.
	if w.drawn {
		w.drawn = false
		_ = w.rc.Finalize()
	}
	w.dirty = true
	_, _ = fmt.Fprintln(w.term.Out, w.banner.Render("yuio: "+err.Error()))
}

func (w *worker) appendOnly() bool {
	return !w.term.CanMoveCursor() || !w.opts.foreground()
}

func (w *worker) formatter(decorated bool) *formatter {
	return &formatter{
		colors:    w.theme,
		symbols:   w.symbols,
		decorated: decorated,
		tick:      w.rc.SpinnerTick(),
	}
}

func (w *worker) budget() int {
	if w.opts.maxRows > 0 {
		return w.opts.maxRows
	}
	_, height := w.term.Size()
	return max(1, height-2)
}

// statusChanged shows a task that was added, finished or failed.
func (w *worker) statusChanged(t *Task) error {
	if !w.appendOnly() {
		return w.changed(false)
	}
	if t.status != StatusRunning && t.parent == nil {
		w.remove(t)
	}
	return w.print(w.formatter(false).task(t, 0))
}

// changed redraws after a state change. Throttled changes are skipped
// when redraws are too frequent; the next tick picks them up.
func (w *worker) changed(throttled bool) error {
	w.dirty = true
	if w.suspended > 0 || w.appendOnly() {
		return nil
	}
	if throttled && !w.limiter.Allow() {
		return nil
	}
	return w.refresh()
}

// print outputs lines above the task area, or buffers them while
// suspended.
func (w *worker) print(lines ...text.ColorizedString) error {
	if w.suspended > 0 {
		w.pending = append(w.pending, lines...)
		return nil
	}
	return w.refresh(lines...)
}

// refresh writes lines above the task area, moves finished top-level
// tasks out of it and redraws it.
func (w *worker) refresh(lines ...text.ColorizedString) error {
	if w.appendOnly() {
		if err := w.undraw(); err != nil {
			return err
		}
		return w.write(lines...)
	}

	f := w.formatter(true)
	for _, t := range w.takeFinished() {
		lines = f.subtree(t, 0, lines)
	}
	if len(lines) > 0 {
		if err := w.undraw(); err != nil {
			return err
		}
		if err := w.write(lines...); err != nil {
			return err
		}
	}
	return w.draw()
}

func (w *worker) draw() error {
	rows := collapse(nil, w.tasks, w.budget(), 0)
	w.dirty = false
	if len(rows) == 0 && !w.drawn {
		return nil
	}

	f := w.formatter(true)
	w.rc.Prepare(false)
	for i, r := range rows {
		w.rc.SetPos(0, i)
		w.rc.WriteColorized(f.row(r))
	}
	w.drawn = len(rows) > 0
	return w.rc.Render()
}

func (w *worker) undraw() error {
	if !w.drawn {
		return nil
	}
	w.drawn = false
	return w.rc.Finalize()
}

func (w *worker) write(lines ...text.ColorizedString) error {
	if len(lines) == 0 {
		return nil
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line.Code(w.term.ColorSupport, color.None))
		b.WriteByte('\n')
	}
	_, err := w.term.Out.Write([]byte(b.String()))
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func (w *worker) takeFinished() []*Task {
	var finished []*Task
	running := w.tasks[:0]
	for _, t := range w.tasks {
		if t.status == StatusRunning {
			running = append(running, t)
		} else {
			finished = append(finished, t)
		}
	}
	clear(w.tasks[len(running):])
	w.tasks = running
	return finished
}

func (w *worker) remove(t *Task) {
	for i, other := range w.tasks {
		if other == t {
			w.tasks = append(w.tasks[:i], w.tasks[i+1:]...)
			return
		}
	}
}

func (w *worker) hasRunning() bool {
	for _, t := range w.tasks {
		if t.status == StatusRunning {
			return true
		}
	}
	return false
}

// finish prints whatever is left and erases the task area.
func (w *worker) finish() error {
	lines := w.pending
	w.pending = nil
	w.suspended = 0

	if !w.appendOnly() {
		f := w.formatter(true)
		for _, t := range w.tasks {
			lines = f.subtree(t, 0, lines)
		}
	}
	w.tasks = nil

	err := w.undraw()
	if werr := w.write(lines...); err == nil {
		err = werr
	}
	w.log.Debug(logging.CategoryCoordinator, "coordinator_closed", "", nil)
	return err
}
