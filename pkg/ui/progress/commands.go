package progress

import (
	apperrors "github.com/taminomara/yuio-sub000/pkg/errors"
	"github.com/taminomara/yuio-sub000/pkg/ui/text"
)

// command is a request to the worker. Commands run one at a time, in the
// order they were queued.
type command interface {
	name() string
	execute(w *worker) error
}

// releaser is implemented by commands that a caller waits for.
type releaser interface {
	release()
}

type registerTask struct {
	task *Task
}

func (registerTask) name() string { return "register_task" }

func (c registerTask) execute(w *worker) error {
	t := c.task
	if t.parent != nil {
		t.parent.children = append(t.parent.children, t)
	} else {
		w.tasks = append(w.tasks, t)
	}
	return w.statusChanged(t)
}

type setProgress struct {
	task     *Task
	progress progressValue
}

func (setProgress) name() string { return "set_progress" }

func (c setProgress) execute(w *worker) error {
	c.task.progress = c.progress
	return w.changed(true)
}

type setComment struct {
	task    *Task
	comment string
}

func (setComment) name() string { return "set_comment" }

func (c setComment) execute(w *worker) error {
	c.task.comment = c.comment
	return w.changed(true)
}

type setStatus struct {
	task   *Task
	status Status
}

func (setStatus) name() string { return "set_status" }

func (c setStatus) execute(w *worker) error {
	if c.task.status == c.status {
		return nil
	}
	c.task.status = c.status
	return w.statusChanged(c.task)
}

type suspend struct {
	done chan struct{}
}

func (suspend) name() string { return "suspend" }

func (c suspend) execute(w *worker) error {
	w.suspended++
	if w.suspended == 1 {
		return w.undraw()
	}
	return nil
}

func (c suspend) release() { close(c.done) }

type resume struct{}

func (resume) name() string { return "resume" }

func (resume) execute(w *worker) error {
	if w.suspended == 0 {
		return apperrors.New(apperrors.ErrCodeUnbalancedResume, "resume without a matching suspend")
	}
	w.suspended--
	if w.suspended > 0 {
		return nil
	}
	lines := w.pending
	w.pending = nil
	return w.refresh(lines...)
}

type emitLine struct {
	lines           []text.ColorizedString
	ignoreSuspended bool
}

func (emitLine) name() string { return "emit_line" }

func (c emitLine) execute(w *worker) error {
	if w.suspended > 0 && c.ignoreSuspended {
		// The task area is not shown while suspended.
		return w.write(c.lines...)
	}
	return w.print(c.lines...)
}

type tick struct{}

func (tick) name() string { return "tick" }

func (tick) execute(w *worker) error {
	w.rc.AdvanceSpinner()
	if w.suspended > 0 || w.appendOnly() {
		return nil
	}
	if w.dirty || w.hasRunning() {
		return w.refresh()
	}
	return nil
}

type flush struct {
	done chan struct{}
}

func (flush) name() string { return "flush" }

func (flush) execute(w *worker) error {
	if w.dirty && w.suspended == 0 && !w.appendOnly() {
		return w.refresh()
	}
	return nil
}

func (c flush) release() { close(c.done) }

// stop ends the worker. It is handled by the run loop.
type stop struct{}

func (stop) name() string { return "stop" }

func (stop) execute(*worker) error { return nil }
