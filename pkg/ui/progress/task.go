package progress

import (
	"iter"

	"github.com/oklog/ulid/v2"
)

// Status is the state of a task.
type Status uint8

const (
	StatusRunning Status = iota
	StatusDone
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	default:
		return "running"
	}
}

type progressKind uint8

const (
	progressNone progressKind = iota
	progressFraction
	progressCount
	progressInflight
)

// progressValue is one of: nothing, a fraction in [0, 1], done of total,
// or done and in-flight of total.
type progressValue struct {
	kind     progressKind
	fraction float64
	done     int
	inflight int
	total    int
}

// Task is a unit of work shown in the task area while it runs.
//
// Methods are safe to call from any goroutine. Updates are queued to the
// coordinator and applied in the order they were made.
type Task struct {
	c        *Coordinator
	id       ulid.ULID
	priority int

	// Owned by the coordinator's worker.
	msg      string
	status   Status
	progress progressValue
	comment  string
	parent   *Task
	children []*Task
}

// TaskOption configures a new task.
type TaskOption func(*Task)

// WithPriority sets the task's priority among its siblings. When not all
// tasks fit on screen, higher priorities stay visible. The default is 0;
// ties keep declaration order.
func WithPriority(p int) TaskOption {
	return func(t *Task) {
		t.priority = p
	}
}

// WithComment sets the initial comment.
func WithComment(comment string) TaskOption {
	return func(t *Task) {
		t.comment = comment
	}
}

// ID uniquely identifies the task.
func (t *Task) ID() string {
	return t.id.String()
}

// Subtask starts a task nested under t.
func (t *Task) Subtask(msg string, opts ...TaskOption) *Task {
	return t.c.newTask(t, msg, opts)
}

// Progress reports done out of total units of work.
func (t *Task) Progress(done, total int) {
	t.setProgress(progressValue{kind: progressCount, done: done, total: total})
}

// ProgressInflight reports done and in-flight out of total units of work.
func (t *Task) ProgressInflight(done, inflight, total int) {
	t.setProgress(progressValue{kind: progressInflight, done: done, inflight: inflight, total: total})
}

// ProgressFraction reports progress as a number between 0 and 1.
func (t *Task) ProgressFraction(f float64) {
	t.setProgress(progressValue{kind: progressFraction, fraction: f})
}

// ClearProgress removes the progress bar.
func (t *Task) ClearProgress() {
	t.setProgress(progressValue{})
}

func (t *Task) setProgress(p progressValue) {
	t.c.enqueue(setProgress{task: t, progress: p})
}

// Comment sets a short note shown after the task's progress. An empty
// comment removes it.
func (t *Task) Comment(comment string) {
	t.c.enqueue(setComment{task: t, comment: comment})
}

// Done marks the task as finished successfully.
func (t *Task) Done() {
	t.c.enqueue(setStatus{task: t, status: StatusDone})
}

// Error marks the task as failed.
func (t *Task) Error() {
	t.c.enqueue(setStatus{task: t, status: StatusError})
}

// Iter yields 0..n-1, updating the progress before each step and marking
// it complete at the end. Updates are sent at most about a hundred times.
func (t *Task) Iter(n int) iter.Seq[int] {
	return func(yield func(int) bool) {
		step := max(1, n/100)
		for i := 0; i < n; i++ {
			if i%step == 0 {
				t.Progress(i, n)
			}
			if !yield(i) {
				return
			}
		}
		t.Progress(n, n)
	}
}

// Run calls fn and then marks the task done, or failed if fn returns an
// error or panics. The error is returned as is; panics are re-raised.
func (t *Task) Run(fn func(t *Task) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			t.Error()
			panic(r)
		}
		if err != nil {
			t.Error()
		} else {
			t.Done()
		}
	}()
	return fn(t)
}

func (t *Task) size() int {
	n := 1
	for _, c := range t.children {
		n += c.size()
	}
	return n
}
