package progress

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"regexp"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/taminomara/yuio-sub000/pkg/errors"
	"github.com/taminomara/yuio-sub000/pkg/logging"
	"github.com/taminomara/yuio-sub000/pkg/ui/color"
	"github.com/taminomara/yuio-sub000/pkg/ui/terminal"
	"github.com/taminomara/yuio-sub000/pkg/ui/text"
	"github.com/taminomara/yuio-sub000/pkg/ui/theme"
)

func plainTerm(out *bytes.Buffer) terminal.Term {
	return terminal.Term{Out: out, DefaultWidth: 40, DefaultHeight: 10}
}

func ansiTerm(out *bytes.Buffer) terminal.Term {
	return terminal.Term{
		Out:                out,
		ColorSupport:       color.SupportANSI,
		InteractiveSupport: terminal.InteractiveMoveCursor,
		DefaultWidth:       40,
		DefaultHeight:      10,
	}
}

func newCoordinator(t *testing.T, term terminal.Term, opts ...Option) *Coordinator {
	t.Helper()
	opts = append([]Option{
		WithTickInterval(-1),
		WithRedrawRate(math.Inf(1)),
		WithForeground(func() bool { return true }),
	}, opts...)
	c := NewCoordinator(term, theme.Default(), opts...)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// visibleRows returns the task area as it would be drawn next, without
// decorations.
func visibleRows(t *testing.T, c *Coordinator) []string {
	t.Helper()
	require.NoError(t, c.Flush())
	return rowStrings(collapse(nil, c.w.tasks, c.w.budget(), 0))
}

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

func TestAppendOnly(t *testing.T) {
	var out bytes.Buffer
	c := newCoordinator(t, plainTerm(&out))

	c.Info("hello %s", "world")
	task := c.Task("build")
	task.Progress(1, 2)
	task.Comment("compiling")
	sub := task.Subtask("lint")
	sub.Done()
	task.Done()
	c.Warning("careful")

	require.NoError(t, c.Close())
	assert.Equal(t, "hello world\nbuild...\nlint...\nlint: OK\nbuild: OK\ncareful\n", out.String())
}

func TestAppendOnlyWhenInBackground(t *testing.T) {
	var out bytes.Buffer
	c := newCoordinator(t, ansiTerm(&out), WithForeground(func() bool { return false }))

	task := c.Task("build")
	task.Error()
	require.NoError(t, c.Close())

	assert.Equal(t, "build...\nbuild: ERROR\n", stripANSI(out.String()))
	assert.NotContains(t, out.String(), "\x1b[J")
}

func TestSuspend(t *testing.T) {
	var out bytes.Buffer
	c := newCoordinator(t, plainTerm(&out))

	c.Info("before")
	require.NoError(t, c.Suspend())
	c.Info("a")
	require.NoError(t, c.EmitLine(text.New("direct"), IgnoreSuspended()))
	require.NoError(t, c.Suspend())
	c.Task("job")
	c.Info("b")
	require.NoError(t, c.Resume())

	require.NoError(t, c.Flush())
	assert.Equal(t, "before\ndirect\n", out.String())

	require.NoError(t, c.Resume())
	c.Info("after")
	require.NoError(t, c.Close())
	assert.Equal(t, "before\ndirect\na\njob...\nb\nafter\n", out.String())
}

func TestUnbalancedResume(t *testing.T) {
	var out, logs bytes.Buffer
	c := newCoordinator(t, plainTerm(&out), WithLogger(logging.NewWriterLogger(&logs, "test")))

	failures := metricFailures.WithLabelValues(string(apperrors.ErrCodeUnbalancedResume))
	before := testutil.ToFloat64(failures)

	require.NoError(t, c.Resume())
	c.Info("still running")
	require.NoError(t, c.Close())

	assert.Equal(t, "yuio: [UNBALANCED_RESUME] resume without a matching suspend\nstill running\n", out.String())
	assert.Equal(t, before+1, testutil.ToFloat64(failures))
	assert.Contains(t, logs.String(), `"type":"command_failed"`)
	assert.Contains(t, logs.String(), `"stack":"Stack trace:`)
	assert.Contains(t, logs.String(), "pkg/ui/progress")
}

type panicCommand struct {
	done chan struct{}
}

func (panicCommand) name() string { return "panic_test" }

func (panicCommand) execute(*worker) error { panic("boom") }

func (c panicCommand) release() { close(c.done) }

func TestCommandPanic(t *testing.T) {
	var out bytes.Buffer
	c := newCoordinator(t, plainTerm(&out))

	done := make(chan struct{})
	require.NoError(t, c.enqueue(panicCommand{done: done}))
	<-done

	c.Info("next")
	require.NoError(t, c.Close())
	assert.Equal(t, "yuio: [COMMAND_FAILED] panic_test panicked: boom\nnext\n", out.String())
}

func TestClosed(t *testing.T) {
	var out bytes.Buffer
	c := newCoordinator(t, plainTerm(&out))
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	err := c.Suspend()
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeCoordinatorClosed))
	assert.True(t, apperrors.IsCode(c.EmitLine(text.New("x")), apperrors.ErrCodeCoordinatorClosed))

	// Updates to tasks after close are dropped.
	task := c.Task("late")
	task.Done()
	assert.Empty(t, out.String())
}

func TestCollapsing(t *testing.T) {
	var out bytes.Buffer
	c := newCoordinator(t, ansiTerm(&out), WithMaxRows(1))

	tasks := make([]*Task, 5)
	for i := range tasks {
		tasks[i] = c.Task(fmt.Sprintf("task %d", i))
	}
	assert.Equal(t, []string{"task 0...", "+4 more"}, visibleRows(t, c))

	tasks[0].Done()
	assert.Equal(t, []string{"task 1...", "+3 more"}, visibleRows(t, c))
	assert.Contains(t, stripANSI(out.String()), "task 0: OK\n")

	tasks[3].Error()
	tasks[1].Done()
	assert.Equal(t, []string{"task 2...", "+1 more"}, visibleRows(t, c))
}

func TestInteractiveRedraw(t *testing.T) {
	var out bytes.Buffer
	c := newCoordinator(t, ansiTerm(&out))

	task := c.Task("build")
	require.NoError(t, c.Flush())
	assert.Contains(t, stripANSI(out.String()), "build...")

	out.Reset()
	task.Progress(5, 10)
	require.NoError(t, c.Flush())
	assert.Contains(t, stripANSI(out.String()), "[######>--------] 5/10")

	out.Reset()
	c.Info("message")
	require.NoError(t, c.Flush())
	// The task area is erased, the message printed above it, and the
	// task drawn again below.
	got := out.String()
	assert.Contains(t, got, "\x1b[J")
	assert.Contains(t, stripANSI(got), "message\n")
	assert.Contains(t, stripANSI(got), "build [")

	out.Reset()
	require.NoError(t, c.Close())
	assert.Contains(t, stripANSI(out.String()), "build [######>--------] 5/10\n")
}

func TestTick(t *testing.T) {
	var out bytes.Buffer
	c := newCoordinator(t, ansiTerm(&out))
	c.Task("spin")
	require.NoError(t, c.Flush())
	assert.Contains(t, stripANSI(out.String()), "| spin...")

	// Only the spinner cell changes.
	out.Reset()
	require.NoError(t, c.enqueue(tick{}))
	require.NoError(t, c.Flush())
	assert.Equal(t, "/", stripANSI(out.String()))
}

func TestTaskHelpers(t *testing.T) {
	var out bytes.Buffer
	c := newCoordinator(t, plainTerm(&out))

	task := c.Task("count")
	sum := 0
	for i := range task.Iter(4) {
		sum += i
	}
	assert.Equal(t, 6, sum)
	require.NoError(t, c.Flush())
	assert.Equal(t, progressValue{kind: progressCount, done: 4, total: 4}, task.progress)

	errFailed := errors.New("failed")
	err := c.Task("job").Run(func(t *Task) error {
		t.Comment("working")
		return errFailed
	})
	assert.ErrorIs(t, err, errFailed)

	require.NoError(t, c.Task("ok").Run(func(*Task) error { return nil }))

	assert.Panics(t, func() {
		_ = c.Task("crash").Run(func(*Task) error { panic("boom") })
	})

	require.NoError(t, c.Close())
	assert.Equal(t,
		"count...\njob...\njob: ERROR\nok...\nok: OK\ncrash...\ncrash: ERROR\n",
		out.String())
	assert.NotEmpty(t, task.ID())
}

func TestFormatMessage(t *testing.T) {
	c := newCoordinator(t, plainTerm(&bytes.Buffer{}))

	lines := c.FormatMessage(KindQuestion, "Name?\nsecond")
	require.Len(t, lines, 2)
	assert.Equal(t, "> Name?", lines[0].String())
	assert.Equal(t, "  second", lines[1].String())

	lines = c.FormatMessage(KindHeading, "Title")
	assert.Equal(t, "# Title", lines[0].String())

	lines = c.FormatMessage(KindInfo, "plain\n")
	assert.Equal(t, []string{"plain"}, []string{lines[0].String()})
}
