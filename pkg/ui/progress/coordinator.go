// Package progress shows the state of running tasks below the program's
// regular output.
//
// A Coordinator owns every write to the terminal. Messages, task updates
// and suspension requests from any goroutine are queued and applied by a
// single worker, which keeps the task area at the bottom of the output and
// redraws it as tasks change.
package progress

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/term"
	"golang.org/x/time/rate"

	apperrors "github.com/taminomara/yuio-sub000/pkg/errors"
	"github.com/taminomara/yuio-sub000/pkg/logging"
	"github.com/taminomara/yuio-sub000/pkg/ui/color"
	"github.com/taminomara/yuio-sub000/pkg/ui/terminal"
	"github.com/taminomara/yuio-sub000/pkg/ui/theme"
)

// Theme provides colors, decorations and symbols for the task area.
type Theme interface {
	GetColor(path string) color.Color
	GetMsgDecoration(name string, isUnicode bool) string
	Symbols(isUnicode bool) theme.Symbols
}

const (
	defaultQueueSize  = 256
	defaultRedrawRate = 30
)

type options struct {
	logger       *logging.Logger
	maxRows      int
	foreground   func() bool
	tickInterval time.Duration
	redrawRate   rate.Limit
	queueSize    int
}

// Option configures a Coordinator.
type Option func(*options)

// WithLogger sets the diagnostic logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMaxRows limits the number of task rows. By default tasks may use all
// but two rows of the terminal.
func WithMaxRows(n int) Option {
	return func(o *options) {
		o.maxRows = n
	}
}

// WithForeground overrides the check for whether this process is in the
// terminal's foreground process group. While it is not, tasks are printed
// line by line instead of being redrawn.
func WithForeground(fn func() bool) Option {
	return func(o *options) {
		o.foreground = fn
	}
}

// WithTickInterval sets how often spinners advance. Zero uses the theme's
// spinner rate; a negative interval disables the spinner ticker.
func WithTickInterval(d time.Duration) Option {
	return func(o *options) {
		o.tickInterval = d
	}
}

// WithRedrawRate limits redraws caused by progress and comment updates to
// the given number per second. Status changes and messages always redraw.
func WithRedrawRate(perSecond float64) Option {
	return func(o *options) {
		o.redrawRate = rate.Limit(perSecond)
	}
}

// Coordinator serializes terminal output and draws the task area.
type Coordinator struct {
	term  terminal.Term
	theme Theme

	queue    chan command
	finished chan struct{}
	stopTick chan struct{}

	mu     sync.RWMutex
	closed bool

	w        *worker
	closeErr error
}

// NewCoordinator starts the worker. The caller must call Close when done.
func NewCoordinator(t terminal.Term, th Theme, opts ...Option) *Coordinator {
	o := options{
		redrawRate: defaultRedrawRate,
		queueSize:  defaultQueueSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.foreground == nil {
		o.foreground = foregroundOf(t)
	}

	symbols := th.Symbols(t.IsUnicode)
	if o.tickInterval == 0 {
		o.tickInterval = symbols.SpinnerUpdateRate
	}

	c := &Coordinator{
		term:     t,
		theme:    th,
		queue:    make(chan command, o.queueSize),
		finished: make(chan struct{}),
		stopTick: make(chan struct{}),
	}
	c.w = newWorker(t, th, symbols, o)

	go c.run()
	if o.tickInterval > 0 {
		go c.tick(o.tickInterval)
	}
	return c
}

func foregroundOf(t terminal.Term) func() bool {
	f, ok := t.Out.(interface{ Fd() uintptr })
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return func() bool { return true }
	}
	fd := f.Fd()
	return func() bool { return terminal.IsForeground(fd) }
}

// Task starts a new top-level task.
func (c *Coordinator) Task(msg string, opts ...TaskOption) *Task {
	return c.newTask(nil, msg, opts)
}

func (c *Coordinator) newTask(parent *Task, msg string, opts []TaskOption) *Task {
	t := &Task{c: c, id: ulid.Make(), msg: msg, parent: parent}
	for _, opt := range opts {
		opt(t)
	}
	c.enqueue(registerTask{task: t})
	return t
}

// Suspend stops drawing tasks and starts buffering messages, so that the
// caller can use the terminal directly. It returns once the task area has
// been erased. Suspensions nest; each needs a matching Resume.
func (c *Coordinator) Suspend() error {
	done := make(chan struct{})
	if err := c.enqueue(suspend{done: done}); err != nil {
		return err
	}
	<-done
	return nil
}

// Resume undoes one Suspend. The last one prints buffered messages in
// order and redraws the tasks.
func (c *Coordinator) Resume() error {
	return c.enqueue(resume{})
}

// Flush waits until every queued command has been applied and the task
// area is up to date.
func (c *Coordinator) Flush() error {
	done := make(chan struct{})
	if err := c.enqueue(flush{done: done}); err != nil {
		return err
	}
	<-done
	return nil
}

// Close stops the worker after the queued commands. Buffered messages are
// printed even if there are unmatched suspensions, and tasks that are
// still shown are printed in their final state.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		<-c.finished
		return c.closeErr
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stopTick)
	c.queue <- stop{}
	<-c.finished
	return c.closeErr
}

func (c *Coordinator) enqueue(cmd command) error {
	if c == nil {
		return apperrors.New(apperrors.ErrCodeCoordinatorClosed, "no coordinator")
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return apperrors.New(apperrors.ErrCodeCoordinatorClosed, "coordinator is closed").
			WithContext("command", cmd.name())
	}
	c.queue <- cmd
	return nil
}

func (c *Coordinator) run() {
	defer close(c.finished)
	for cmd := range c.queue {
		if _, ok := cmd.(stop); ok {
			c.closeErr = c.w.finish()
			return
		}
		c.w.execute(cmd)
	}
}

func (c *Coordinator) tick(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopTick:
			return
		case <-ticker.C:
			if c.enqueue(tick{}) != nil {
				return
			}
		}
	}
}
