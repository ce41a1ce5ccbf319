package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/taminomara/yuio-sub000/pkg/errors"
	"github.com/taminomara/yuio-sub000/pkg/logging"
	"github.com/taminomara/yuio-sub000/pkg/ui/compositor"
	"github.com/taminomara/yuio-sub000/pkg/ui/terminal"
)

const tracerName = "github.com/taminomara/yuio-sub000/pkg/ui/runtime"

//go:generate mockgen -package=runtime -destination=mock_console_test.go github.com/taminomara/yuio-sub000/pkg/ui/runtime Console

// Console is an exclusive source of keyboard events. terminal.Session is
// the implementation used outside of tests.
type Console interface {
	ReadEvent() (terminal.KeyboardEvent, error)
	Close() error
}

// Option configures Run.
type Option func(*runOptions)

type runOptions struct {
	open   func(terminal.Term) (Console, error)
	logger *logging.Logger
	tracer trace.Tracer
}

// WithConsole replaces the function that acquires the terminal.
func WithConsole(open func(terminal.Term) (Console, error)) Option {
	return func(o *runOptions) {
		o.open = open
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *runOptions) {
		o.logger = l
	}
}

// WithTracer sets the tracer for the run span. The global tracer is used
// by default.
func WithTracer(t trace.Tracer) Option {
	return func(o *runOptions) {
		o.tracer = t
	}
}

func openSession(t terminal.Term) (Console, error) {
	s, err := terminal.Open(t)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Run takes over the terminal and runs w until it stops or is cancelled.
//
// The widget is drawn below the cursor and erased when Run returns. When
// the widget is cancelled or input ends, Run returns the widget's default
// or a VALUE_REQUIRED error. Ctrl+C returns an INTERRUPTED error. The
// context is checked between events; a pending read is not interrupted.
func Run[T any](ctx context.Context, term terminal.Term, colors compositor.Colors, w Widget[T], opts ...Option) (result T, err error) {
	o := runOptions{open: openSession}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}

	ctx, span := o.tracer.Start(ctx, "widget.run",
		trace.WithAttributes(attribute.String("widget.type", fmt.Sprintf("%T", w))))
	r := runner[T]{widget: w, logger: o.logger}
	defer func() {
		span.SetAttributes(
			attribute.Int("widget.events", r.events),
			attribute.String("widget.outcome", r.outcome),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if !term.IsFullyInteractive() {
		r.outcome = "not_interactive"
		return result, apperrors.New(apperrors.ErrCodeNotInteractive, "terminal does not support interactive widgets")
	}

	console, err := o.open(term)
	if err != nil {
		r.outcome = "raw_mode_unavailable"
		o.logger.Warn(logging.CategoryInput, "raw_mode_unavailable", err.Error(), nil)
		if !apperrors.IsCode(err, apperrors.ErrCodeRawModeUnavailable) {
			err = apperrors.Wrap(err, apperrors.ErrCodeRawModeUnavailable, "failed to acquire terminal")
		}
		return result, err
	}
	defer console.Close()

	r.rc = compositor.New(term, colors)
	defer func() {
		if p := recover(); p != nil {
			_ = r.rc.Finalize()
			r.outcome = "panic"
			err = apperrors.Newf(apperrors.ErrCodeInternal, "widget panicked: %v", p)
		}
	}()

	result, err = r.loop(ctx, console)
	r.logger.Debug(logging.CategoryWidget, "widget_result", r.outcome, map[string]any{
		"events": r.events,
		"widget": fmt.Sprintf("%T", w),
	})
	return result, err
}

type runner[T any] struct {
	widget  Widget[T]
	rc      *compositor.RenderContext
	logger  *logging.Logger
	events  int
	outcome string
}

func (r *runner[T]) loop(ctx context.Context, console Console) (T, error) {
	var zero T
	for {
		if err := ctx.Err(); err != nil {
			r.outcome = "context_done"
			_ = r.rc.Finalize()
			return zero, err
		}
		if err := r.draw(); err != nil {
			r.outcome = "render_failed"
			return zero, fmt.Errorf("render widget: %w", err)
		}

		ev, err := console.ReadEvent()
		if errors.Is(err, io.EOF) {
			r.outcome = "eof"
			_ = r.rc.Finalize()
			return r.defaultValue()
		}
		if err != nil {
			r.outcome = "read_failed"
			_ = r.rc.Finalize()
			return zero, fmt.Errorf("read input: %w", err)
		}
		r.events++

		if ev.Key == terminal.KeyRune && ev.Ctrl && ev.Rune == 'c' {
			r.outcome = "interrupted"
			_ = r.rc.Finalize()
			return zero, apperrors.New(apperrors.ErrCodeInterrupted, "interrupted")
		}

		out := r.widget.Event(ev)
		switch {
		case out.IsStop():
			r.outcome = "stop"
			if err := r.draw(); err != nil {
				return zero, fmt.Errorf("render widget: %w", err)
			}
			if err := r.rc.Finalize(); err != nil {
				return zero, fmt.Errorf("render widget: %w", err)
			}
			return out.Value(), nil
		case out.IsCancel():
			r.outcome = "cancel"
			_ = r.rc.Finalize()
			return r.defaultValue()
		}
	}
}

// draw lays out the widget, draws it and sends the difference to the
// terminal. One row is always left for the cursor below the widget.
func (r *runner[T]) draw() error {
	rc := r.rc
	rc.Prepare(false)
	minH, maxH := r.widget.Layout(rc)
	_, height := rc.CanvasSize()
	maxH = max(minH, min(maxH, height-1))

	rc.SetFinalPos(0, maxH)
	rc.Frame(0, 0, -1, maxH, func() {
		r.widget.Draw(rc)
	})
	return rc.Render()
}

func (r *runner[T]) defaultValue() (T, error) {
	if d, ok := r.widget.(Defaulter[T]); ok {
		if v, ok := d.Default(); ok {
			return v, nil
		}
	}
	var zero T
	return zero, apperrors.New(apperrors.ErrCodeValueRequired, "value required")
}
