package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/taminomara/yuio-sub000/pkg/config"
	"github.com/taminomara/yuio-sub000/pkg/logging"
	"github.com/taminomara/yuio-sub000/pkg/observability"
	"github.com/taminomara/yuio-sub000/pkg/ui/color"
	"github.com/taminomara/yuio-sub000/pkg/ui/progress"
	"github.com/taminomara/yuio-sub000/pkg/ui/prompt"
	"github.com/taminomara/yuio-sub000/pkg/ui/terminal"
	"github.com/taminomara/yuio-sub000/pkg/ui/theme"
)

const traceShutdownTimeout = 5 * time.Second

// app is everything a command needs: the resolved terminal, the theme, the
// coordinator that owns the terminal's output, and diagnostics.
type app struct {
	cfg       *config.Config
	term      terminal.Term
	theme     *theme.Theme
	log       *logging.Logger
	coord     *progress.Coordinator
	prompter  *prompt.Prompter
	sessionID string

	// out receives command results; the UI goes to term.Out.
	out io.Writer

	tracer    *observability.TracerProvider
	traceFile *os.File
	span      trace.Span
}

func newApp(ctx context.Context, opts globalOptions, name string, s streams) (context.Context, *app, error) {
	cfg, err := config.Load(opts.configPath, s.env)
	if err != nil {
		return ctx, nil, withExitCode(err, exitUsage)
	}
	if opts.noColor {
		cfg.Terminal.Color = color.SupportNone.String()
	}
	if opts.logDir != "" {
		cfg.Logging.Dir = opts.logDir
	}

	th, err := cfg.NewTheme()
	if err != nil {
		return ctx, nil, withExitCode(err, exitUsage)
	}

	a := &app{
		cfg:       cfg,
		term:      cfg.ResolveTerm(s.in, s.err, s.env),
		theme:     th,
		sessionID: uuid.NewString(),
		out:       s.out,
	}

	a.log, err = cfg.NewLogger(a.sessionID)
	if err != nil {
		return ctx, nil, err
	}
	cfg.LogLoaded(a.log)

	if opts.tracePath != "" {
		if err := a.startTracing(opts.tracePath); err != nil {
			_ = a.log.Close()
			return ctx, nil, err
		}
	}
	ctx, a.span = observability.StartSpan(ctx, "yuio."+name, trace.WithAttributes(
		observability.AttrSessionID.String(a.sessionID),
		observability.AttrCommand.String(name),
	))

	a.coord = progress.NewCoordinator(a.term, th, cfg.CoordinatorOptions(a.log)...)
	a.prompter = prompt.New(a.coord, a.term, th, prompt.WithLogger(a.log))

	a.log.Info(logging.CategorySession, "session_start", "", map[string]any{
		"command":     name,
		"version":     version,
		"color":       a.term.ColorSupport.String(),
		"interactive": a.term.InteractiveSupport.String(),
		"unicode":     a.term.IsUnicode,
	})
	return ctx, a, nil
}

func (a *app) startTracing(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open trace file: %w", err)
	}
	tp, err := observability.NewTracerProvider("yuio", version, f)
	if err != nil {
		f.Close()
		return err
	}
	a.tracer, a.traceFile = tp, f
	return nil
}

// close flushes the coordinator and every diagnostic sink. runErr is the
// command's result, recorded on the command span.
func (a *app) close(runErr error) error {
	err := a.coord.Close()

	if runErr != nil {
		a.span.RecordError(runErr)
		a.span.SetStatus(codes.Error, runErr.Error())
	}
	a.span.End()

	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), traceShutdownTimeout)
		err = errors.Join(err, a.tracer.Shutdown(ctx))
		cancel()
		err = errors.Join(err, a.traceFile.Close())
	}

	details := map[string]any{}
	if runErr != nil {
		details["error"] = runErr.Error()
	}
	a.log.Info(logging.CategorySession, "session_end", "", details)
	return errors.Join(err, a.log.Close())
}
