package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/taminomara/yuio-sub000/pkg/errors"
	"github.com/taminomara/yuio-sub000/pkg/observability"
	"github.com/taminomara/yuio-sub000/pkg/ui/progress"
	"github.com/taminomara/yuio-sub000/pkg/ui/prompt"
	"github.com/taminomara/yuio-sub000/pkg/ui/terminal"
	"github.com/taminomara/yuio-sub000/pkg/ui/widgets"
)

func newFlagSet(a *app, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.term.Out)
	return fs
}

// runShowkey prints every decoded keyboard event until Ctrl+C.
func runShowkey(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "showkey")
	if err := fs.Parse(args); err != nil {
		return withExitCode(err, exitUsage)
	}
	if !a.term.IsFullyInteractive() {
		return apperrors.New(apperrors.ErrCodeNotInteractive, "showkey needs an interactive terminal")
	}

	if err := a.coord.Suspend(); err != nil {
		return err
	}
	defer a.coord.Resume()

	session, err := terminal.Open(a.term)
	if err != nil {
		return err
	}
	defer session.Close()

	fmt.Fprintln(a.term.Out, "Press keys to see how they are decoded. Ctrl+C exits.")
	for ctx.Err() == nil {
		ev, err := session.ReadEvent()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if ev.Key == terminal.KeyRune && ev.Ctrl && ev.Rune == 'c' {
			return nil
		}
		line := ev.String()
		if ev.Key == terminal.KeyPaste {
			line += fmt.Sprintf(" %q", ev.PasteStr)
		}
		fmt.Fprintln(a.term.Out, line)
	}
	return nil
}

// runAsk asks for a line of text, or a yes/no answer with -confirm, and
// prints the answer.
func runAsk(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "ask")
	def := fs.String("default", "", "Answer used when none is given")
	placeholder := fs.String("placeholder", "", "Text shown in the empty input")
	confirm := fs.Bool("confirm", false, "Ask a yes/no question")
	if err := fs.Parse(args); err != nil {
		return withExitCode(err, exitUsage)
	}
	question := strings.Join(fs.Args(), " ")
	if question == "" {
		return withExitCode(errors.New("ask: missing question"), exitUsage)
	}
	defSet := false
	fs.Visit(func(f *flag.Flag) { defSet = defSet || f.Name == "default" })

	if *confirm {
		answer := prompt.NoDefault
		if defSet {
			v, ok := parseAnswer(*def)
			if !ok {
				return withExitCode(fmt.Errorf("ask: -default must be yes or no, got %q", *def), exitUsage)
			}
			answer = v
		}
		ok, err := a.prompter.AskYesNo(ctx, question, answer)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, yesNoString(ok))
		return nil
	}

	opts := []prompt.AskOption{prompt.WithPlaceholder(*placeholder)}
	if defSet {
		opts = append(opts, prompt.WithDefault(*def))
	}
	answer, err := a.prompter.Ask(ctx, question, opts...)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, answer)
	return nil
}

func parseAnswer(s string) (prompt.Answer, bool) {
	switch strings.ToLower(s) {
	case "y", "yes":
		return prompt.Yes, true
	case "n", "no":
		return prompt.No, true
	}
	return prompt.NoDefault, false
}

func yesNoString(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// runChoose picks one option, or any number of them with -multi, and
// prints the choice one per line.
func runChoose(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "choose")
	question := fs.String("q", "Choose an option", "Question to ask")
	def := fs.String("default", "", "Option selected by default")
	multi := fs.Bool("multi", false, "Allow choosing several options")
	if err := fs.Parse(args); err != nil {
		return withExitCode(err, exitUsage)
	}
	if fs.NArg() == 0 {
		return withExitCode(errors.New("choose: no options given"), exitUsage)
	}

	options := make([]widgets.Option[string], fs.NArg())
	defIndex := -1
	for i, arg := range fs.Args() {
		options[i] = widgets.Option[string]{Value: arg, Display: arg}
		if arg == *def {
			defIndex = i
		}
	}
	if *def != "" && defIndex < 0 {
		return withExitCode(fmt.Errorf("choose: default %q is not an option", *def), exitUsage)
	}

	if *multi {
		values, err := prompt.AskMultiple(ctx, a.prompter, *question, options)
		if err != nil {
			return err
		}
		for _, v := range values {
			fmt.Fprintln(a.out, v)
		}
		return nil
	}

	value, err := prompt.AskChoice(ctx, a.prompter, *question, options, defIndex)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, value)
	return nil
}

// runTasks runs demo tasks concurrently, each with a subtask and a
// progress bar. With -fail, the chosen task fails halfway and the others
// are cancelled.
func runTasks(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "tasks")
	n := fs.Int("n", 5, "Number of tasks")
	steps := fs.Int("steps", 20, "Steps per task")
	delay := fs.Duration("delay", 50*time.Millisecond, "Time per step")
	fail := fs.Int("fail", 0, "Number of the task that fails, or 0 for none")
	if err := fs.Parse(args); err != nil {
		return withExitCode(err, exitUsage)
	}
	if *n < 1 || *steps < 1 || *delay < 0 {
		return withExitCode(errors.New("tasks: -n and -steps must be positive and -delay not negative"), exitUsage)
	}
	observability.SetAttributes(ctx, observability.AttrTaskCount.Int(*n))

	a.coord.Heading("Running %d tasks", *n)
	g, gctx := errgroup.WithContext(ctx)
	for i := 1; i <= *n; i++ {
		name := fmt.Sprintf("task %d", i)
		task := a.coord.Task(name, progress.WithPriority(*n-i))
		g.Go(func() error {
			return task.Run(func(t *progress.Task) error {
				t.Subtask("prepare").Done()
				for step := range t.Iter(*steps) {
					t.Comment(fmt.Sprintf("step %d", step+1))
					if i == *fail && step == *steps/2 {
						return fmt.Errorf("%s failed at step %d", name, step+1)
					}
					select {
					case <-gctx.Done():
						return gctx.Err()
					case <-time.After(*delay):
					}
				}
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	a.coord.Success("All %d tasks finished", *n)
	return nil
}
