package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/taminomara/yuio-sub000/pkg/ui/terminal"
)

// Version information - set via ldflags during build
var (
	version = "0.1.0-dev"
	commit  = "unknown"
)

// streams are the process's standard streams and environment. The UI is
// drawn on the error stream so that answers on the output stream can be
// piped.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
	env terminal.Env
}

type globalOptions struct {
	configPath string
	logDir     string
	tracePath  string
	noColor    bool
}

type command struct {
	usage   string
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"showkey": {"showkey", "print decoded key presses until Ctrl+C", runShowkey},
	"ask":     {"ask [-default s] [-placeholder s] [-confirm] question...", "ask a question and print the answer", runAsk},
	"choose":  {"choose [-q question] [-default option] [-multi] option...", "pick from a list and print the choice", runChoose},
	"tasks":   {"tasks [-n count] [-steps n] [-delay d] [-fail i]", "run demo tasks with progress bars", runTasks},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], streams{
		in:  os.Stdin,
		out: os.Stdout,
		err: os.Stderr,
		env: terminal.OSEnv(),
	})
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, s streams) int {
	opts, rest, err := parseGlobalOptions(args, s.err)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return exitUsage
	}
	if len(rest) == 0 {
		printHelp(s.err)
		return exitUsage
	}

	switch rest[0] {
	case "version":
		fmt.Fprintf(s.out, "yuio %s (%s)\n", version, commit)
		return 0
	case "help":
		printHelp(s.out)
		return 0
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(s.err, "Error: unknown command %q\n\n", rest[0])
		printHelp(s.err)
		return exitUsage
	}
	if err := runCommand(ctx, opts, rest[0], cmd, rest[1:], s); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(s.err, "Error: %v\n", err)
		}
		return exitCodeForError(err)
	}
	return 0
}

func parseGlobalOptions(args []string, stderr io.Writer) (globalOptions, []string, error) {
	var opts globalOptions
	fs := flag.NewFlagSet("yuio", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printHelp(stderr) }
	fs.StringVar(&opts.configPath, "config", "", "Path to a config file")
	fs.StringVar(&opts.logDir, "log-dir", "", "Write diagnostic logs to this directory")
	fs.StringVar(&opts.tracePath, "trace", "", "Write OpenTelemetry spans to this file")
	fs.BoolVar(&opts.noColor, "no-color", false, "Disable colors")
	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}
	return opts, fs.Args(), nil
}

func runCommand(ctx context.Context, opts globalOptions, name string, cmd command, args []string, s streams) error {
	ctx, a, err := newApp(ctx, opts, name, s)
	if err != nil {
		return err
	}
	runErr := cmd.run(ctx, a, args)
	if err := a.close(runErr); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage: yuio [-config path] [-log-dir dir] [-trace file] [-no-color] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %s\n", name, commands[name].summary)
		fmt.Fprintf(w, "  %-10s   yuio %s\n", "", commands[name].usage)
	}
	fmt.Fprintf(w, "  %-10s %s\n", "version", "print the version")
}
