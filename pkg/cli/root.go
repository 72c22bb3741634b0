/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/davejbarnes/pyngctl/pkg/datetime"
	"github.com/davejbarnes/pyngctl/pkg/dispatch"
	"github.com/davejbarnes/pyngctl/pkg/logging"
	"github.com/davejbarnes/pyngctl/pkg/serializer"
)

const (
	name           = "pyngctl"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/davejbarnes/pyngctl/pkg/cli.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitCanceled = 2
)

// app carries the process I/O and the collaborators tests replace.
type app struct {
	stdout    io.Writer
	stderr    io.Writer
	logWriter io.Writer

	// normalizer and protocol override the flag-driven defaults when set.
	normalizer datetime.Normalizer
	protocol   dispatch.Protocol
}

type appOption func(*app)

func withOutput(stdout, stderr io.Writer) appOption {
	return func(a *app) {
		a.stdout = stdout
		a.stderr = stderr
	}
}

func withLogWriter(w io.Writer) appOption {
	return func(a *app) {
		a.logWriter = w
	}
}

func withNormalizer(n datetime.Normalizer) appOption {
	return func(a *app) {
		a.normalizer = n
	}
}

func withProtocol(p dispatch.Protocol) appOption {
	return func(a *app) {
		a.protocol = p
	}
}

func newApp(opts ...appOption) *app {
	a := &app{stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Output flags are global so the commands taking raw arguments see them.
var (
	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage:   "output format (yaml, json, table)",
		Sources: cli.EnvVars("PYNGCTL_FORMAT"),
	}

	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
	}
)

func (a *app) rootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Usage:                 "Schedule downtime, acknowledge problems and toggle checks in Nagios",
		EnableShellCompletion: true,
		Writer:                a.stdout,
		ErrWriter:             a.stderr,
		// exit codes are decided by run
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Flags: append([]cli.Flag{
			formatFlag,
			outputFlag,
			&cli.StringFlag{
				Name:    "schema",
				Usage:   "parameter schema file (default: built-in downtime schema)",
				Sources: cli.EnvVars("PYNGCTL_SCHEMA"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "output logs in JSON format",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "write logs to a rotated file instead of stderr",
				Sources: cli.EnvVars("PYNGCTL_LOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "date-backend",
				Value:   dateBackendCommand,
				Usage:   "date conversion backend (command: date(1), builtin: fixed layouts)",
				Sources: cli.EnvVars("PYNGCTL_DATE_BACKEND"),
			},
			&cli.BoolFlag{
				Name:  "no-rules",
				Usage: "skip rule evaluation regardless of the schema settings",
			},
			&cli.StringFlag{
				Name:    "metrics-textfile",
				Usage:   "write Prometheus metrics to this file on exit (node-exporter textfile format)",
				Sources: cli.EnvVars("PYNGCTL_METRICS_TEXTFILE"),
			},
		}, livestatusFlags()...),
		Before: a.before,
		After:  a.after,
		Commands: []*cli.Command{
			a.runCmd(),
			a.checkCmd(),
			a.schemaCmd(),
			a.serveCmd(),
		},
	}
}

func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level := ""
	if cmd.Bool("debug") {
		level = "debug"
	}
	logging.SetDefaultLogger(name, version, logging.Options{
		Level:  level,
		JSON:   cmd.Bool("log-json"),
		File:   cmd.String("log-file"),
		Writer: a.logWriter,
		Attrs:  []any{"invocation_id", uuid.New().String()},
	})
	return ctx, nil
}

func (a *app) after(_ context.Context, cmd *cli.Command) error {
	path := cmd.String("metrics-textfile")
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %q: %w", path, err)
	}
	return nil
}

// run executes the command line and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	err := a.rootCmd().Run(ctx, args)
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		fmt.Fprintln(a.stderr, "canceled")
		return ExitCanceled
	}

	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintln(a.stderr, msg)
		}
		return exitErr.ExitCode()
	}

	fmt.Fprintf(a.stderr, "Error: %v\n", err)
	return ExitFailure
}

// Execute runs the CLI with the process arguments and exits.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := newApp().run(ctx, os.Args)
	stop()
	os.Exit(code)
}
