/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/davejbarnes/pyngctl/pkg/defaults"
	"github.com/davejbarnes/pyngctl/pkg/dispatch"
	"github.com/davejbarnes/pyngctl/pkg/livestatus"
	"github.com/davejbarnes/pyngctl/pkg/serializer"
	"github.com/davejbarnes/pyngctl/pkg/validator"
)

// quietSwitch suppresses everything but failures.
const quietSwitch = "-q"

// livestatusFlags are global because run takes its arguments unparsed.
func livestatusFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "socket",
			Value:   defaults.LivestatusSocket,
			Usage:   "Livestatus unix socket",
			Sources: cli.EnvVars("PYNGCTL_LIVESTATUS_SOCKET"),
		},
		&cli.StringFlag{
			Name:    "command-pipe",
			Value:   defaults.CommandPipe,
			Usage:   "Nagios external command file",
			Sources: cli.EnvVars("PYNGCTL_COMMAND_PIPE"),
		},
		&cli.StringFlag{
			Name:    "user",
			Usage:   "author recorded on downtimes and acknowledgements (default: current user)",
			Sources: cli.EnvVars("PYNGCTL_USER"),
		},
		&cli.BoolFlag{
			Name:    "test-mode",
			Usage:   "log commands instead of sending them",
			Sources: cli.EnvVars("PYNGCTL_TEST_MODE"),
		},
		&cli.IntFlag{
			Name:  "retries",
			Value: defaults.CommandRetries,
			Usage: "times an unconfirmed command is re-issued",
		},
		&cli.IntFlag{
			Name:  "confirm-retries",
			Value: defaults.ConfirmRetries,
			Usage: "confirmation polls after each command attempt",
		},
		&cli.DurationFlag{
			Name:  "confirm-interval",
			Value: defaults.ConfirmInterval,
			Usage: "minimum spacing between confirmation polls",
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Value: defaults.DispatchConcurrency,
			Usage: "commands in flight at once",
		},
	}
}

// livestatusConfig builds the client configuration from the global flags.
func livestatusConfig(cmd *cli.Command) livestatus.Config {
	cfg := livestatus.DefaultConfig()
	cfg.Socket = cmd.String("socket")
	cfg.CommandPipe = cmd.String("command-pipe")
	if u := cmd.String("user"); u != "" {
		cfg.User = u
	}
	cfg.TestMode = cmd.Bool("test-mode")
	cfg.CommandRetries = cmd.Int("retries")
	cfg.ConfirmRetries = cmd.Int("confirm-retries")
	cfg.ConfirmInterval = cmd.Duration("confirm-interval")
	return cfg
}

func newAuditor() livestatus.Auditor {
	if j := livestatus.NewJournalAuditor(name); j != nil {
		return j
	}
	return &livestatus.LogAuditor{Logger: slog.Default()}
}

func (a *app) runCmd() *cli.Command {
	return &cli.Command{
		Name:            "run",
		Usage:           "Validate the arguments and send the resulting commands",
		ArgsUsage:       "SWITCH[=VALUE]...",
		SkipFlagParsing: true,
		Description: `Validates the arguments against the parameter schema and, when they are
accepted, sends one external command per host (or per host and service) to
Nagios, confirming each through Livestatus.

Nothing is sent when the arguments are invalid or a rule fails. Rules that
cannot be evaluated are reported as warnings.

# Examples

Schedule two hours of downtime for two hosts:
  pyngctl run -h=web01,web02 -c="kernel update" -D=2

Acknowledge a service problem, sticky:
  pyngctl run ack -h=db01 -s=MySQL -c="looking into it" -k

Disable checks on web01..web08, even hosts only:
  pyngctl run dc -h=web -x=1 -y=8 -p=even`,
		Action: a.runAction,
	}
}

func (a *app) runAction(ctx context.Context, cmd *cli.Command) error {
	engine, err := a.newEngine(cmd)
	if err != nil {
		return err
	}

	out := engine.Validate(ctx, cmd.Args().Slice())
	quiet := out.Accepted.Has(quietSwitch)
	if err := a.gate(out, quiet); err != nil {
		return err
	}

	req, err := dispatch.NewRequest(out)
	if err != nil {
		return err
	}

	cfg := livestatusConfig(cmd)
	protocol := a.protocol
	if protocol == nil {
		protocol = livestatus.New(cfg,
			livestatus.WithAuditor(newAuditor()),
			livestatus.WithLogger(slog.Default()))
	}
	if cfg.TestMode {
		slog.InfoContext(ctx, "test mode, commands are logged and not sent")
	}

	d := dispatch.New(protocol,
		dispatch.WithUser(cfg.User),
		dispatch.WithRetries(cfg.CommandRetries),
		dispatch.WithConcurrency(cmd.Int("concurrency")),
		dispatch.WithLogger(slog.Default()))

	report, err := d.Dispatch(ctx, req)
	if err != nil {
		return err
	}

	if err := a.printReport(ctx, cmd, report, quiet); err != nil {
		return err
	}
	if !report.Succeeded() {
		return cli.Exit(fmt.Sprintf("%d of %d commands failed", report.Summary.Failed, report.Summary.Total), ExitFailure)
	}
	return nil
}

// gate prints the diagnostics of a rejected outcome and returns an exit
// error. Partial rule results only warn.
func (a *app) gate(out *validator.Outcome, quiet bool) error {
	if !out.Valid {
		fmt.Fprintln(a.stderr, "Invalid parameters specified:")
		for _, msg := range out.SortedErrors() {
			fmt.Fprintf(a.stderr, "\t%s\n", msg)
		}
		return cli.Exit("", ExitFailure)
	}

	if !out.RulesPassed() {
		fmt.Fprintln(a.stderr, "Rule checks failed:")
		printGrouped(a.stderr, out.RuleErrors())
		return cli.Exit("", ExitFailure)
	}

	if out.RulePartial() && !quiet {
		for _, msg := range out.Rules.Issues.Sorted() {
			fmt.Fprintf(a.stderr, "warning: %s\n", msg)
		}
	}
	return nil
}

func printGrouped(w io.Writer, groups map[string][]string) {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		msgs := slices.Clone(groups[k])
		slices.Sort(msgs)
		for _, m := range msgs {
			fmt.Fprintf(w, "\t%s\n", m)
		}
	}
}

// printReport writes the report in --format when given, otherwise as a
// status line per target. Quiet output keeps only failures.
func (a *app) printReport(ctx context.Context, cmd *cli.Command, report *dispatch.Report, quiet bool) error {
	if cmd.IsSet("format") {
		format, err := parseOutputFormat(cmd)
		if err != nil {
			return err
		}
		return serializer.NewWriter(format, a.stdout).Serialize(ctx, report)
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	for _, r := range report.Results {
		if quiet && r.Succeeded {
			continue
		}
		status := "OK"
		if !r.Succeeded {
			status = "FAILED"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", status, r.Target, r.Command, r.Detail)
	}
	return tw.Flush()
}
