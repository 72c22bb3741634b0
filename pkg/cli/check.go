/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"
)

func (a *app) checkCmd() *cli.Command {
	return &cli.Command{
		Name:            "check",
		Usage:           "Validate the arguments and print the outcome without sending anything",
		ArgsUsage:       "SWITCH[=VALUE]...",
		SkipFlagParsing: true,
		Description: `Runs the same validation and rule phases as run and writes the outcome,
accepted values and diagnostics in the selected format. Exits 1 when the
arguments would be rejected.

# Examples

  pyngctl --format json check -h=web01 -c="patching" -D=2
  pyngctl -o outcome.yaml check ack -h=db01 -c="on it"`,
		Action: a.checkAction,
	}
}

func (a *app) checkAction(ctx context.Context, cmd *cli.Command) error {
	engine, err := a.newEngine(cmd)
	if err != nil {
		return err
	}

	out := engine.Validate(ctx, cmd.Args().Slice())
	slog.Debug("validation complete", "result", out.Result(), "issues", len(out.Issues))

	w, closeFn, err := a.outputWriter(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := w.Serialize(ctx, out); err != nil {
		return err
	}
	if !out.Proceed() {
		return cli.Exit("", ExitFailure)
	}
	return nil
}
