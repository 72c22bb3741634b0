/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func (a *app) schemaCmd() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Inspect the parameter schema",
		Commands: []*cli.Command{
			{
				Name:  "describe",
				Usage: "Describe every switch",
				Action: func(_ context.Context, cmd *cli.Command) error {
					s, err := loadSchema(cmd)
					if err != nil {
						return err
					}
					fmt.Fprintln(a.stdout, "Switches:")
					return s.WriteHelp(a.stdout)
				},
			},
			{
				Name:  "dump",
				Usage: "Print the normalized schema with defaults filled in",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					s, err := loadSchema(cmd)
					if err != nil {
						return err
					}
					w, closeFn, err := a.outputWriter(cmd)
					if err != nil {
						return err
					}
					defer closeFn()
					return w.Serialize(ctx, s.Document())
				},
			},
		},
	}
}
