/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"

	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"

	"github.com/davejbarnes/pyngctl/pkg/api"
	"github.com/davejbarnes/pyngctl/pkg/defaults"
	"github.com/davejbarnes/pyngctl/pkg/server"
)

func (a *app) serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the validation API over HTTP",
		Description: `Starts an HTTP server exposing POST /v1/validate and GET /v1/schema along
with /health, /ready and /metrics. The API validates only; it never sends
commands to the monitoring system.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "address",
				Usage: "listen address (default: all interfaces)",
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   defaults.ServerPort,
				Usage:   "listen port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.Float64Flag{
				Name:  "rate-limit",
				Value: defaults.ServerRateLimit,
				Usage: "requests per second across all clients",
			},
			&cli.IntFlag{
				Name:  "rate-limit-burst",
				Value: defaults.ServerRateLimitBurst,
				Usage: "requests allowed in a burst",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			engine, err := a.newEngine(cmd)
			if err != nil {
				return err
			}

			cfg := server.DefaultConfig()
			cfg.Address = cmd.String("address")
			cfg.Port = cmd.Int("port")
			cfg.RateLimit = rate.Limit(cmd.Float64("rate-limit"))
			cfg.RateLimitBurst = cmd.Int("rate-limit-burst")
			if cmd.Bool("debug") {
				cfg.LogLevel = "debug"
			}
			return api.Serve(ctx, engine, cfg)
		},
	}
}
