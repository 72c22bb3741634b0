/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package api serves argument validation over HTTP.
//
// POST /v1/validate takes the arguments of one invocation and returns the
// validation outcome; GET /v1/schema returns the normalized schema. No
// monitoring command is ever issued through the API.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/davejbarnes/pyngctl/pkg/server"
	"github.com/davejbarnes/pyngctl/pkg/validator"
)

const (
	name           = "pyngctl-api-server"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/davejbarnes/pyngctl/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Routes returns the API handlers for engine.
func Routes(engine *validator.Engine) map[string]http.HandlerFunc {
	h := NewHandler(engine)
	return map[string]http.HandlerFunc{
		"/v1/validate": h.HandleValidate,
		"/v1/schema":   h.HandleSchema,
	}
}

// Serve starts the API server and blocks until ctx is cancelled or the
// process is signalled.
func Serve(ctx context.Context, engine *validator.Engine, cfg *server.Config) error {
	slog.InfoContext(ctx, "starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithConfig(cfg),
		server.WithHandler(Routes(engine)),
	)

	if err := s.Run(ctx); err != nil {
		slog.ErrorContext(ctx, "server exited with error", "error", err)
		return err
	}

	return nil
}
