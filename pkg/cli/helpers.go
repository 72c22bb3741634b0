/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/davejbarnes/pyngctl/pkg/datetime"
	"github.com/davejbarnes/pyngctl/pkg/schema"
	"github.com/davejbarnes/pyngctl/pkg/serializer"
	"github.com/davejbarnes/pyngctl/pkg/validator"
)

const (
	dateBackendCommand = "command"
	dateBackendBuiltin = "builtin"
)

// parseOutputFormat extracts and validates the output format from CLI flags.
// Returns the validated format or an error if the format is unknown.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, valid formats are: %s",
			outFormat, strings.Join(serializer.SupportedFormats(), ", "))
	}
	return outFormat, nil
}

// outputWriter opens --output, or the app's stdout when it is unset. The
// format follows the file extension unless --format is given.
func (a *app) outputWriter(cmd *cli.Command) (serializer.Serializer, func(), error) {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return nil, nil, err
	}

	path := cmd.String("output")
	if path == "" || path == serializer.StdoutURI {
		return serializer.NewWriter(format, a.stdout), func() {}, nil
	}
	if !cmd.IsSet("format") {
		format = serializer.FormatFromPath(path)
	}

	w, err := serializer.NewFileWriterOrStdout(format, path)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if c, ok := w.(serializer.Closer); ok {
			if err := c.Close(); err != nil {
				slog.Warn("failed to close output", "path", path, "error", err)
			}
		}
	}
	return w, closeFn, nil
}

// loadSchema returns the --schema document or the built-in one.
func loadSchema(cmd *cli.Command) (*schema.Schema, error) {
	path := cmd.String("schema")
	if path == "" {
		return schema.Default()
	}
	slog.Debug("loading schema", "path", path)
	return schema.LoadFile(path)
}

func (a *app) dateNormalizer(cmd *cli.Command) (datetime.Normalizer, error) {
	if a.normalizer != nil {
		return a.normalizer, nil
	}
	switch backend := cmd.String("date-backend"); backend {
	case dateBackendCommand, "":
		return datetime.NewCommand(), nil
	case dateBackendBuiltin:
		return datetime.NewLayouts(time.Local), nil
	default:
		return nil, fmt.Errorf("unknown date backend %q, valid backends are: %s, %s",
			backend, dateBackendCommand, dateBackendBuiltin)
	}
}

// newEngine builds the validation engine from the global flags.
func (a *app) newEngine(cmd *cli.Command) (*validator.Engine, error) {
	s, err := loadSchema(cmd)
	if err != nil {
		return nil, err
	}
	n, err := a.dateNormalizer(cmd)
	if err != nil {
		return nil, err
	}

	opts := []validator.Option{validator.WithNormalizer(n)}
	if cmd.Bool("no-rules") {
		opts = append(opts, validator.WithRules(false))
	}
	return validator.New(s, opts...)
}
