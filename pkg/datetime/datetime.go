/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package datetime converts free-form date strings into epoch seconds.
//
// The conversion itself is delegated: the production backend shells out to
// date(1), which understands relative forms such as "tomorrow 9am" or
// "next friday". Callers depend only on the Normalizer interface so tests can
// substitute a fake without spawning processes.
package datetime

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/davejbarnes/pyngctl/pkg/defaults"
)

// ErrUnparseable is returned when a string cannot be turned into a timestamp.
var ErrUnparseable = errors.New("unparseable date")

// Normalizer turns a date string into an absolute epoch timestamp in seconds.
type Normalizer interface {
	Normalize(ctx context.Context, value string) (int64, error)
}

// NormalizerFunc adapts a function to the Normalizer interface.
type NormalizerFunc func(ctx context.Context, value string) (int64, error)

// Normalize calls f.
func (f NormalizerFunc) Normalize(ctx context.Context, value string) (int64, error) {
	return f(ctx, value)
}

// Command normalizes dates by running `date --date=VALUE +%s`.
type Command struct {
	// Path is the date binary. Defaults to defaults.DateCommand.
	Path string
	// Timeout bounds each invocation. Zero means defaults.DateCommandTimeout.
	Timeout time.Duration
	// Env, when set, replaces the child environment (e.g. to pin TZ).
	Env []string
}

// CommandOption configures a Command.
type CommandOption func(*Command)

// WithPath sets the date binary.
func WithPath(path string) CommandOption {
	return func(c *Command) {
		c.Path = path
	}
}

// WithTimeout sets the per-invocation timeout.
func WithTimeout(d time.Duration) CommandOption {
	return func(c *Command) {
		c.Timeout = d
	}
}

// WithEnv sets the child environment.
func WithEnv(env ...string) CommandOption {
	return func(c *Command) {
		c.Env = env
	}
}

// NewCommand creates a date(1) backed Normalizer.
func NewCommand(opts ...CommandOption) *Command {
	c := &Command{
		Path:    defaults.DateCommand,
		Timeout: defaults.DateCommandTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Normalize implements Normalizer.
func (c *Command) Normalize(ctx context.Context, value string) (int64, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaults.DateCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.Path, "--date="+value, "+%s")
	if c.Env != nil {
		cmd.Env = c.Env
	}
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return 0, fmt.Errorf("%w: %q: %s", ErrUnparseable, value, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return 0, fmt.Errorf("failed to run %s: %w", c.Path, err)
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: unexpected output %q", ErrUnparseable, value, out)
	}
	return ts, nil
}
