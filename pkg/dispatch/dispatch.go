/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package dispatch turns an accepted invocation into monitoring commands
// and issues them.
//
// A Request is built from a validation outcome that allows the invocation
// to proceed. Planning resolves hostgroups to hosts and builds one command
// per host, or per host and service when services were given. Commands run
// concurrently, bounded by the configured limit; every command is attempted
// and its result recorded, so one failing target does not stop the rest.
//
//	req, err := dispatch.NewRequest(outcome)
//	report, err := dispatch.New(client).Dispatch(ctx, req)
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/davejbarnes/pyngctl/pkg/defaults"
	perrors "github.com/davejbarnes/pyngctl/pkg/errors"
	"github.com/davejbarnes/pyngctl/pkg/hosts"
	"github.com/davejbarnes/pyngctl/pkg/livestatus"
)

// Protocol is the monitoring-system client used by the dispatcher.
type Protocol interface {
	// Execute writes command and polls confirmQuery until its reply matches
	// expectedPattern, re-issuing the command up to maxRetries times.
	Execute(ctx context.Context, command string, confirmQuery []string, expectedPattern string, maxRetries int) (bool, string)

	// HostsInGroups resolves hostgroups to their member hosts.
	HostsInGroups(ctx context.Context, groups []string) ([]string, error)
}

// Dispatcher issues the commands of a Request.
type Dispatcher struct {
	protocol    Protocol
	user        string
	retries     int
	concurrency int
	logger      *slog.Logger
}

// Option is a functional option for configuring Dispatcher instances.
type Option func(*Dispatcher)

// WithUser sets the author recorded on downtimes and acknowledgements.
func WithUser(user string) Option {
	return func(d *Dispatcher) {
		d.user = user
	}
}

// WithRetries sets how many times an unconfirmed command is re-issued.
func WithRetries(n int) Option {
	return func(d *Dispatcher) {
		if n >= 0 {
			d.retries = n
		}
	}
}

// WithConcurrency caps the number of commands in flight.
func WithConcurrency(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a Dispatcher over p.
func New(p Protocol, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		protocol:    p,
		retries:     defaults.CommandRetries,
		concurrency: defaults.DispatchConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Targets returns the explicit hosts followed by the members of the
// requested hostgroups, without duplicates.
func (d *Dispatcher) Targets(ctx context.Context, req *Request) ([]string, error) {
	grouped, err := d.protocol.HostsInGroups(ctx, req.Groups)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeUnavailable, "failed to resolve hostgroups", err)
	}
	targets := hosts.Merge(req.Hosts, grouped)
	if len(targets) == 0 {
		return nil, perrors.New(perrors.ErrCodeNotFound, "no hosts matched the request")
	}
	return targets, nil
}

// Plan resolves the targets of req and builds its commands.
func (d *Dispatcher) Plan(ctx context.Context, req *Request) ([]livestatus.Command, error) {
	targets, err := d.Targets(ctx, req)
	if err != nil {
		return nil, err
	}
	return Commands(req, targets, d.user)
}

// Commands builds the commands for req against targets, host-major.
func Commands(req *Request, targets []string, user string) ([]livestatus.Command, error) {
	build, err := builder(req, user)
	if err != nil {
		return nil, err
	}
	var out []livestatus.Command
	for _, h := range targets {
		if len(req.Services) == 0 {
			out = append(out, build(h, ""))
			continue
		}
		for _, s := range req.Services {
			out = append(out, build(h, s))
		}
	}
	return out, nil
}

func builder(req *Request, user string) (func(host, service string) livestatus.Command, error) {
	toggle := func(t livestatus.Toggle) func(string, string) livestatus.Command {
		return func(h, s string) livestatus.Command {
			if s == "" {
				return t.Host(h)
			}
			return t.Service(h, s)
		}
	}

	switch req.Mode {
	case ModeDowntime:
		return func(h, s string) livestatus.Command {
			if s == "" {
				return livestatus.HostDowntime(h, req.Start, req.End, user, req.Comment)
			}
			return livestatus.ServiceDowntime(h, s, req.Start, req.End, user, req.Comment)
		}, nil
	case ModeAcknowledge:
		return func(h, s string) livestatus.Command {
			if s == "" {
				return livestatus.HostAcknowledgement(h, req.Sticky, req.Notify, user, req.Comment)
			}
			return livestatus.ServiceAcknowledgement(h, s, req.Sticky, req.Notify, user, req.Comment)
		}, nil
	case ModeDisableNotifications:
		return toggle(livestatus.DisableNotifications), nil
	case ModeEnableNotifications:
		return toggle(livestatus.EnableNotifications), nil
	case ModeDisableChecks:
		return toggle(livestatus.DisableChecks), nil
	case ModeEnableChecks:
		return toggle(livestatus.EnableChecks), nil
	default:
		return nil, perrors.New(perrors.ErrCodeInvalidRequest, fmt.Sprintf("unknown mode %q", req.Mode))
	}
}

// Dispatch plans req and runs its commands.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) (*Report, error) {
	cmds, err := d.Plan(ctx, req)
	if err != nil {
		return nil, err
	}
	return d.Run(ctx, req.Mode, cmds), nil
}

// Run issues every command, at most the configured number at a time, and
// reports each result in command order.
func (d *Dispatcher) Run(ctx context.Context, mode Mode, cmds []livestatus.Command) *Report {
	d.logger.DebugContext(ctx, "dispatching commands",
		slog.String("mode", string(mode)),
		slog.Int("commands", len(cmds)),
		slog.Int("concurrency", d.concurrency))

	start := time.Now()
	defer func() {
		dispatchDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
	}()

	results := make([]Result, len(cmds))

	var g errgroup.Group
	g.SetLimit(d.concurrency)

	for i, cmd := range cmds {
		g.Go(func() error {
			cmdStart := time.Now()
			ok, detail := d.protocol.Execute(ctx, cmd.Line, cmd.Confirm, cmd.Expect, d.retries)
			results[i] = Result{
				Command:   cmd.Name,
				Target:    cmd.Target,
				Succeeded: ok,
				Detail:    detail,
				Duration:  time.Since(cmdStart),
			}
			status := "success"
			if !ok {
				status = "failure"
				d.logger.WarnContext(ctx, "command failed",
					slog.String("command", cmd.Name),
					slog.String("target", cmd.Target),
					slog.String("detail", detail))
			}
			targetsTotal.WithLabelValues(string(mode), status).Inc()
			return nil
		})
	}
	// workers never return an error
	_ = g.Wait()

	report := newReport(mode, d.user, start, results)
	d.logger.DebugContext(ctx, "dispatch complete",
		slog.Int("succeeded", report.Summary.Succeeded),
		slog.Int("failed", report.Summary.Failed))
	return report
}
