/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package livestatus talks to a Nagios instance through MK Livestatus and the
// external command pipe.
//
// Commands are written as "COMMAND [timestamp] LINE" to the pipe. Because the
// pipe gives no feedback, each command carries a Livestatus query that is
// polled until its reply matches an expected pattern:
//
//	c := livestatus.New(livestatus.DefaultConfig())
//	ok, detail := c.Execute(ctx, cmd.Line, cmd.Confirm, cmd.Expect, 3)
//
// A command without a confirm query succeeds immediately with detail
// DetailUnconfirmed. A command whose confirmation never matches is re-issued
// up to maxRetries times and then fails with DetailFailed.
package livestatus

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/davejbarnes/pyngctl/pkg/hosts"
)

// Details returned by Execute when there is no confirm reply to report.
const (
	DetailUnconfirmed = "command_unconfirmed"
	DetailFailed      = "command_failed"
	DetailTestMode    = "test_mode"
)

// Client issues commands and queries against one monitoring instance.
type Client struct {
	cfg     Config
	querier Querier
	writer  CommandWriter
	auditor Auditor
	logger  *slog.Logger
	now     func() time.Time
}

// Option is a functional option for configuring Client instances.
type Option func(*Client)

// WithQuerier replaces the unix socket querier.
func WithQuerier(q Querier) Option {
	return func(c *Client) {
		c.querier = q
	}
}

// WithCommandWriter replaces the command pipe writer.
func WithCommandWriter(w CommandWriter) Option {
	return func(c *Client) {
		c.writer = w
	}
}

// WithAuditor records every issued command.
func WithAuditor(a Auditor) Option {
	return func(c *Client) {
		c.auditor = a
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock sets the time source for command timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// New creates a Client.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:    cfg,
		logger: slog.Default(),
		now:    time.Now,
		querier: &SocketQuerier{
			Path:        cfg.Socket,
			DialTimeout: cfg.DialTimeout,
			ReadTimeout: cfg.ReadTimeout,
		},
		writer: &PipeWriter{Path: cfg.CommandPipe},
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the client configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Query runs raw Livestatus statements.
func (c *Client) Query(ctx context.Context, statements []string) (string, error) {
	return c.querier.Query(ctx, statements)
}

// Execute writes command to the pipe and polls confirmQuery until the reply
// matches expectedPattern at its start. It returns whether the command was
// confirmed (or could not be confirmed) and a detail: the confirm reply,
// DetailUnconfirmed, DetailTestMode or DetailFailed.
func (c *Client) Execute(ctx context.Context, command string, confirmQuery []string, expectedPattern string, maxRetries int) (bool, string) {
	name, _, _ := strings.Cut(command, ";")
	line := fmt.Sprintf("COMMAND [%d] %s\n", c.now().Unix(), command)

	if c.cfg.TestMode {
		c.logger.InfoContext(ctx, "test mode, command not sent", "command", strings.TrimSpace(line))
		c.audit(ctx, name, command, 0)
		commandsTotal.WithLabelValues(name, DetailTestMode).Inc()
		return true, DetailTestMode
	}

	expect, err := regexp.Compile("^(?:" + expectedPattern + ")")
	if err != nil {
		c.logger.ErrorContext(ctx, "invalid confirm pattern", "pattern", expectedPattern, "error", err)
		commandsTotal.WithLabelValues(name, "failed").Inc()
		return false, DetailFailed
	}

	pace := c.pacer()
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			break
		}
		if err := c.writer.WriteCommand(ctx, line); err != nil {
			c.logger.WarnContext(ctx, "failed to write command", "command", name, "attempt", attempt, "error", err)
			continue
		}
		c.audit(ctx, name, command, attempt)

		if len(confirmQuery) == 0 {
			commandsTotal.WithLabelValues(name, "unconfirmed").Inc()
			return true, DetailUnconfirmed
		}

		if reply, ok := c.confirm(ctx, pace, confirmQuery, expect); ok {
			commandsTotal.WithLabelValues(name, "confirmed").Inc()
			c.logger.DebugContext(ctx, "command confirmed", "command", name, "attempt", attempt, "reply", reply)
			return true, reply
		}
		c.logger.DebugContext(ctx, "command not confirmed", "command", name, "attempt", attempt)
	}

	commandsTotal.WithLabelValues(name, "failed").Inc()
	return false, DetailFailed
}

// ExecuteCommand runs a built Command with the configured retry count.
func (c *Client) ExecuteCommand(ctx context.Context, cmd Command) (bool, string) {
	return c.Execute(ctx, cmd.Line, cmd.Confirm, cmd.Expect, c.cfg.CommandRetries)
}

// pacer spaces the confirm polls of one Execute call. Each call gets its
// own, so concurrent commands poll independently.
func (c *Client) pacer() *rate.Limiter {
	limit := rate.Inf
	if c.cfg.ConfirmInterval > 0 {
		limit = rate.Every(c.cfg.ConfirmInterval)
	}
	return rate.NewLimiter(limit, 1)
}

// confirm polls the confirm query up to ConfirmRetries+1 times. A reply
// confirms when the pattern matches a non-empty prefix of it.
func (c *Client) confirm(ctx context.Context, pace *rate.Limiter, query []string, expect *regexp.Regexp) (string, bool) {
	for poll := 0; poll <= c.cfg.ConfirmRetries; poll++ {
		if err := pace.Wait(ctx); err != nil {
			return "", false
		}
		confirmPollsTotal.Inc()

		reply, err := c.querier.Query(ctx, query)
		if err != nil {
			c.logger.WarnContext(ctx, "confirm query failed", "poll", poll, "error", err)
			continue
		}
		reply = strings.TrimSpace(reply)
		if loc := expect.FindStringIndex(reply); loc != nil && loc[1] > 0 {
			return reply, true
		}
	}
	return "", false
}

func (c *Client) audit(ctx context.Context, name, command string, attempt int) {
	if c.auditor == nil {
		return
	}
	target := ""
	if _, rest, ok := strings.Cut(command, ";"); ok {
		parts := strings.SplitN(rest, ";", 3)
		target = parts[0]
		if strings.Contains(name, "_SVC_") && len(parts) > 1 {
			target += ";" + parts[1]
		}
	}
	c.auditor.Audit(ctx, AuditEntry{
		Command:  name,
		Target:   target,
		Line:     command,
		User:     c.cfg.User,
		Attempt:  attempt,
		TestMode: c.cfg.TestMode,
	})
}

// HostsInGroups returns the hosts belonging to any of the hostgroups, in
// reply order without duplicates.
func (c *Client) HostsInGroups(ctx context.Context, groups []string) ([]string, error) {
	if len(groups) == 0 {
		return nil, nil
	}
	reply, err := c.querier.Query(ctx, HostsByGroupQuery(groups))
	if err != nil {
		return nil, err
	}
	fields := strings.FieldsFunc(reply, func(r rune) bool {
		return r == '\n' || r == ';'
	})
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return hosts.Merge(fields), nil
}
