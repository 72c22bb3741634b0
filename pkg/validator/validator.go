/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package validator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/davejbarnes/pyngctl/pkg/datetime"
	"github.com/davejbarnes/pyngctl/pkg/issue"
	"github.com/davejbarnes/pyngctl/pkg/rules"
	"github.com/davejbarnes/pyngctl/pkg/schema"
)

// Engine validates command-line arguments against a schema. An Engine holds
// no per-invocation state and is safe for concurrent use.
type Engine struct {
	schema      *schema.Schema
	normalizer  datetime.Normalizer
	evaluator   *rules.Evaluator
	logger      *slog.Logger
	dateConvert bool
	enableRules bool
}

// Option is a functional option for configuring Engine instances.
type Option func(*Engine)

// WithNormalizer sets the date normalization backend. Defaults to date(1).
func WithNormalizer(n datetime.Normalizer) Option {
	return func(e *Engine) {
		if n != nil {
			e.normalizer = n
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDateConvert overrides the schema's dateConvert setting.
func WithDateConvert(enabled bool) Option {
	return func(e *Engine) {
		e.dateConvert = enabled
	}
}

// WithRules overrides the schema's enableRules setting.
func WithRules(enabled bool) Option {
	return func(e *Engine) {
		e.enableRules = enabled
	}
}

// New creates an Engine for s. It fails when a rule in s does not parse.
func New(s *schema.Schema, opts ...Option) (*Engine, error) {
	if s == nil {
		return nil, fmt.Errorf("schema cannot be nil")
	}

	e := &Engine{
		schema:      s,
		normalizer:  datetime.NewCommand(),
		logger:      slog.Default(),
		dateConvert: s.Settings.DateConvert,
		enableRules: s.Settings.EnableRules,
	}
	for _, opt := range opts {
		opt(e)
	}

	ev, err := rules.NewEvaluator(s, rules.WithLogger(e.logger))
	if err != nil {
		return nil, err
	}
	e.evaluator = ev

	return e, nil
}

// Schema returns the schema the engine validates against.
func (e *Engine) Schema() *schema.Schema {
	return e.schema
}

// Validate runs the whole pipeline over args (program name excluded). Every
// phase runs regardless of earlier failures; the only short cut is that an
// unknown switch skips the remaining per-token checks for that token. Rules
// are evaluated only when enabled and the arguments are valid.
func (e *Engine) Validate(ctx context.Context, args []string) *Outcome {
	start := time.Now()

	r := &run{
		ctx:      ctx,
		schema:   e.schema,
		dates:    datetime.NewMemo(e.normalizer),
		logger:   e.logger,
		accepted: newAccepted(),
	}

	for _, arg := range args {
		r.token(arg)
	}
	r.exclusivity()
	r.required()
	r.dependencies()
	r.defaults()

	out := &Outcome{
		Kind:       Kind,
		APIVersion: schema.APIVersion,
		Accepted:   r.accepted,
		Valid:      len(r.issues) == 0,
		Issues:     r.issues,
	}
	if out.Issues == nil {
		out.Issues = issue.Issues{}
	}

	if e.dateConvert {
		r.normalizeDates()
	}

	if e.enableRules && out.Valid {
		out.Rules = e.evaluator.Evaluate(ctx, r.accepted)
	}

	validationDuration.Observe(time.Since(start).Seconds())
	outcomesTotal.WithLabelValues(out.Result()).Inc()

	e.logger.DebugContext(ctx, "validation completed",
		"args", len(args),
		"accepted", r.accepted.Len(),
		"issues", len(out.Issues),
		"result", out.Result(),
		"duration", time.Since(start))

	return out
}
