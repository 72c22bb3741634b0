/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package rules

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	perrors "github.com/davejbarnes/pyngctl/pkg/errors"
	"github.com/davejbarnes/pyngctl/pkg/issue"
	"github.com/davejbarnes/pyngctl/pkg/schema"
)

// Values is the read-only view of an accepted set that rules resolve
// against.
type Values interface {
	// First returns the first resolved value of a switch.
	First(name string) (string, bool)
	// Switches returns the present switches in acceptance order.
	Switches() []string
}

// Evaluator checks relational rules declared in a schema. Rules are parsed
// once by NewEvaluator; Evaluate is safe for concurrent use.
type Evaluator struct {
	schema *schema.Schema
	rules  map[string][]Expression
	logger *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger used for evaluation details.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEvaluator parses the rules of every switch in s.
func NewEvaluator(s *schema.Schema, opts ...Option) (*Evaluator, error) {
	if s == nil {
		return nil, fmt.Errorf("schema cannot be nil")
	}

	e := &Evaluator{
		schema: s,
		rules:  make(map[string][]Expression),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, p := range s.Parameters() {
		for _, raw := range p.Rules {
			expr, err := ParseExpression(raw)
			if err != nil {
				return nil, perrors.WrapWithContext(perrors.ErrCodeInvalidSchema,
					"invalid rule", err, map[string]any{"switch": p.Name, "rule": raw})
			}
			e.rules[p.Name] = append(e.rules[p.Name], expr)
		}
	}

	return e, nil
}

// Evaluate runs every rule of every present switch whose type carries rules.
// Rules that cannot be resolved are skipped and reported as
// unresolved_rule_reference; they make the outcome partial, never failed.
func (e *Evaluator) Evaluate(ctx context.Context, values Values) *Outcome {
	start := time.Now()
	out := &Outcome{Results: []Result{}}

	for _, name := range values.Switches() {
		spec, ok := e.schema.Lookup(name)
		if !ok || !spec.Type.HasRules() {
			continue
		}
		for _, expr := range e.rules[name] {
			r, iss := e.evaluate(spec, expr, values)
			out.add(r)
			if iss != nil {
				out.Issues = append(out.Issues, *iss)
			}
			ruleResultsTotal.WithLabelValues(string(r.Status)).Inc()
			e.logger.DebugContext(ctx, "rule evaluated",
				"switch", name,
				"rule", expr.String(),
				"status", r.Status,
				"actual", r.Actual,
				"operand", r.Operand)
		}
	}

	out.Summary.Total = len(out.Results)
	out.Summary.Duration = time.Since(start)
	switch {
	case out.Summary.Failed > 0:
		out.Summary.Status = SummaryFail
	case out.Summary.Skipped > 0:
		out.Summary.Status = SummaryPartial
	default:
		out.Summary.Status = SummaryPass
	}
	ruleEvaluationDuration.Observe(out.Summary.Duration.Seconds())

	return out
}

func (e *Evaluator) evaluate(spec *schema.ParameterSpec, expr Expression, values Values) (Result, *issue.Issue) {
	r := Result{Switch: spec.Name, Rule: expr.String()}
	if expr.Vacuous() {
		r.Status = StatusPassed
		return r, nil
	}

	skip := func(msg string) (Result, *issue.Issue) {
		r.Status = StatusSkipped
		r.Message = msg
		return r, &issue.Issue{
			Code:    issue.CodeUnresolvedRuleReference,
			Switch:  spec.Name,
			Value:   r.Actual,
			Rule:    r.Rule,
			Message: msg,
		}
	}

	actual, ok := values.First(spec.Name)
	if !ok {
		return skip(fmt.Sprintf("%s rule %q: %s has no value", spec.Name, r.Rule, spec.Name))
	}
	r.Actual = actual
	lhs, err := strconv.ParseFloat(actual, 64)
	if err != nil {
		return skip(fmt.Sprintf("%s rule %q: value %q is not numeric", spec.Name, r.Rule, actual))
	}

	rhs, operand, label, msg := e.resolve(expr.Operand, values)
	if msg != "" {
		return skip(fmt.Sprintf("%s rule %q: %s", spec.Name, r.Rule, msg))
	}
	r.Operand = operand

	passed, err := expr.Operator.Compare(lhs, rhs)
	if err != nil {
		return skip(fmt.Sprintf("%s rule %q: %v", spec.Name, r.Rule, err))
	}
	if passed {
		r.Status = StatusPassed
		return r, nil
	}

	r.Status = StatusFailed
	r.Message = fmt.Sprintf("%s (%s) must be %s %s, got %s", spec.Name, spec.Description, expr.Operator, label, actual)
	return r, &issue.Issue{
		Code:    issue.CodeRuleFailed,
		Switch:  spec.Name,
		Value:   actual,
		Rule:    r.Rule,
		Message: r.Message,
	}
}

// resolve turns an operand into a number. A declared switch name is a
// reference to that switch's first value; anything else must be a numeric
// literal. A non-empty msg means the operand is unresolved.
func (e *Evaluator) resolve(operand string, values Values) (num float64, resolved, label, msg string) {
	if ref, ok := e.schema.Lookup(operand); ok {
		v, present := values.First(operand)
		if !present {
			return 0, "", "", fmt.Sprintf("referenced switch %s has no value", operand)
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, "", "", fmt.Sprintf("referenced switch %s value %q is not numeric", operand, v)
		}
		return n, v, fmt.Sprintf("%s (%s, %s)", operand, ref.Description, v), ""
	}

	n, err := strconv.ParseFloat(operand, 64)
	if err != nil {
		return 0, "", "", fmt.Sprintf("operand %q is neither a declared switch nor a number", operand)
	}
	return n, operand, operand, ""
}
