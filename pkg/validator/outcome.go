/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package validator

import (
	"github.com/davejbarnes/pyngctl/pkg/issue"
	"github.com/davejbarnes/pyngctl/pkg/rules"
)

// Kind is the kind of a serialized Outcome.
const Kind = "ValidationOutcome"

// Result values reported by Outcome.Result.
const (
	ResultValid        = "valid"
	ResultInvalid      = "invalid"
	ResultRulesFailed  = "rules_failed"
	ResultRulesPartial = "rules_partial"
)

// Outcome is the result of validating one invocation. Callers must check
// Valid before reading Accepted and, when rules ran, RulesPassed before
// acting on it.
type Outcome struct {
	Kind       string         `json:"kind" yaml:"kind"`
	APIVersion string         `json:"apiVersion" yaml:"apiVersion"`
	Accepted   *Accepted      `json:"accepted" yaml:"accepted"`
	Valid      bool           `json:"valid" yaml:"valid"`
	Issues     issue.Issues   `json:"issues" yaml:"issues"`
	Rules      *rules.Outcome `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// Errors returns the diagnostics in the order they were found.
func (o *Outcome) Errors() []string {
	return o.Issues.Messages()
}

// SortedErrors returns the diagnostics sorted for printing.
func (o *Outcome) SortedErrors() []string {
	return o.Issues.Sorted()
}

// RulesEvaluated reports whether the rule phase ran.
func (o *Outcome) RulesEvaluated() bool {
	return o.Rules != nil
}

// RulesPassed is true when no evaluated rule failed. It is true when rules
// did not run.
func (o *Outcome) RulesPassed() bool {
	return o.Rules == nil || o.Rules.Passed()
}

// RulePartial reports passing rules with at least one unresolved reference.
func (o *Outcome) RulePartial() bool {
	return o.Rules != nil && o.Rules.Partial()
}

// RuleErrors groups rule diagnostics per switch.
func (o *Outcome) RuleErrors() map[string][]string {
	if o.Rules == nil {
		return map[string][]string{}
	}
	return o.Rules.Errors()
}

// Proceed reports whether a downstream command may be issued.
func (o *Outcome) Proceed() bool {
	return o.Valid && o.RulesPassed()
}

// Args renders the explicitly supplied switches back into arguments.
func (o *Outcome) Args() []string {
	return o.Accepted.Args()
}

// Result classifies the outcome for metrics and logs.
func (o *Outcome) Result() string {
	switch {
	case !o.Valid:
		return ResultInvalid
	case !o.RulesPassed():
		return ResultRulesFailed
	case o.RulePartial():
		return ResultRulesPartial
	default:
		return ResultValid
	}
}
