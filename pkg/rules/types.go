/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package rules

import (
	"time"

	"github.com/davejbarnes/pyngctl/pkg/issue"
)

// Status is the result of evaluating one rule.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// SummaryStatus is the overall result of a rule run.
type SummaryStatus string

const (
	SummaryPass    SummaryStatus = "pass"
	SummaryFail    SummaryStatus = "fail"
	SummaryPartial SummaryStatus = "partial"
)

// Result records the evaluation of a single rule.
type Result struct {
	Switch string `json:"switch" yaml:"switch"`
	Rule   string `json:"rule" yaml:"rule"`
	Status Status `json:"status" yaml:"status"`

	// Actual is the resolved value of the switch declaring the rule.
	Actual string `json:"actual,omitempty" yaml:"actual,omitempty"`

	// Operand is the resolved right hand side.
	Operand string `json:"operand,omitempty" yaml:"operand,omitempty"`

	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Summary aggregates rule results.
type Summary struct {
	Total    int           `json:"total" yaml:"total"`
	Passed   int           `json:"passed" yaml:"passed"`
	Failed   int           `json:"failed" yaml:"failed"`
	Skipped  int           `json:"skipped" yaml:"skipped"`
	Status   SummaryStatus `json:"status" yaml:"status"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Outcome is the result of evaluating every rule of an accepted set.
type Outcome struct {
	Results []Result     `json:"results" yaml:"results"`
	Summary Summary      `json:"summary" yaml:"summary"`
	Issues  issue.Issues `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// Passed is the conjunction of every evaluated rule. Skipped rules do not
// count against it.
func (o *Outcome) Passed() bool {
	return o.Summary.Failed == 0
}

// Partial reports a passing run in which at least one rule could not be
// evaluated.
func (o *Outcome) Partial() bool {
	return o.Passed() && o.Summary.Skipped > 0
}

// Errors groups the rule diagnostics per switch.
func (o *Outcome) Errors() map[string][]string {
	return o.Issues.BySwitch()
}

func (o *Outcome) add(r Result) {
	o.Results = append(o.Results, r)
	switch r.Status {
	case StatusPassed:
		o.Summary.Passed++
	case StatusFailed:
		o.Summary.Failed++
	case StatusSkipped:
		o.Summary.Skipped++
	}
}
