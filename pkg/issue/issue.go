/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package issue defines the diagnostics produced while validating an
// invocation. Issues are data: every validation phase appends to a shared
// list and keeps going, so a single run reports everything wrong at once.
package issue

import (
	"fmt"
	"slices"
	"strings"
)

// Code is a stable, machine-readable diagnostic category.
type Code string

const (
	CodeUnknownSwitch           Code = "unknown_switch"
	CodePatternNoMatch          Code = "pattern_no_match"
	CodePatternPartialMatch     Code = "pattern_partial_match"
	CodeTypeMismatch            Code = "type_mismatch"
	CodeDuplicateUnique         Code = "duplicate_unique"
	CodeExclusivityViolation    Code = "exclusivity_violation"
	CodeMissingRequired         Code = "missing_required"
	CodeUnmetDependency         Code = "unmet_dependency"
	CodeUnresolvedRuleReference Code = "unresolved_rule_reference"
	CodeRuleFailed              Code = "rule_failed"
)

// Codes lists every code in pipeline order.
var Codes = []Code{
	CodeUnknownSwitch,
	CodePatternNoMatch,
	CodePatternPartialMatch,
	CodeTypeMismatch,
	CodeDuplicateUnique,
	CodeExclusivityViolation,
	CodeMissingRequired,
	CodeUnmetDependency,
	CodeUnresolvedRuleReference,
	CodeRuleFailed,
}

// Issue is a single diagnostic.
type Issue struct {
	Code    Code   `json:"code" yaml:"code"`
	Switch  string `json:"switch" yaml:"switch"`
	Value   string `json:"value,omitempty" yaml:"value,omitempty"`
	Message string `json:"message" yaml:"message"`

	// Related names the other switches involved (exclusive partner,
	// missing dependencies, required alternates).
	Related []string `json:"related,omitempty" yaml:"related,omitempty"`

	// Suggestion is a likely intended switch for unknown_switch.
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`

	// Rule is the rule text for rule-scoped issues.
	Rule string `json:"rule,omitempty" yaml:"rule,omitempty"`
}

// String renders the issue the way it is printed to users.
func (i Issue) String() string {
	if i.Suggestion != "" {
		return fmt.Sprintf("%s (did you mean %s?)", i.Message, i.Suggestion)
	}
	return i.Message
}

// Issues is an ordered collection of diagnostics. It implements error so it
// can travel through error returns when a caller wants that.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].String())
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// Messages returns the rendered issues in their current order.
func (iss Issues) Messages() []string {
	out := make([]string, 0, len(iss))
	for _, i := range iss {
		out = append(out, i.String())
	}
	return out
}

// Sorted returns the rendered issues sorted lexically, the deterministic
// order used for printing.
func (iss Issues) Sorted() []string {
	out := iss.Messages()
	slices.Sort(out)
	return out
}

// Count returns the number of issues with the given code.
func (iss Issues) Count(code Code) int {
	n := 0
	for _, i := range iss {
		if i.Code == code {
			n++
		}
	}
	return n
}

// Filter returns the issues with the given code.
func (iss Issues) Filter(code Code) Issues {
	var out Issues
	for _, i := range iss {
		if i.Code == code {
			out = append(out, i)
		}
	}
	return out
}

// BySwitch groups rendered issues per switch, preserving order within a group.
func (iss Issues) BySwitch() map[string][]string {
	out := make(map[string][]string)
	for _, i := range iss {
		out[i.Switch] = append(out[i.Switch], i.String())
	}
	return out
}
