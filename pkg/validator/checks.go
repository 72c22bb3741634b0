/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package validator

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/davejbarnes/pyngctl/pkg/datetime"
	"github.com/davejbarnes/pyngctl/pkg/issue"
	"github.com/davejbarnes/pyngctl/pkg/schema"
)

// run holds the state of one validation.
type run struct {
	ctx      context.Context
	schema   *schema.Schema
	dates    datetime.Normalizer
	logger   *slog.Logger
	accepted *Accepted
	issues   issue.Issues
}

func (r *run) report(i issue.Issue) {
	r.issues = append(r.issues, i)
	issuesTotal.WithLabelValues(string(i.Code)).Inc()
	r.logger.DebugContext(r.ctx, "validation issue",
		"code", i.Code,
		"switch", i.Switch,
		"message", i.Message)
}

// token runs the per-token phases: lookup, split, pattern, type, cardinality.
// Values are accumulated even when a check fails so that later phases see
// everything the user supplied.
func (r *run) token(arg string) {
	tok := Tokenize(arg)
	spec, ok := r.schema.Lookup(tok.Switch)
	if !ok {
		r.report(issue.Issue{
			Code:       issue.CodeUnknownSwitch,
			Switch:     tok.Switch,
			Value:      tok.Value,
			Message:    fmt.Sprintf("%s is not valid", tok.Switch),
			Suggestion: suggest(r.schema, tok.Switch),
		})
		return
	}

	values := spec.Split(tok.Value)

	for _, v := range values {
		switch spec.Match(v) {
		case schema.MatchNone:
			r.report(issue.Issue{
				Code:    issue.CodePatternNoMatch,
				Switch:  spec.Name,
				Value:   v,
				Message: fmt.Sprintf("%s '%s' : pattern does not match", spec.Name, v),
			})
		case schema.MatchPartial:
			r.report(issue.Issue{
				Code:    issue.CodePatternPartialMatch,
				Switch:  spec.Name,
				Value:   v,
				Message: fmt.Sprintf("%s '%s' : pattern only partially matches, check the schema pattern", spec.Name, v),
			})
		case schema.MatchFull:
		}
	}

	for _, v := range values {
		if !r.typeOK(spec.Type, v) {
			r.report(issue.Issue{
				Code:    issue.CodeTypeMismatch,
				Switch:  spec.Name,
				Value:   v,
				Message: fmt.Sprintf("%s with value %s is not a valid %s", spec.Name, v, spec.Type),
			})
		}
	}

	if spec.Unique && r.accepted.Has(spec.Name) {
		r.report(issue.Issue{
			Code:    issue.CodeDuplicateUnique,
			Switch:  spec.Name,
			Value:   tok.Value,
			Message: fmt.Sprintf("%s can only be specified once", spec.Name),
		})
	}

	r.accepted.append(spec.Name, tok.Value, values)
}

func (r *run) typeOK(t schema.Type, v string) bool {
	switch t {
	case schema.TypeString:
		return true
	case schema.TypeInt:
		_, err := strconv.ParseInt(v, 10, 64)
		return err == nil
	case schema.TypeFloat:
		_, err := strconv.ParseFloat(v, 64)
		return err == nil
	case schema.TypeDate:
		if _, err := r.dates.Normalize(r.ctx, v); err != nil {
			r.logger.DebugContext(r.ctx, "date rejected", "value", v, "error", err)
			return false
		}
		return true
	case schema.TypeNone:
		return v == schema.NoValue
	default:
		return false
	}
}

// exclusivity reports every present switch whose exclusive_of names a
// present switch, itself included.
func (r *run) exclusivity() {
	for _, name := range r.accepted.Switches() {
		spec, _ := r.schema.Lookup(name)
		for _, other := range spec.ExclusiveOf {
			if !r.accepted.Has(other) {
				continue
			}
			r.report(issue.Issue{
				Code:    issue.CodeExclusivityViolation,
				Switch:  name,
				Related: []string{other},
				Message: fmt.Sprintf("%s should not be specified along with %s", name, other),
			})
		}
	}
}

// required checks required switches in schema order against the explicit
// switches only.
func (r *run) required() {
	for _, spec := range r.schema.Parameters() {
		if !spec.Required || r.accepted.Has(spec.Name) {
			continue
		}
		if r.anyPresent(spec.RequiredUnless) {
			continue
		}

		i := issue.Issue{
			Code:    issue.CodeMissingRequired,
			Switch:  spec.Name,
			Message: fmt.Sprintf("%s (%s) is required", spec.Name, spec.Description),
		}
		if len(spec.RequiredUnless) > 0 {
			i.Related = spec.RequiredUnless
			i.Message = fmt.Sprintf("%s (%s) is required unless one of %q is specified",
				spec.Name, spec.Description, strings.Join(spec.RequiredUnless, ", "))
		}
		r.report(i)
	}
}

func (r *run) anyPresent(names []string) bool {
	for _, n := range names {
		if r.accepted.Has(n) {
			return true
		}
	}
	return false
}

// dependencies checks that every depends entry of a present switch is present.
func (r *run) dependencies() {
	for _, name := range r.accepted.Switches() {
		spec, _ := r.schema.Lookup(name)
		var missing []string
		for _, dep := range spec.Depends {
			if !r.accepted.Has(dep) {
				missing = append(missing, dep)
			}
		}
		if len(missing) == 0 {
			continue
		}
		r.report(issue.Issue{
			Code:    issue.CodeUnmetDependency,
			Switch:  name,
			Related: missing,
			Message: fmt.Sprintf("%s (%s) depends on %s also being specified",
				name, spec.Description, strings.Join(spec.Depends, " and ")),
		})
	}
}

// defaults fills absent switches from the schema. It runs after every
// presence check so a default never satisfies a requirement or dependency.
func (r *run) defaults() {
	for _, spec := range r.schema.Parameters() {
		if len(spec.Default) == 0 || r.accepted.Has(spec.Name) || spec.SelfExclusive() {
			continue
		}
		r.accepted.setDefault(spec.Name, spec.Default)
		r.logger.DebugContext(r.ctx, "default applied", "switch", spec.Name, "values", spec.Default)
	}
}

// normalizeDates rewrites the first value of every present date switch as
// epoch seconds. Values that cannot be converted are left as supplied; the
// type check has already reported explicit ones.
func (r *run) normalizeDates() {
	for _, name := range r.accepted.Switches() {
		spec, _ := r.schema.Lookup(name)
		e := r.accepted.entries[name]
		if spec.Type != schema.TypeDate || len(e.Values) == 0 {
			continue
		}
		ts, err := r.dates.Normalize(r.ctx, e.Values[0])
		if err != nil {
			r.logger.WarnContext(r.ctx, "date not normalized",
				"switch", name,
				"value", e.Values[0],
				"error", err)
			continue
		}
		e.Original = e.Values[0]
		e.Values[0] = strconv.FormatInt(ts, 10)
	}
}
