/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package validator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davejbarnes/pyngctl/pkg/datetime"
	"github.com/davejbarnes/pyngctl/pkg/issue"
	"github.com/davejbarnes/pyngctl/pkg/schema"
)

var fixedNow = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

const (
	ts0900 = "1704099600" // 2024-01-01 09:00 UTC
	ts1000 = "1704103200" // 2024-01-01 10:00 UTC
)

func ptr[T any](v T) *T { return &v }

func layouts() *datetime.Layouts {
	l := datetime.NewLayouts(time.UTC)
	l.Now = func() time.Time { return fixedNow }
	return l
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEngine(t *testing.T, s *schema.Schema, opts ...Option) *Engine {
	t.Helper()
	base := []Option{WithNormalizer(layouts()), WithLogger(discard())}
	e, err := New(s, append(base, opts...)...)
	require.NoError(t, err)
	return e
}

func defaultEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	s, err := schema.Default()
	require.NoError(t, err)
	return newEngine(t, s, opts...)
}

func buildSchema(t *testing.T, order []string, defs map[string]schema.Definition) *schema.Schema {
	t.Helper()
	s, err := schema.New(schema.Settings{EnableRules: true, DateConvert: true}, order, defs)
	require.NoError(t, err)
	return s
}

func codes(iss issue.Issues) []issue.Code {
	out := make([]issue.Code, 0, len(iss))
	for _, i := range iss {
		out = append(out, i.Code)
	}
	return out
}

func TestValidate_ValidDowntime(t *testing.T) {
	e := defaultEngine(t)
	out := e.Validate(context.Background(), []string{
		"-h=web01", "-c=planned work", "-b=2024-01-01 09:00", "-e=2024-01-01 10:00",
	})

	require.True(t, out.Valid, out.Errors())
	assert.Empty(t, out.Issues)
	assert.Equal(t, []string{"-h", "-c", "-b", "-e"}, out.Accepted.Switches())

	b, _ := out.Accepted.First("-b")
	assert.Equal(t, ts0900, b)
	entry, ok := out.Accepted.Entry("-b")
	require.True(t, ok)
	assert.Equal(t, "2024-01-01 09:00", entry.Original)

	require.True(t, out.RulesEvaluated())
	assert.True(t, out.RulesPassed())
	assert.False(t, out.RulePartial())
	assert.True(t, out.Proceed())
	assert.Equal(t, ResultValid, out.Result())
}

func TestValidate_DefaultsAddedForAbsentSwitches(t *testing.T) {
	e := defaultEngine(t)
	out := e.Validate(context.Background(), []string{"-h=web01", "-c=x", "-D=2"})

	require.True(t, out.Valid, out.Errors())
	assert.Equal(t, []string{"-h", "-c", "-D", "-b"}, out.Accepted.Switches())

	entry, ok := out.Accepted.Entry("-b")
	require.True(t, ok)
	assert.True(t, entry.Defaulted)
	assert.Equal(t, "now", entry.Original)
	assert.Equal(t, []string{fmt.Sprint(fixedNow.Unix())}, entry.Values)

	// -b < -e cannot be resolved without -e
	assert.True(t, out.RulesPassed())
	assert.True(t, out.RulePartial())
	assert.Equal(t, ResultRulesPartial, out.Result())
	assert.True(t, out.Proceed())
}

func TestValidate_DurationHoursRule(t *testing.T) {
	e := defaultEngine(t)
	out := e.Validate(context.Background(), []string{"-h=web01", "-c=x", "-D=150"})

	require.True(t, out.Valid)
	assert.False(t, out.RulesPassed())
	assert.False(t, out.Proceed())
	failed := out.Rules.Issues.Filter(issue.CodeRuleFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, "-D", failed[0].Switch)
	assert.Equal(t, "< 99", failed[0].Rule)
	assert.Contains(t, out.RuleErrors(), "-D")
}

func TestValidate_StartEndRule(t *testing.T) {
	date := ptr(schema.TypeDate)
	s := buildSchema(t, []string{"start", "end"}, map[string]schema.Definition{
		"start": {Description: "start", Help: "h", Type: date, Rules: []string{"< end"}},
		"end":   {Description: "end", Help: "h", Type: date},
	})
	e := newEngine(t, s)

	out := e.Validate(context.Background(), []string{"start=2024-01-01 09:00", "end=2024-01-01 10:00"})
	require.True(t, out.Valid, out.Errors())
	assert.True(t, out.RulesPassed())
	start, _ := out.Accepted.First("start")
	end, _ := out.Accepted.First("end")
	assert.Equal(t, ts0900, start)
	assert.Equal(t, ts1000, end)

	out = e.Validate(context.Background(), []string{"start=2024-01-01 10:00", "end=2024-01-01 09:00"})
	require.True(t, out.Valid)
	assert.False(t, out.RulesPassed())
	require.Len(t, out.Rules.Issues, 1)
	assert.Equal(t, issue.CodeRuleFailed, out.Rules.Issues[0].Code)
	assert.Equal(t, "start", out.Rules.Issues[0].Switch)
}

func TestValidate_HostOrHostgroupRequired(t *testing.T) {
	e := defaultEngine(t)
	out := e.Validate(context.Background(), []string{"-c=x", "-D=1"})

	assert.False(t, out.Valid)
	missing := out.Issues.Filter(issue.CodeMissingRequired)
	require.Len(t, missing, 2)
	assert.Equal(t, "-h", missing[0].Switch)
	assert.Equal(t, `-h (hostname) is required unless one of "-H" is specified`, missing[0].Message)
	assert.Equal(t, "-H", missing[1].Switch)
	assert.Equal(t, []string{"-h"}, missing[1].Related)
	assert.Nil(t, out.Rules, "rules do not run on invalid input")
	assert.Equal(t, ResultInvalid, out.Result())
}

func TestValidate_RequiredUnless(t *testing.T) {
	s := buildSchema(t, []string{"A", "B"}, map[string]schema.Definition{
		"A": {Description: "a", Help: "h", Type: ptr(schema.TypeString), RequiredUnless: []string{"B"}},
		"B": {Description: "b", Help: "h"},
	})
	e := newEngine(t, s)

	out := e.Validate(context.Background(), nil)
	assert.Equal(t, []issue.Code{issue.CodeMissingRequired}, codes(out.Issues))
	assert.Equal(t, "A", out.Issues[0].Switch)

	out = e.Validate(context.Background(), []string{"B"})
	assert.True(t, out.Valid)
	assert.Empty(t, out.Issues)
}

func TestValidate_PlainRequired(t *testing.T) {
	s := buildSchema(t, []string{"-c"}, map[string]schema.Definition{
		"-c": {Description: "comment", Help: "h", Type: ptr(schema.TypeString), Required: ptr(true)},
	})
	out := newEngine(t, s).Validate(context.Background(), nil)
	require.Len(t, out.Issues, 1)
	assert.Equal(t, "-c (comment) is required", out.Issues[0].Message)
}

func TestValidate_OneSidedExclusivity(t *testing.T) {
	s := buildSchema(t, []string{"X", "Y"}, map[string]schema.Definition{
		"X": {Description: "x", Help: "h", ExclusiveOf: []string{"Y"}},
		"Y": {Description: "y", Help: "h"},
	})
	e := newEngine(t, s)

	for _, args := range [][]string{{"X", "Y"}, {"Y", "X"}} {
		out := e.Validate(context.Background(), args)
		assert.Equal(t, []issue.Code{issue.CodeExclusivityViolation}, codes(out.Issues), args)
		assert.Equal(t, "X", out.Issues[0].Switch)
		assert.Equal(t, []string{"Y"}, out.Issues[0].Related)
	}
}

func TestValidate_TwoSidedExclusivity(t *testing.T) {
	e := defaultEngine(t)
	out := e.Validate(context.Background(), []string{"-h=web01", "-c=x", "-e=2024-01-01 10:00", "-D=1"})

	violations := out.Issues.Filter(issue.CodeExclusivityViolation)
	require.Len(t, violations, 2)
	assert.Equal(t, "-e should not be specified along with -D", violations[0].Message)
	assert.Equal(t, "-D should not be specified along with -e", violations[1].Message)
}

func TestValidate_SelfExclusive(t *testing.T) {
	s := buildSchema(t, []string{"A"}, map[string]schema.Definition{
		"A": {Description: "a", Help: "h", Type: ptr(schema.TypeString), Default: []string{"x"}, ExclusiveOf: []string{"A"}},
	})
	e := newEngine(t, s)

	out := e.Validate(context.Background(), nil)
	assert.True(t, out.Valid)
	assert.False(t, out.Accepted.Has("A"))

	out = e.Validate(context.Background(), []string{"A=y"})
	assert.False(t, out.Valid)
	violations := out.Issues.Filter(issue.CodeExclusivityViolation)
	require.Len(t, violations, 1)
	assert.Equal(t, "A should not be specified along with A", violations[0].Message)
}

func TestValidate_DefaultsDoNotSatisfyChecks(t *testing.T) {
	str := ptr(schema.TypeString)
	s := buildSchema(t, []string{"A", "B"}, map[string]schema.Definition{
		"A": {Description: "a", Help: "h", Type: str, Required: ptr(true), Default: []string{"x"}},
		"B": {Description: "b", Help: "h", Type: str, Depends: []string{"A"}},
	})
	out := newEngine(t, s).Validate(context.Background(), []string{"B=1"})

	assert.ElementsMatch(t, []issue.Code{issue.CodeMissingRequired, issue.CodeUnmetDependency}, codes(out.Issues))
	entry, ok := out.Accepted.Entry("A")
	require.True(t, ok)
	assert.True(t, entry.Defaulted)
}

func TestValidate_UnmetDependency(t *testing.T) {
	e := defaultEngine(t)
	out := e.Validate(context.Background(), []string{"-h=web01", "-c=x", "-D=1", "-k"})

	deps := out.Issues.Filter(issue.CodeUnmetDependency)
	require.Len(t, deps, 1)
	assert.Equal(t, "-k", deps[0].Switch)
	assert.Equal(t, []string{"ack"}, deps[0].Related)
	assert.Equal(t, "-k (sticky) depends on ack also being specified", deps[0].Message)
}

func TestValidate_UnknownSwitch(t *testing.T) {
	e := defaultEngine(t)
	out := e.Validate(context.Background(), []string{"-h=web01", "-c=x", "-D=1", "dwon", "-z=1"})

	unknown := out.Issues.Filter(issue.CodeUnknownSwitch)
	require.Len(t, unknown, 2)
	assert.Equal(t, "dwon is not valid", unknown[0].Message)
	assert.Equal(t, "down", unknown[0].Suggestion)
	assert.Equal(t, "-z", unknown[1].Switch)
	assert.False(t, out.Accepted.Has("dwon"))
	assert.False(t, out.Accepted.Has("-z"))
	assert.Len(t, out.Issues, 2, "no further checks for unknown tokens")
}

func TestValidate_PatternFailures(t *testing.T) {
	e := defaultEngine(t)
	out := e.Validate(context.Background(), []string{"-h=web01,web!02,!x", "-c=x", "-D=1"})

	assert.Equal(t, []issue.Code{issue.CodePatternPartialMatch, issue.CodePatternNoMatch}, codes(out.Issues))
	assert.Equal(t, "web!02", out.Issues[0].Value)
	assert.Equal(t, "!x", out.Issues[1].Value)

	vals, _ := out.Accepted.Get("-h")
	assert.Equal(t, []string{"web01", "web!02", "!x"}, vals, "values are accumulated even when invalid")
}

func TestValidate_SplitBeforePattern(t *testing.T) {
	s := buildSchema(t, []string{"-v"}, map[string]schema.Definition{
		"-v": {Description: "v", Help: "h", Type: ptr(schema.TypeString), Pattern: ptr(`\w+,\w+|\w{3,}`), Delimiters: []string{","}},
	})
	out := newEngine(t, s).Validate(context.Background(), []string{"-v=ab,cd"})

	assert.Equal(t, []issue.Code{issue.CodePatternNoMatch, issue.CodePatternNoMatch}, codes(out.Issues))
	assert.Equal(t, "ab", out.Issues[0].Value)
	assert.Equal(t, "cd", out.Issues[1].Value)
}

func TestValidate_TypeMismatch(t *testing.T) {
	e := defaultEngine(t)
	out := e.Validate(context.Background(), []string{"-h=web01", "-c=x", "-D=many", "ack=yes", "-x=1.5", "-y=3"})

	mismatches := out.Issues.Filter(issue.CodeTypeMismatch)
	require.Len(t, mismatches, 3)
	assert.Equal(t, "-D with value many is not a valid float", mismatches[0].Message)
	assert.Equal(t, "ack", mismatches[1].Switch)
	assert.Equal(t, "-x", mismatches[2].Switch)
}

func TestValidate_DateTypeUsesNormalizer(t *testing.T) {
	failing := datetime.NormalizerFunc(func(_ context.Context, v string) (int64, error) {
		return 0, fmt.Errorf("%w: %s", datetime.ErrUnparseable, v)
	})
	e := defaultEngine(t, WithNormalizer(failing))
	out := e.Validate(context.Background(), []string{"-h=web01", "-c=x", "-b=2024-01-01 09:00", "-D=1"})

	assert.Equal(t, []issue.Code{issue.CodeTypeMismatch}, codes(out.Issues))
	b, _ := out.Accepted.First("-b")
	assert.Equal(t, "2024-01-01 09:00", b, "value left as supplied when it cannot be normalized")
}

func TestValidate_DateNormalizationIsMemoized(t *testing.T) {
	var mu sync.Mutex
	calls := map[string]int{}
	inner := layouts()
	counting := datetime.NormalizerFunc(func(ctx context.Context, v string) (int64, error) {
		mu.Lock()
		calls[v]++
		mu.Unlock()
		return inner.Normalize(ctx, v)
	})

	e := defaultEngine(t, WithNormalizer(counting))
	out := e.Validate(context.Background(), []string{"-h=web01", "-c=x", "-b=2024-01-01 09:00", "-e=2024-01-01 10:00"})
	require.True(t, out.Valid)

	assert.Equal(t, 1, calls["2024-01-01 09:00"])
	assert.Equal(t, 1, calls["2024-01-01 10:00"])

	// a new invocation does not reuse the previous results
	e.Validate(context.Background(), []string{"-h=web01", "-c=x", "-b=2024-01-01 09:00", "-e=2024-01-01 10:00"})
	assert.Equal(t, 2, calls["2024-01-01 09:00"])
}

func TestValidate_DuplicateUnique(t *testing.T) {
	e := defaultEngine(t)
	out := e.Validate(context.Background(), []string{"-h=web01", "-c=first", "-c=second", "-D=1"})

	assert.Equal(t, []issue.Code{issue.CodeDuplicateUnique}, codes(out.Issues))
	vals, _ := out.Accepted.Get("-c")
	assert.Equal(t, []string{"first", "second"}, vals)
}

func TestValidate_DuplicateSubValuesNotRepeated(t *testing.T) {
	e := defaultEngine(t)
	out := e.Validate(context.Background(), []string{"-h=web01,web02 web01", "-h=web02,web03", "-c=x", "-D=1"})

	require.True(t, out.Valid, out.Errors())
	vals, _ := out.Accepted.Get("-h")
	assert.Equal(t, []string{"web01", "web02", "web03"}, vals)
}

func TestValidate_SettingsOverrides(t *testing.T) {
	args := []string{"-h=web01", "-c=x", "-b=2024-01-01 09:00", "-e=2024-01-01 10:00"}

	out := defaultEngine(t, WithRules(false)).Validate(context.Background(), args)
	assert.True(t, out.Valid)
	assert.False(t, out.RulesEvaluated())
	assert.True(t, out.RulesPassed())

	out = defaultEngine(t, WithDateConvert(false)).Validate(context.Background(), args)
	b, _ := out.Accepted.First("-b")
	assert.Equal(t, "2024-01-01 09:00", b)
	assert.True(t, out.RulePartial(), "raw dates are not comparable")
}

func TestValidate_Idempotent(t *testing.T) {
	e := defaultEngine(t)
	args := []string{"-h=web01,web02", "-s=HTTP,SSH", "-q", "-c=planned work", "-D=2", "-c=again"}

	first := e.Validate(context.Background(), args)
	second := e.Validate(context.Background(), first.Args())

	assert.Equal(t, first.Valid, second.Valid)
	assert.Equal(t, first.Accepted.Map(), second.Accepted.Map())
	assert.Equal(t, first.Accepted.Switches(), second.Accepted.Switches())
	assert.Equal(t, first.SortedErrors(), second.SortedErrors())
	assert.Equal(t, first.Args(), second.Args())
}

func TestOutcome_Args(t *testing.T) {
	e := defaultEngine(t)
	out := e.Validate(context.Background(), []string{"-h=web01,web02", "-q", "-c=x", "-D=2"})

	assert.Equal(t, []string{"-h=web01,web02", "-q", "-c=x", "-D=2"}, out.Args())
	assert.Equal(t, "-h=web01,web02 -q -c=x -D=2", out.Accepted.String())
}

func TestValidate_ConcurrentUse(t *testing.T) {
	e := defaultEngine(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out := e.Validate(context.Background(), []string{fmt.Sprintf("-h=web%02d", i), "-c=x", "-D=1"})
			assert.True(t, out.Valid)
		}(i)
	}
	wg.Wait()
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	s := buildSchema(t, []string{"-n"}, map[string]schema.Definition{
		"-n": {Description: "n", Help: "h", Type: ptr(schema.TypeInt), Rules: []string{"~ 3"}},
	})
	_, err = New(s)
	require.Error(t, err)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want Token
	}{
		{"-h=web01", Token{Switch: "-h", Value: "web01"}},
		{"-q", Token{Switch: "-q", Value: schema.NoValue}},
		{"-c=a=b", Token{Switch: "-c", Value: "a=b"}},
		{"-c=", Token{Switch: "-c", Value: ""}},
		{"=x", Token{Switch: "", Value: "x"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Tokenize(tt.in), tt.in)
	}
}
