/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package issue

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Issues {
	return Issues{
		{Code: CodeMissingRequired, Switch: "-c", Message: "-c (comment) is required"},
		{Code: CodeUnknownSwitch, Switch: "-z", Message: "-z is not valid", Suggestion: "-s"},
		{Code: CodeMissingRequired, Switch: "-h", Message: "-h (hostname) is required"},
	}
}

func TestIssue_String(t *testing.T) {
	iss := sample()
	assert.Equal(t, "-c (comment) is required", iss[0].String())
	assert.Equal(t, "-z is not valid (did you mean -s?)", iss[1].String())
}

func TestIssues_Sorted(t *testing.T) {
	iss := sample()
	assert.Equal(t, []string{
		"-c (comment) is required",
		"-h (hostname) is required",
		"-z is not valid (did you mean -s?)",
	}, iss.Sorted())

	// Sorting does not reorder the receiver.
	assert.Equal(t, "-c", iss[0].Switch)
	assert.Equal(t, "-z", iss[1].Switch)
}

func TestIssues_CountAndFilter(t *testing.T) {
	iss := sample()
	assert.Equal(t, 2, iss.Count(CodeMissingRequired))
	assert.Equal(t, 0, iss.Count(CodeRuleFailed))
	require.Len(t, iss.Filter(CodeUnknownSwitch), 1)
	assert.Nil(t, iss.Filter(CodeRuleFailed))
}

func TestIssues_BySwitch(t *testing.T) {
	iss := append(sample(), Issue{Code: CodeRuleFailed, Switch: "-c", Message: "second"})
	groups := iss.BySwitch()
	assert.Equal(t, []string{"-c (comment) is required", "second"}, groups["-c"])
	assert.Len(t, groups, 3)
}

func TestIssues_Error(t *testing.T) {
	assert.Equal(t, "", Issues{}.Error())

	var iss Issues
	for i := 0; i < 5; i++ {
		iss = append(iss, Issue{Message: fmt.Sprintf("m%d", i)})
	}
	assert.Equal(t, "m0; m1; m2; ... (total 5)", iss.Error())

	var err error = iss
	var got Issues
	require.True(t, errors.As(err, &got))
	assert.Len(t, got, 5)
}
