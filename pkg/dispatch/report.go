/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package dispatch

import (
	"time"

	"github.com/davejbarnes/pyngctl/pkg/header"
	"github.com/davejbarnes/pyngctl/pkg/schema"
)

// ReportKind is the kind of a serialized Report.
const ReportKind = "DispatchReport"

// Result is the outcome of one command.
type Result struct {
	Command   string        `json:"command" yaml:"command"`
	Target    string        `json:"target" yaml:"target"`
	Succeeded bool          `json:"succeeded" yaml:"succeeded"`
	Detail    string        `json:"detail" yaml:"detail"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// ReportSummary counts command results.
type ReportSummary struct {
	Total     int           `json:"total" yaml:"total"`
	Succeeded int           `json:"succeeded" yaml:"succeeded"`
	Failed    int           `json:"failed" yaml:"failed"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// Report collects the results of one dispatch.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	Mode    Mode          `json:"mode" yaml:"mode"`
	Results []Result      `json:"results" yaml:"results"`
	Summary ReportSummary `json:"summary" yaml:"summary"`
}

func newReport(mode Mode, user string, started time.Time, results []Result) *Report {
	r := &Report{
		Header: header.New(ReportKind, schema.APIVersion,
			header.WithTimestamp(started),
			header.WithMetadata(header.MetadataUser, user)),
		Mode:    mode,
		Results: results,
		Summary: ReportSummary{Total: len(results), Duration: time.Since(started)},
	}
	for _, res := range results {
		if res.Succeeded {
			r.Summary.Succeeded++
		} else {
			r.Summary.Failed++
		}
	}
	return r
}

// Succeeded is true when every command succeeded.
func (r *Report) Succeeded() bool {
	return r.Summary.Failed == 0
}

// Failures returns the failed results.
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Succeeded {
			out = append(out, res)
		}
	}
	return out
}

// Details maps each target to the detail of its command, matching the
// per-host results the tool has always printed.
func (r *Report) Details() map[string]string {
	out := make(map[string]string, len(r.Results))
	for _, res := range r.Results {
		out[res.Target] = res.Detail
	}
	return out
}
