/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package dispatch

import (
	"fmt"
	"math"
	"strconv"

	perrors "github.com/davejbarnes/pyngctl/pkg/errors"
	"github.com/davejbarnes/pyngctl/pkg/hosts"
	"github.com/davejbarnes/pyngctl/pkg/validator"
)

// Switches read from the accepted set.
const (
	SwitchHost      = "-h"
	SwitchHostgroup = "-H"
	SwitchService   = "-s"
	SwitchStart     = "-b"
	SwitchEnd       = "-e"
	SwitchMinutes   = "-d"
	SwitchHours     = "-D"
	SwitchComment   = "-c"
	SwitchSticky    = "-k"
	SwitchNotify    = "-n"
	SwitchFrom      = "-x"
	SwitchTo        = "-y"
	SwitchParity    = "-p"
)

// Request is what one invocation asks the monitoring system to do.
type Request struct {
	Mode Mode `json:"mode" yaml:"mode"`

	// Hosts are the explicit hosts after range expansion. Hosts of Groups
	// are resolved when the request is planned.
	Hosts    []string `json:"hosts,omitempty" yaml:"hosts,omitempty"`
	Groups   []string `json:"groups,omitempty" yaml:"groups,omitempty"`
	Services []string `json:"services,omitempty" yaml:"services,omitempty"`

	// Start and End bound a downtime, in epoch seconds.
	Start int64 `json:"start,omitempty" yaml:"start,omitempty"`
	End   int64 `json:"end,omitempty" yaml:"end,omitempty"`

	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
	Sticky  bool   `json:"sticky,omitempty" yaml:"sticky,omitempty"`
	Notify  bool   `json:"notify,omitempty" yaml:"notify,omitempty"`
}

// NewRequest builds a Request from a validation outcome. The outcome must
// allow the invocation to proceed.
func NewRequest(o *validator.Outcome) (*Request, error) {
	if o == nil || !o.Proceed() {
		return nil, perrors.New(perrors.ErrCodeValidationRejected, "arguments were rejected, no command issued")
	}
	a := o.Accepted

	req := &Request{
		Mode:    FindMode(a),
		Sticky:  a.Has(SwitchSticky),
		Notify:  a.Has(SwitchNotify),
		Comment: first(a, SwitchComment),
	}
	req.Groups, _ = a.Get(SwitchHostgroup)
	req.Services, _ = a.Get(SwitchService)

	rng, err := hostRange(a)
	if err != nil {
		return nil, err
	}
	prefixes, _ := a.Get(SwitchHost)
	if req.Hosts, err = hosts.Expand(prefixes, rng); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidRequest, "invalid host range", err)
	}

	if req.Mode == ModeDowntime {
		if err := req.window(a); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func first(a *validator.Accepted, name string) string {
	v, _ := a.First(name)
	return v
}

func hostRange(a *validator.Accepted) (*hosts.Range, error) {
	if !a.Has(SwitchFrom) && !a.Has(SwitchTo) {
		return nil, nil
	}
	from, err := strconv.Atoi(first(a, SwitchFrom))
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidRequest, "invalid range start", err)
	}
	to, err := strconv.Atoi(first(a, SwitchTo))
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidRequest, "invalid range end", err)
	}
	parity, err := hosts.ParseParity(first(a, SwitchParity))
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidRequest, "invalid range parity", err)
	}
	return &hosts.Range{From: from, To: to, Parity: parity}, nil
}

// window resolves the downtime start and end. End comes from -e, or from
// the start plus -d minutes or -D hours.
func (r *Request) window(a *validator.Accepted) error {
	var err error
	if r.Start, err = epoch(a, SwitchStart); err != nil {
		return err
	}

	switch {
	case a.Has(SwitchEnd):
		r.End, err = epoch(a, SwitchEnd)
	case a.Has(SwitchMinutes):
		r.End, err = offset(a, SwitchMinutes, r.Start, 60)
	case a.Has(SwitchHours):
		r.End, err = offset(a, SwitchHours, r.Start, 3600)
	default:
		err = perrors.New(perrors.ErrCodeInvalidRequest, "downtime needs an end time or a duration")
	}
	if err != nil {
		return err
	}
	if r.End <= r.Start {
		return perrors.New(perrors.ErrCodeInvalidRequest,
			fmt.Sprintf("downtime end %d is not after start %d", r.End, r.Start))
	}
	return nil
}

func epoch(a *validator.Accepted, name string) (int64, error) {
	v := first(a, name)
	ts, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, perrors.WrapWithContext(perrors.ErrCodeInvalidRequest,
			"date was not converted to epoch seconds", err, map[string]any{"switch": name, "value": v})
	}
	return ts, nil
}

func offset(a *validator.Accepted, name string, start int64, unit float64) (int64, error) {
	v := first(a, name)
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, perrors.WrapWithContext(perrors.ErrCodeInvalidRequest,
			"invalid duration", err, map[string]any{"switch": name, "value": v})
	}
	return start + int64(math.Round(n*unit)), nil
}
