/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package validator

import (
	"slices"
	"strings"

	"github.com/goccy/go-json"

	"github.com/davejbarnes/pyngctl/pkg/schema"
)

// Entry is the accumulated state of one switch.
type Entry struct {
	Switch string `json:"switch" yaml:"switch"`

	// Values are the resolved sub-values in order of first appearance.
	// Date values are epoch seconds once dates have been normalized.
	Values []string `json:"values" yaml:"values"`

	// Tokens are the raw values of every occurrence, as supplied.
	Tokens []string `json:"tokens,omitempty" yaml:"tokens,omitempty"`

	// Original keeps the pre-normalization first value of a date switch.
	Original string `json:"original,omitempty" yaml:"original,omitempty"`

	// Defaulted marks an entry filled from the schema default.
	Defaulted bool `json:"defaulted,omitempty" yaml:"defaulted,omitempty"`
}

// Accepted is the ordered mapping from switch to resolved sub-values. Order is
// the order in which switches were first accepted, defaults last.
type Accepted struct {
	order   []string
	entries map[string]*Entry
}

func newAccepted() *Accepted {
	return &Accepted{entries: make(map[string]*Entry)}
}

// append adds sub-values, skipping any already held for the switch.
func (a *Accepted) append(name, raw string, values []string) {
	e, ok := a.entries[name]
	if !ok {
		e = &Entry{Switch: name, Values: []string{}}
		a.entries[name] = e
		a.order = append(a.order, name)
	}
	e.Tokens = append(e.Tokens, raw)
	for _, v := range values {
		if !slices.Contains(e.Values, v) {
			e.Values = append(e.Values, v)
		}
	}
}

func (a *Accepted) setDefault(name string, values []string) {
	a.entries[name] = &Entry{Switch: name, Values: slices.Clone(values), Defaulted: true}
	a.order = append(a.order, name)
}

// Get returns the resolved sub-values of a switch.
func (a *Accepted) Get(name string) ([]string, bool) {
	e, ok := a.entries[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(e.Values), true
}

// First returns the first resolved sub-value of a switch.
func (a *Accepted) First(name string) (string, bool) {
	e, ok := a.entries[name]
	if !ok || len(e.Values) == 0 {
		return "", false
	}
	return e.Values[0], true
}

// Entry returns a copy of the entry for a switch.
func (a *Accepted) Entry(name string) (Entry, bool) {
	e, ok := a.entries[name]
	if !ok {
		return Entry{}, false
	}
	c := *e
	c.Values = slices.Clone(e.Values)
	c.Tokens = slices.Clone(e.Tokens)
	return c, true
}

// Has reports whether a switch is present.
func (a *Accepted) Has(name string) bool {
	_, ok := a.entries[name]
	return ok
}

// Switches returns the present switches in acceptance order.
func (a *Accepted) Switches() []string {
	return slices.Clone(a.order)
}

// Len returns the number of present switches.
func (a *Accepted) Len() int {
	return len(a.order)
}

// Entries returns copies of every entry in acceptance order.
func (a *Accepted) Entries() []Entry {
	out := make([]Entry, 0, len(a.order))
	for _, name := range a.order {
		e, _ := a.Entry(name)
		out = append(out, e)
	}
	return out
}

// Map returns the accepted set as a plain map.
func (a *Accepted) Map() map[string][]string {
	out := make(map[string][]string, len(a.order))
	for name, e := range a.entries {
		out[name] = slices.Clone(e.Values)
	}
	return out
}

// Args renders the explicitly supplied switches back into command-line
// tokens, one per original occurrence, using the raw values. Defaults are
// omitted; validating the result reproduces the same outcome.
func (a *Accepted) Args() []string {
	var out []string
	for _, name := range a.order {
		e := a.entries[name]
		if e.Defaulted {
			continue
		}
		for _, raw := range e.Tokens {
			if raw == schema.NoValue {
				out = append(out, name)
				continue
			}
			out = append(out, name+"="+raw)
		}
	}
	return out
}

// String renders Args as a single shell-like line.
func (a *Accepted) String() string {
	return strings.Join(a.Args(), " ")
}

// MarshalJSON encodes the accepted set as its ordered entries.
func (a *Accepted) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Entries())
}

// MarshalYAML encodes the accepted set as its ordered entries.
func (a *Accepted) MarshalYAML() (any, error) {
	return a.Entries(), nil
}
