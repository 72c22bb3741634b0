/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package schema

import (
	"regexp"
	"slices"
	"strings"
)

const (
	// Kind is the document kind of a schema file.
	Kind = "ParameterSchema"

	// APIVersion is the current schema document version.
	APIVersion = "pyngctl.io/v1"

	// NoValue is the raw value recorded for a token without "=".
	NoValue = "none"

	// separator replaces configured delimiters before splitting a raw value.
	separator = "\x1f"
)

// Type is the declared value type of a switch.
type Type string

const (
	TypeString Type = "string"
	TypeInt    Type = "int"
	TypeFloat  Type = "float"
	TypeDate   Type = "date"
	TypeNone   Type = "none"
)

// Types lists every supported Type.
var Types = []Type{TypeString, TypeInt, TypeFloat, TypeDate, TypeNone}

// IsValid reports whether t is a supported type.
func (t Type) IsValid() bool {
	return slices.Contains(Types, t)
}

// HasRules reports whether rules declared on a switch of this type are evaluated.
func (t Type) HasRules() bool {
	return t != TypeString
}

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// MatchResult classifies how a pattern matched a value.
type MatchResult int

const (
	// MatchNone means the pattern did not match at the start of the value.
	MatchNone MatchResult = iota
	// MatchPartial means the pattern matched a prefix but not the whole value.
	MatchPartial
	// MatchFull means the pattern consumed the whole value.
	MatchFull
)

// Settings toggles the optional post-validation phases.
type Settings struct {
	// EnableRules turns on relational rule evaluation.
	EnableRules bool `json:"enableRules" yaml:"enableRules"`
	// DateConvert rewrites accepted date values as epoch seconds.
	DateConvert bool `json:"dateConvert" yaml:"dateConvert"`
}

// ParameterSpec is the normalized, immutable definition of one switch.
type ParameterSpec struct {
	Name           string   `json:"name" yaml:"name"`
	Description    string   `json:"description" yaml:"description"`
	Help           string   `json:"help" yaml:"help"`
	Type           Type     `json:"type" yaml:"type"`
	Pattern        string   `json:"pattern" yaml:"pattern"`
	Delimiters     []string `json:"delimiters" yaml:"delimiters"`
	Unique         bool     `json:"unique" yaml:"unique"`
	Required       bool     `json:"required" yaml:"required"`
	RequiredUnless []string `json:"required_unless" yaml:"required_unless"`
	Depends        []string `json:"depends" yaml:"depends"`
	ExclusiveOf    []string `json:"exclusive_of" yaml:"exclusive_of"`
	Default        []string `json:"default" yaml:"default"`
	Rules          []string `json:"rules" yaml:"rules"`

	matcher *regexp.Regexp
}

// Match checks value against the pattern anchored at the start of the value.
func (p *ParameterSpec) Match(value string) MatchResult {
	loc := p.matcher.FindStringIndex(value)
	switch {
	case loc == nil:
		return MatchNone
	case loc[1] != len(value):
		return MatchPartial
	default:
		return MatchFull
	}
}

// Split breaks a raw value into sub-values on every configured delimiter.
// Without delimiters the result always has exactly one element.
func (p *ParameterSpec) Split(raw string) []string {
	if len(p.Delimiters) == 0 {
		return []string{raw}
	}
	for _, d := range p.Delimiters {
		raw = strings.ReplaceAll(raw, d, separator)
	}
	return strings.Split(raw, separator)
}

// Excludes reports whether other is listed in exclusive_of.
func (p *ParameterSpec) Excludes(other string) bool {
	return slices.Contains(p.ExclusiveOf, other)
}

// SelfExclusive reports whether the switch lists itself in exclusive_of,
// which suppresses its default.
func (p *ParameterSpec) SelfExclusive() bool {
	return p.Excludes(p.Name)
}

// Schema is the ordered, read-only set of parameter specs for one tool.
type Schema struct {
	Kind       string   `json:"kind" yaml:"kind"`
	APIVersion string   `json:"apiVersion" yaml:"apiVersion"`
	Settings   Settings `json:"settings" yaml:"settings"`

	order  []string
	params map[string]*ParameterSpec
}

// Lookup returns the spec for a switch.
func (s *Schema) Lookup(name string) (*ParameterSpec, bool) {
	p, ok := s.params[name]
	return p, ok
}

// Has reports whether a switch is declared.
func (s *Schema) Has(name string) bool {
	_, ok := s.params[name]
	return ok
}

// Names returns every switch in declaration order.
func (s *Schema) Names() []string {
	return slices.Clone(s.order)
}

// Len returns the number of declared switches.
func (s *Schema) Len() int {
	return len(s.order)
}

// Parameters returns the specs in declaration order.
func (s *Schema) Parameters() []*ParameterSpec {
	out := make([]*ParameterSpec, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.params[name])
	}
	return out
}
