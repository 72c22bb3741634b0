/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package schema

import (
	"fmt"
	"regexp"
	"slices"

	perrors "github.com/davejbarnes/pyngctl/pkg/errors"
)

// DefaultPattern is used for any non-date switch without an explicit pattern.
const DefaultPattern = ".*"

// Definition is one switch as written by a schema author. Optional fields
// are pointers or nil slices so that absence can be told apart from zero.
type Definition struct {
	Description    string   `json:"description" yaml:"description"`
	Help           string   `json:"help" yaml:"help"`
	Type           *Type    `json:"type,omitempty" yaml:"type,omitempty"`
	Pattern        *string  `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Delimiters     []string `json:"delimiters,omitempty" yaml:"delimiters,omitempty"`
	Unique         bool     `json:"unique,omitempty" yaml:"unique,omitempty"`
	Required       *bool    `json:"required,omitempty" yaml:"required,omitempty"`
	RequiredUnless []string `json:"required_unless,omitempty" yaml:"required_unless,omitempty"`
	Depends        []string `json:"depends,omitempty" yaml:"depends,omitempty"`
	ExclusiveOf    []string `json:"exclusive_of,omitempty" yaml:"exclusive_of,omitempty"`
	Default        []string `json:"default,omitempty" yaml:"default,omitempty"`
	Rules          []string `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// Normalize turns a Definition into a ParameterSpec with every optional
// field defaulted. It does not look at other switches.
func Normalize(name string, def Definition) (*ParameterSpec, error) {
	if name == "" {
		return nil, perrors.New(perrors.ErrCodeInvalidSchema, "switch name cannot be empty")
	}
	if def.Description == "" {
		return nil, perrors.New(perrors.ErrCodeInvalidSchema, fmt.Sprintf("%s: description is required", name))
	}
	if def.Help == "" {
		return nil, perrors.New(perrors.ErrCodeInvalidSchema, fmt.Sprintf("%s: help is required", name))
	}

	p := &ParameterSpec{
		Name:           name,
		Description:    def.Description,
		Help:           def.Help,
		Type:           TypeNone,
		Unique:         def.Unique,
		Delimiters:     nonNil(def.Delimiters),
		RequiredUnless: nonNil(def.RequiredUnless),
		Depends:        nonNil(def.Depends),
		ExclusiveOf:    nonNil(def.ExclusiveOf),
		Default:        nonNil(def.Default),
		Rules:          nonNil(def.Rules),
	}

	if def.Type != nil {
		if !def.Type.IsValid() {
			return nil, perrors.New(perrors.ErrCodeInvalidSchema,
				fmt.Sprintf("%s: unknown type %q, valid types are %v", name, *def.Type, Types))
		}
		p.Type = *def.Type
	}

	switch {
	case def.Pattern != nil:
		p.Pattern = *def.Pattern
	case p.Type == TypeDate:
		p.Pattern = DefaultDatePattern
	default:
		p.Pattern = DefaultPattern
	}

	// required_unless implies required unless the author said otherwise
	if def.Required != nil {
		p.Required = *def.Required
	} else {
		p.Required = len(p.RequiredUnless) > 0
	}

	if slices.Contains(p.Delimiters, "") {
		return nil, perrors.New(perrors.ErrCodeInvalidSchema, fmt.Sprintf("%s: delimiters cannot be empty strings", name))
	}

	m, err := regexp.Compile("^(?:" + p.Pattern + ")")
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidSchema, fmt.Sprintf("%s: invalid pattern", name), err)
	}
	p.matcher = m

	return p, nil
}

// New builds a Schema from definitions in the given order and checks that
// every cross-reference names a declared switch.
func New(settings Settings, order []string, defs map[string]Definition) (*Schema, error) {
	s := &Schema{
		Kind:       Kind,
		APIVersion: APIVersion,
		Settings:   settings,
		order:      make([]string, 0, len(order)),
		params:     make(map[string]*ParameterSpec, len(order)),
	}

	for _, name := range order {
		if _, dup := s.params[name]; dup {
			return nil, perrors.New(perrors.ErrCodeInvalidSchema, fmt.Sprintf("%s: declared more than once", name))
		}
		def, ok := defs[name]
		if !ok {
			return nil, perrors.New(perrors.ErrCodeInvalidSchema, fmt.Sprintf("%s: no definition", name))
		}
		p, err := Normalize(name, def)
		if err != nil {
			return nil, err
		}
		s.order = append(s.order, name)
		s.params[name] = p
	}

	for _, p := range s.params {
		for field, refs := range map[string][]string{
			"required_unless": p.RequiredUnless,
			"depends":         p.Depends,
			"exclusive_of":    p.ExclusiveOf,
		} {
			for _, ref := range refs {
				if !s.Has(ref) {
					return nil, perrors.New(perrors.ErrCodeInvalidSchema,
						fmt.Sprintf("%s: %s references undeclared switch %q", p.Name, field, ref))
				}
			}
		}
	}

	return s, nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return slices.Clone(in)
}
