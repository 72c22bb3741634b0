/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package schema

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	perrors "github.com/davejbarnes/pyngctl/pkg/errors"
)

var (
	//go:embed data/pyngctl.yaml
	defaultSchemaData []byte

	defaultOnce   sync.Once
	defaultSchema *Schema
	defaultErr    error
)

// document is the on-disk schema layout. Parameters stay a raw node so that
// key order survives decoding.
type document struct {
	Kind       string    `yaml:"kind"`
	APIVersion string    `yaml:"apiVersion"`
	Settings   *settings `yaml:"settings"`
	Parameters yaml.Node `yaml:"parameters"`
}

type settings struct {
	EnableRules *bool `yaml:"enableRules"`
	DateConvert *bool `yaml:"dateConvert"`
}

// Default returns the embedded downtime/acknowledge schema. It is parsed once
// and shared; callers must treat it as read-only.
func Default() (*Schema, error) {
	defaultOnce.Do(func() {
		defaultSchema, defaultErr = Parse(defaultSchemaData)
	})
	return defaultSchema, defaultErr
}

// LoadFile reads and parses a schema document from path.
func LoadFile(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeNotFound, fmt.Sprintf("failed to open schema %q", path), err)
	}
	defer f.Close()

	return Load(f)
}

// Load reads and parses a schema document.
func Load(r io.Reader) (*Schema, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInternal, "failed to read schema", err)
	}
	return Parse(buf.Bytes())
}

// Parse decodes a YAML schema document.
func Parse(data []byte) (*Schema, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidSchema, "failed to decode schema", err)
	}

	if doc.Kind != "" && doc.Kind != Kind {
		return nil, perrors.New(perrors.ErrCodeInvalidSchema, fmt.Sprintf("unexpected kind %q, want %q", doc.Kind, Kind))
	}
	if doc.APIVersion != "" && doc.APIVersion != APIVersion {
		return nil, perrors.New(perrors.ErrCodeInvalidSchema, fmt.Sprintf("unsupported apiVersion %q, want %q", doc.APIVersion, APIVersion))
	}

	st := Settings{EnableRules: true, DateConvert: true}
	if doc.Settings != nil {
		if doc.Settings.EnableRules != nil {
			st.EnableRules = *doc.Settings.EnableRules
		}
		if doc.Settings.DateConvert != nil {
			st.DateConvert = *doc.Settings.DateConvert
		}
	}

	if doc.Parameters.Kind == 0 {
		return nil, perrors.New(perrors.ErrCodeInvalidSchema, "schema declares no parameters")
	}
	if doc.Parameters.Kind != yaml.MappingNode {
		return nil, perrors.New(perrors.ErrCodeInvalidSchema,
			fmt.Sprintf("parameters must be a mapping (line %d)", doc.Parameters.Line))
	}

	content := doc.Parameters.Content
	order := make([]string, 0, len(content)/2)
	defs := make(map[string]Definition, len(content)/2)
	for i := 0; i+1 < len(content); i += 2 {
		key, val := content[i], content[i+1]
		var def Definition
		if err := val.Decode(&def); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidSchema,
				fmt.Sprintf("%s: invalid definition (line %d)", key.Value, key.Line), err)
		}
		order = append(order, key.Value)
		defs[key.Value] = def
	}

	return New(st, order, defs)
}

// Document is the serializable, normalized view of a Schema.
type Document struct {
	Kind       string           `json:"kind" yaml:"kind"`
	APIVersion string           `json:"apiVersion" yaml:"apiVersion"`
	Settings   Settings         `json:"settings" yaml:"settings"`
	Parameters []*ParameterSpec `json:"parameters" yaml:"parameters"`
}

// Document returns the normalized schema with every default filled in.
func (s *Schema) Document() Document {
	return Document{
		Kind:       s.Kind,
		APIVersion: s.APIVersion,
		Settings:   s.Settings,
		Parameters: s.Parameters(),
	}
}
