/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package schema

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/davejbarnes/pyngctl/pkg/errors"
)

func ptr[T any](v T) *T { return &v }

func TestDefault_LoadsEmbeddedSchema(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 20, s.Len())
	assert.Equal(t, []string{"-h", "-H", "-s", "-b", "-e"}, s.Names()[:5])
	assert.True(t, s.Settings.EnableRules)
	assert.True(t, s.Settings.DateConvert)

	b, ok := s.Lookup("-b")
	require.True(t, ok)
	assert.Equal(t, TypeDate, b.Type)
	assert.Equal(t, DefaultDatePattern, b.Pattern)
	assert.Equal(t, []string{"now"}, b.Default)

	h, ok := s.Lookup("-h")
	require.True(t, ok)
	assert.True(t, h.Required, "required_unless implies required")

	q, ok := s.Lookup("-q")
	require.True(t, ok)
	assert.Equal(t, TypeNone, q.Type)
	assert.Equal(t, DefaultPattern, q.Pattern)
	assert.False(t, q.Required)
	assert.NotNil(t, q.Depends)
	assert.Empty(t, q.Depends)
}

func TestDefault_IsShared(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		def      Definition
		wantErr  bool
		validate func(*testing.T, *ParameterSpec)
	}{
		{
			name: "minimal definition gets every default",
			def:  Definition{Description: "quiet", Help: "be quiet"},
			validate: func(t *testing.T, p *ParameterSpec) {
				assert.Equal(t, TypeNone, p.Type)
				assert.Equal(t, DefaultPattern, p.Pattern)
				assert.False(t, p.Required)
				assert.False(t, p.Unique)
				assert.Empty(t, p.Delimiters)
				assert.Empty(t, p.Default)
				assert.Empty(t, p.Rules)
			},
		},
		{
			name: "date type uses date pattern",
			def:  Definition{Description: "start", Help: "h", Type: ptr(TypeDate)},
			validate: func(t *testing.T, p *ParameterSpec) {
				assert.Equal(t, DefaultDatePattern, p.Pattern)
			},
		},
		{
			name: "date type with explicit pattern keeps it",
			def:  Definition{Description: "start", Help: "h", Type: ptr(TypeDate), Pattern: ptr(`\d+`)},
			validate: func(t *testing.T, p *ParameterSpec) {
				assert.Equal(t, `\d+`, p.Pattern)
			},
		},
		{
			name: "required_unless implies required",
			def:  Definition{Description: "d", Help: "h", RequiredUnless: []string{"-H"}},
			validate: func(t *testing.T, p *ParameterSpec) {
				assert.True(t, p.Required)
			},
		},
		{
			name: "explicit required false wins over required_unless",
			def:  Definition{Description: "d", Help: "h", Required: ptr(false), RequiredUnless: []string{"-H"}},
			validate: func(t *testing.T, p *ParameterSpec) {
				assert.False(t, p.Required)
			},
		},
		{name: "missing description", def: Definition{Help: "h"}, wantErr: true},
		{name: "missing help", def: Definition{Description: "d"}, wantErr: true},
		{name: "unknown type", def: Definition{Description: "d", Help: "h", Type: ptr(Type("bool"))}, wantErr: true},
		{name: "bad pattern", def: Definition{Description: "d", Help: "h", Pattern: ptr("([a-z")}, wantErr: true},
		{name: "empty delimiter", def: Definition{Description: "d", Help: "h", Delimiters: []string{",", ""}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Normalize("-x", tt.def)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, perrors.ErrCodeInvalidSchema, perrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "-x", p.Name)
			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestNormalize_DoesNotAliasInput(t *testing.T) {
	def := Definition{Description: "d", Help: "h", Default: []string{"a"}}
	p, err := Normalize("-a", def)
	require.NoError(t, err)

	def.Default[0] = "changed"
	assert.Equal(t, []string{"a"}, p.Default)
}

func TestNew_RejectsUndeclaredReference(t *testing.T) {
	defs := map[string]Definition{
		"-a": {Description: "a", Help: "a", Depends: []string{"-b"}},
	}
	_, err := New(Settings{}, []string{"-a"}, defs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `undeclared switch "-b"`)
}

func TestNew_RejectsDuplicate(t *testing.T) {
	defs := map[string]Definition{"-a": {Description: "a", Help: "a"}}
	_, err := New(Settings{}, []string{"-a", "-a"}, defs)
	require.Error(t, err)
}

func TestParameterSpec_Match(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		value   string
		want    MatchResult
	}{
		{"full", `[a-z]+`, "abc", MatchFull},
		{"partial prefix", `[a-z]+`, "abc123", MatchPartial},
		{"no match at start", `[0-9]+`, "abc", MatchNone},
		{"match later in value is still no match", `[0-9]+`, "abc123", MatchNone},
		{"default pattern accepts empty", DefaultPattern, "", MatchFull},
		{"alternation", `(odd|even)`, "even", MatchFull},
		{"alternation with trailing text", `(odd|even)`, "oddly", MatchPartial},
		{"anchored pattern", `^(dc1|dc2).*\d{2,}$`, "dc1web01", MatchFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Normalize("-x", Definition{Description: "d", Help: "h", Pattern: ptr(tt.pattern)})
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Match(tt.value))
		})
	}
}

func TestDefaultDatePattern(t *testing.T) {
	p, err := Normalize("-b", Definition{Description: "d", Help: "h", Type: ptr(TypeDate)})
	require.NoError(t, err)

	for _, v := range []string{"2024-01-01 09:00", "2024-01-01", "31/01/2024 9am", "now", "tomorrow 11am", "09:30"} {
		assert.Equal(t, MatchFull, p.Match(v), v)
	}
	assert.Equal(t, MatchNone, p.Match("garbage"))
}

func TestParameterSpec_Split(t *testing.T) {
	tests := []struct {
		name       string
		delimiters []string
		raw        string
		want       []string
	}{
		{"no delimiters", nil, "a,b", []string{"a,b"}},
		{"single delimiter", []string{","}, "a,b", []string{"a", "b"}},
		{"several delimiters", []string{",", " "}, "a,b c", []string{"a", "b", "c"}},
		{"multi-char delimiter", []string{"::"}, "a::b", []string{"a", "b"}},
		{"empty raw value", []string{","}, "", []string{""}},
		{"adjacent delimiters keep empties", []string{","}, "a,,b", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Normalize("-x", Definition{Description: "d", Help: "h", Delimiters: tt.delimiters})
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Split(tt.raw))
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("keeps declaration order", func(t *testing.T) {
		s, err := Parse([]byte(`
parameters:
  zeta: {description: z, help: z}
  alpha: {description: a, help: a}
  "-m": {description: m, help: m}
`))
		require.NoError(t, err)
		assert.Equal(t, []string{"zeta", "alpha", "-m"}, s.Names())
		assert.Equal(t, Kind, s.Kind)
	})

	t.Run("settings default to on", func(t *testing.T) {
		s, err := Parse([]byte("parameters:\n  a: {description: a, help: a}\n"))
		require.NoError(t, err)
		assert.True(t, s.Settings.EnableRules)
		assert.True(t, s.Settings.DateConvert)
	})

	t.Run("settings can be turned off", func(t *testing.T) {
		s, err := Parse([]byte("settings: {enableRules: false}\nparameters:\n  a: {description: a, help: a}\n"))
		require.NoError(t, err)
		assert.False(t, s.Settings.EnableRules)
		assert.True(t, s.Settings.DateConvert)
	})

	errCases := map[string]string{
		"wrong kind":            "kind: Recipe\nparameters:\n  a: {description: a, help: a}\n",
		"wrong version":         "apiVersion: v9\nparameters:\n  a: {description: a, help: a}\n",
		"no parameters":         "kind: ParameterSchema\n",
		"parameters not a map":  "parameters: [a, b]\n",
		"bad field type":        "parameters:\n  a: {description: a, help: a, unique: maybe}\n",
		"invalid yaml":          "parameters: {a: [\n",
		"undeclared dependency": "parameters:\n  a: {description: a, help: a, depends: [b]}\n",
	}
	for name, doc := range errCases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
			assert.Equal(t, perrors.ErrCodeInvalidSchema, perrors.CodeOf(err))
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("/nonexistent/schema.yaml")
	require.Error(t, err)
	assert.Equal(t, perrors.ErrCodeNotFound, perrors.CodeOf(err))
}

func TestLoad_Reader(t *testing.T) {
	s, err := Load(strings.NewReader("parameters:\n  a: {description: a, help: a}\n"))
	require.NoError(t, err)
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("b"))
}

func TestWriteHelp(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.WriteHelp(&buf))

	out := buf.String()
	assert.Contains(t, out, "-D=<float>  duration hours")
	assert.Contains(t, out, "required unless one of -H is given")
	assert.Contains(t, out, "requires ack")
	assert.Contains(t, out, "default: now")
	assert.Contains(t, out, "  ack  acknowledge mode")
}

func TestDocument(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	doc := s.Document()
	require.Len(t, doc.Parameters, s.Len())
	assert.Equal(t, "-h", doc.Parameters[0].Name)
	assert.Equal(t, APIVersion, doc.APIVersion)
}
