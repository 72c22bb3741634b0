package serializer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type testConfig struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatJSON, &buf)

	data := []testConfig{{Name: "web01", Value: 1}, {Name: "web02", Value: 2}}
	require.NoError(t, w.Serialize(context.Background(), data))

	var result []testConfig
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, data, result)
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatYAML, &buf)

	data := []testConfig{{Name: "web01", Value: 1}, {Name: "web02", Value: 2}}
	require.NoError(t, w.Serialize(context.Background(), data))

	var result []testConfig
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, data, result)
}

func TestWriter_SerializeTable(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)

	data := []testConfig{{Name: "web01", Value: 1}, {Name: "web02", Value: 2}}
	require.NoError(t, w.Serialize(context.Background(), data))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, []string{"FIELD", "VALUE"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"[0].name", "web01"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"[1].value", "2"}, strings.Fields(lines[4]))
}

func TestWriter_SerializeTable_Nested(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)

	type inner struct {
		Field1 string
		Field2 int
		Empty  *int
	}
	type outer struct {
		Name  string
		Inner inner
	}

	require.NoError(t, w.Serialize(context.Background(), outer{Name: "x", Inner: inner{Field1: "value", Field2: 42}}))

	out := buf.String()
	assert.Contains(t, out, "Inner.Field1")
	assert.Contains(t, out, "Inner.Field2")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "<nil>")
}

func TestWriter_SerializeTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)

	require.NoError(t, w.Serialize(context.Background(), []testConfig{}))
	assert.Contains(t, buf.String(), "<empty>")
}

func TestWriter_SerializeTable_MapKeysSorted(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)

	require.NoError(t, w.Serialize(context.Background(), map[string]any{"b": 2, "a": true, "c": "x"}))
	out := buf.String()
	assert.Less(t, strings.Index(out, "a "), strings.Index(out, "b "))
	assert.Less(t, strings.Index(out, "b "), strings.Index(out, "c "))
}

func TestNewWriter_UnknownFormatFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(Format("xml"), &buf)
	assert.Equal(t, FormatJSON, w.Format())

	require.NoError(t, w.Serialize(context.Background(), testConfig{Name: "a", Value: 1}))
	var result testConfig
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
}

func TestWriter_SerializeError(t *testing.T) {
	var buf bytes.Buffer
	err := NewWriter(FormatJSON, &buf).Serialize(context.Background(), make(chan int))
	assert.Error(t, err)
}

func TestWriter_CloseStdoutIsSafe(t *testing.T) {
	w := NewStdoutWriter(FormatJSON)
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestNewFileWriterOrStdout(t *testing.T) {
	for _, path := range []string{"", "  ", "\t", "-"} {
		w, err := NewFileWriterOrStdout(FormatJSON, path)
		require.NoError(t, err, path)
		require.NotNil(t, w)
		c, ok := w.(Closer)
		require.True(t, ok)
		assert.NoError(t, c.Close())
	}

	path := filepath.Join(t.TempDir(), "outcome.yaml")
	w, err := NewFileWriterOrStdout(FormatYAML, path)
	require.NoError(t, err)
	require.NoError(t, w.Serialize(context.Background(), testConfig{Name: "web01", Value: 3}))
	require.NoError(t, w.(Closer).Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	var result testConfig
	require.NoError(t, yaml.Unmarshal(content, &result))
	assert.Equal(t, testConfig{Name: "web01", Value: 3}, result)
}

func TestNewFileWriterOrStdout_InvalidPath(t *testing.T) {
	w, err := NewFileWriterOrStdout(FormatJSON, "/nonexistent/path/file.json")
	require.Error(t, err)
	assert.Nil(t, w)
	assert.Contains(t, err.Error(), "failed to create output file")
}

func TestFormat_IsUnknown(t *testing.T) {
	tests := []struct {
		format Format
		want   bool
	}{
		{FormatJSON, false},
		{FormatYAML, false},
		{FormatTable, false},
		{Format("xml"), true},
		{Format(""), true},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.format.IsUnknown())
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("schema.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("schema.YML"))
	assert.Equal(t, FormatTable, FormatFromPath("out.txt"))
	assert.Equal(t, FormatJSON, FormatFromPath("out.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("out"))
}

func TestSupportedFormats(t *testing.T) {
	assert.ElementsMatch(t, []string{"json", "yaml", "table"}, SupportedFormats())
}
