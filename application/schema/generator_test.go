//go:build !wasip1

package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	return decoded
}

func TestGenerateSchema_FilterConfig(t *testing.T) {
	type RouteMatch struct {
		Prefix string `json:"prefix"`
	}
	type FilterConfig struct {
		Header  string       `json:"header" jsonschema:"description=Header added to every request"`
		Routes  []RouteMatch `json:"routes,omitempty"`
		Timeout int          `json:"timeout_ms,omitempty" jsonschema:"minimum=1"`
		Enabled *bool        `json:"enabled,omitempty"`
	}

	data, err := GenerateSchema(FilterConfig{})
	require.NoError(t, err)

	decoded := decode(t, data)
	assert.Equal(t, "object", decoded["type"])
	assert.Equal(t, false, decoded["additionalProperties"])
	assert.Equal(t, []any{"header"}, decoded["required"])

	props, ok := decoded["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "header")
	assert.Contains(t, props, "routes")
	assert.Contains(t, props, "timeout_ms")
	assert.Contains(t, props, "enabled")

	header, ok := props["header"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Header added to every request", header["description"])

	timeout, ok := props["timeout_ms"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, timeout["minimum"])
}

func TestGenerateSchema_Options(t *testing.T) {
	type Report struct {
		Valid bool `json:"valid"`
	}

	data, err := GenerateSchema(Report{},
		WithID("https://example.com/report.json"),
		WithTitle("report"),
		WithDescription("Inspection report"),
	)
	require.NoError(t, err)

	decoded := decode(t, data)
	assert.Equal(t, "https://example.com/report.json", decoded["$id"])
	assert.Equal(t, "report", decoded["title"])
	assert.Equal(t, "Inspection report", decoded["description"])
}

func TestGenerateSchema_Recursive(t *testing.T) {
	type Detail struct {
		Wrapped *Detail `json:"wrapped,omitempty"`
		Message string  `json:"message"`
	}
	type Document struct {
		Error *Detail `json:"error,omitempty"`
	}

	data, err := GenerateSchema(Document{})
	require.NoError(t, err)

	decoded := decode(t, data)
	assert.Contains(t, decoded, "$defs")
	assert.Contains(t, string(data), `"$ref"`)
}
