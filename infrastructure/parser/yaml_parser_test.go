package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYamlConfigParser_Parse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]any
	}{
		{
			name:  "empty",
			input: "",
			want:  map[string]any{},
		},
		{
			name:  "whitespace",
			input: "  \n",
			want:  map[string]any{},
		},
		{
			name:  "yaml",
			input: "cluster: auth\ntimeout_ms: 250\nheaders:\n  - x-a\n  - x-b\n",
			want: map[string]any{
				"cluster":    "auth",
				"timeout_ms": 250,
				"headers":    []any{"x-a", "x-b"},
			},
		},
		{
			name:  "json",
			input: `{"cluster": "auth", "enabled": true}`,
			want:  map[string]any{"cluster": "auth", "enabled": true},
		},
		{
			name:  "null document",
			input: "null",
			want:  map[string]any{},
		},
	}

	p := NewYamlConfigParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestYamlConfigParser_Invalid(t *testing.T) {
	p := NewYamlConfigParser()

	_, err := p.Parse([]byte("- just\n- a list\n"))
	assert.Error(t, err)

	_, err = p.Parse([]byte("key: [unterminated"))
	assert.Error(t, err)
}
