package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{
			name: "strict object",
			in:   `{"a":1}`,
			want: `{"a":1}`,
			ok:   true,
		},
		{
			name: "leading whitespace",
			in:   "\n\t {\"a\":1}",
			want: `{"a":1}`,
			ok:   true,
		},
		{
			name: "fenced block with language tag",
			in:   "Here you go:\n```json\n{\"a\":1}\n```\nanything else",
			want: `{"a":1}`,
			ok:   true,
		},
		{
			name: "fenced block without tag",
			in:   "```\n{\"a\":1}\n```",
			want: `{"a":1}`,
			ok:   true,
		},
		{
			name: "object buried in prose",
			in:   `Sure! The plan is {"a":1} and that should work.`,
			want: `{"a":1}`,
			ok:   true,
		},
		{
			name: "empty text",
			in:   "",
			ok:   false,
		},
		{
			name: "plain prose",
			in:   "I could not produce a plan for this request.",
			ok:   false,
		},
		{
			name: "truncated json",
			in:   `{"a":1,"b":[`,
			ok:   false,
		},
		{
			name: "array not object",
			in:   `[1,2,3]`,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSON(tt.in)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExtractJSONPrefersStrictParse(t *testing.T) {
	// A valid object that happens to contain a fence-like string must be
	// returned as-is, not re-extracted.
	in := "{\"note\":\"use ```json fences``` here\"}"
	got, ok := extractJSON(in)
	require.True(t, ok)
	assert.Equal(t, in, got)
}
