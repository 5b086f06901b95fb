// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package function

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   *Call
		wantOK bool
	}{
		{
			name:   "two parameters",
			in:     "llm_generate('write a commit message', 'git diff')",
			want:   &Call{Name: "llm_generate", Args: []string{"write a commit message", "git diff"}},
			wantOK: true,
		},
		{
			name:   "no parameters",
			in:     "now()",
			want:   &Call{Name: "now", Args: []string{}},
			wantOK: true,
		},
		{
			name:   "whitespace and single parameter",
			in:     "  env ( 'HOME' )  ",
			want:   &Call{Name: "env", Args: []string{"HOME"}},
			wantOK: true,
		},
		{
			name:   "escaped quote and parenthesis inside parameter",
			in:     `shell('echo it\'s (fine)')`,
			want:   &Call{Name: "shell", Args: []string{"echo it's (fine)"}},
			wantOK: true,
		},
		{name: "plain argument", in: "--verbose"},
		{name: "placeholder", in: "<<name>>"},
		{name: "text around call", in: "prefix env('HOME')"},
		{name: "unquoted parameter", in: "env(HOME)"},
		{name: "unterminated quote", in: "env('HOME)"},
		{name: "trailing comma", in: "env('HOME',)"},
		{name: "missing comma", in: "env('A' 'B')"},
		{name: "name starting with digit", in: "1f('x')"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.in)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCall_StringRoundTrip(t *testing.T) {
	c := &Call{Name: "shell", Args: []string{`it's`, `back\slash`}}

	got, ok := Parse(c.String())
	require.True(t, ok)
	assert.Equal(t, c, got)
}
