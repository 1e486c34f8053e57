// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package handoff_test

import (
	"bytes"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibor/entrypointd/internal/handoff"
)

func TestQuoteArg(t *testing.T) {
	tests := []struct {
		name     string
		arg      string
		expected string
	}{
		{
			name:     "plain",
			arg:      "hello",
			expected: "'hello'",
		},
		{
			name:     "empty",
			arg:      "",
			expected: "''",
		},
		{
			name:     "spaces",
			arg:      "a b  c",
			expected: "'a b  c'",
		},
		{
			name:     "single quote",
			arg:      "it's",
			expected: `'it'\''s'`,
		},
		{
			name:     "only quotes",
			arg:      "''",
			expected: `''\'''\'''`,
		},
		{
			name:     "dollar and glob stay literal",
			arg:      "$HOME/*",
			expected: "'$HOME/*'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, handoff.QuoteArg(tt.arg))
		})
	}
}

// TestQuoteRoundTrip feeds the quoted form through an actual POSIX shell
// and checks that the reconstructed argument vector is identical
// element-for-element.
func TestQuoteRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{
			name: "single word",
			args: []string{"ls"},
		},
		{
			name: "spaces and tabs",
			args: []string{"a b", "c\td", "  "},
		},
		{
			name: "empty elements",
			args: []string{"", "x", ""},
		},
		{
			name: "quotes",
			args: []string{"it's", `say "hi"`, `'\''`},
		},
		{
			name: "shell metacharacters",
			args: []string{"$HOME", "`id`", "a;b|c&d", "*", ">out"},
		},
		{
			name: "newline",
			args: []string{"line1\nline2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := `printf '%s\000' ` + handoff.Quote(tt.args)

			out, err := exec.Command("sh", "-c", script).Output()
			require.NoError(t, err)

			fields := bytes.Split(out, []byte{0})
			require.NotEmpty(t, fields)

			// Split leaves one empty trailing field after the final NUL.
			fields = fields[:len(fields)-1]

			actual := make([]string, len(fields))
			for idx, field := range fields {
				actual[idx] = string(field)
			}

			assert.Equal(t, tt.args, actual)
		})
	}
}
