// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package scripts_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibor/entrypointd/internal/scripts"
)

func TestValidateCandidate(t *testing.T) {
	base := t.TempDir()
	trusted := filepath.Join(base, "init.d")
	require.NoError(t, os.Mkdir(trusted, 0o755))

	write := func(path string) {
		t.Helper()
		require.NoError(t,
			os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	}

	write(filepath.Join(trusted, "10-ok.sh"))
	write(filepath.Join(base, "outside.sh"))
	require.NoError(t, os.Mkdir(filepath.Join(trusted, "subdir"), 0o755))
	require.NoError(t, os.Symlink(
		filepath.Join(base, "outside.sh"),
		filepath.Join(trusted, "20-link.sh")))

	tests := []struct {
		name        string
		candidate   string
		expected    string
		expectedErr error
	}{
		{
			name:      "regular file inside",
			candidate: "10-ok.sh",
			expected:  filepath.Join(trusted, "10-ok.sh"),
		},
		{
			name:        "symlink",
			candidate:   "20-link.sh",
			expectedErr: scripts.ErrSymlink,
		},
		{
			name:        "directory",
			candidate:   "subdir",
			expectedErr: scripts.ErrNotRegular,
		},
		{
			name:        "missing",
			candidate:   "nonexistent.sh",
			expectedErr: scripts.ErrUnresolvable,
		},
		{
			name:        "traversal name",
			candidate:   "../outside.sh",
			expectedErr: scripts.ErrOutsideTrustedDir,
		},
		{
			name:        "trusted directory itself",
			candidate:   ".",
			expectedErr: scripts.ErrNotRegular,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := scripts.ValidateCandidate(trusted, tt.candidate)
			require.ErrorIs(t, err, tt.expectedErr)

			if tt.expectedErr == nil {
				resolved, err := filepath.EvalSymlinks(tt.expected)
				require.NoError(t, err)
				assert.Equal(t, resolved, actual)
			}
		})
	}
}

func TestValidateCandidateMissingDir(t *testing.T) {
	_, err := scripts.ValidateCandidate(
		filepath.Join(t.TempDir(), "nonexistent"), "a.sh")
	require.ErrorIs(t, err, scripts.ErrUnresolvable)
}
