// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package overlay_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibor/entrypointd/internal/overlay"
)

func TestProbePermissions(t *testing.T) {
	t.Run("honoring filesystem", func(t *testing.T) {
		dir := t.TempDir()

		honored, err := overlay.ProbePermissions(dir)
		require.NoError(t, err)

		assert.True(t, honored)

		// The probe file is cleaned up in every case.
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("unwritable directory", func(t *testing.T) {
		if os.Getuid() == 0 {
			t.Skip("write permission is not enforced for root")
		}

		dir := filepath.Join(t.TempDir(), "ro")
		require.NoError(t, os.Mkdir(dir, 0o555))

		_, err := overlay.ProbePermissions(dir)
		require.Error(t, err)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := overlay.ProbePermissions(
			filepath.Join(t.TempDir(), "nonexistent"))
		require.Error(t, err)
	})
}
