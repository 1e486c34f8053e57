// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package boot_test

import (
	"testing"

	"github.com/aibor/entrypointd/boot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReentry(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		t.Setenv(boot.ReentryFlag, "")

		assert.False(t, boot.Entered())
	})

	t.Run("mark and observe", func(t *testing.T) {
		t.Setenv(boot.ReentryFlag, "")

		require.NoError(t, boot.MarkEntered())
		assert.True(t, boot.Entered())

		// Marking again must be stable.
		require.NoError(t, boot.MarkEntered())
		assert.True(t, boot.Entered())
	})

	t.Run("inherited value", func(t *testing.T) {
		t.Setenv(boot.ReentryFlag, "1")

		assert.True(t, boot.Entered())
	})
}
