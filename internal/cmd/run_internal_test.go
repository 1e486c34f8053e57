// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibor/entrypointd/boot"
	"github.com/aibor/entrypointd/internal/collab"
	"github.com/aibor/entrypointd/internal/config"
)

func TestNewAuditLogger(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		state := boot.NewState(io.Discard)

		logger := newAuditLogger(config.Config{}, state)

		assert.IsType(t, collab.NopAuditLogger{}, logger)
	})

	t.Run("unopenable file degrades to nop", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "blocker")
		require.NoError(t, os.WriteFile(blocker, nil, 0o644))

		state := boot.NewState(io.Discard)

		logger := newAuditLogger(config.Config{
			AuditLog:     true,
			AuditLogFile: filepath.Join(blocker, "audit.log"),
		}, state)

		assert.IsType(t, collab.NopAuditLogger{}, logger)
	})

	t.Run("file sink flushed and closed at shutdown", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "audit.log")

		state := boot.NewState(io.Discard)

		logger := newAuditLogger(config.Config{
			AuditLog:     true,
			AuditLogFile: path,
		}, state)

		logger.Log("test", "info", "hello", nil)
		state.Shutdown(0)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `"message":"hello"`)
	})
}

func TestCheckCaseSensitivitySkipped(t *testing.T) {
	conf := config.Config{
		SkipCaseCheck: true,
		BindRoot:      filepath.Join(t.TempDir(), "does-not-exist"),
	}

	err := checkCaseSensitivity(conf)(nil)

	assert.NoError(t, err)
}

func TestApplyLimitsNeverFails(t *testing.T) {
	conf := config.Config{
		MaxOpenFiles: config.DefaultMaxOpenFiles,
		MaxProcs:     config.DefaultMaxProcs,
		MaxCoreBytes: config.DefaultMaxCoreBytes,
	}

	err := applyLimits(conf)(nil)

	assert.NoError(t, err)
}
