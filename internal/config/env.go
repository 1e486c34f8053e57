// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvMaxOpenFiles  = "MAX_OPEN_FILES"
	EnvMaxProcs      = "MAX_USER_PROCS"
	EnvMaxCoreBytes  = "MAX_CORE_SIZE"
	EnvBindfsEnabled = "BINDFS_ENABLED"
	EnvBindfsSkip    = "BINDFS_SKIP_PATHS"
	EnvSkipCaseCheck = "SKIP_CASE_CHECK"
	EnvValidate      = "VALIDATE_CONFIG"
	EnvAuditLog      = "AUDIT_LOG"
	EnvAuditLogFile  = "AUDIT_LOG_FILE"
	EnvDebug         = "ENTRYPOINTD_DEBUG"
)

// FromEnv builds the configuration from the process environment.
func FromEnv() Config {
	return Config{
		MaxOpenFiles:    envUint(EnvMaxOpenFiles, DefaultMaxOpenFiles),
		MaxProcs:        envUint(EnvMaxProcs, DefaultMaxProcs),
		MaxCoreBytes:    envUint(EnvMaxCoreBytes, DefaultMaxCoreBytes),
		BindfsMode:      envBindfsMode(),
		BindfsSkipPaths: normalizeSkipPaths(os.Getenv(EnvBindfsSkip)),
		BindRoot:        DefaultBindRoot,
		CacheDir:        DefaultCacheDir,
		ControlSocket:   DefaultControlSocket,
		SkipCaseCheck:   envBool(EnvSkipCaseCheck, false),
		ValidateConfig:  envBool(EnvValidate, true),
		AuditLog:        envBool(EnvAuditLog, false),
		AuditLogFile:    DefaultAuditLogFile,
		Debug:           envBool(EnvDebug, false),
	}
}

func envUint(name string, fallback uint64) uint64 {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		slog.Warn("Ignoring malformed numeric variable",
			slog.String("name", name),
			slog.String("value", raw),
			slog.Uint64("default", fallback))

		return fallback
	}

	return value
}

func envBool(name string, fallback bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("Ignoring malformed boolean variable",
			slog.String("name", name),
			slog.String("value", raw),
			slog.Bool("default", fallback))

		return fallback
	}

	return value
}

func envBindfsMode() string {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(EnvBindfsEnabled)))

	switch raw {
	case "":
		return "auto"
	case "auto", "true", "false":
		return raw
	default:
		slog.Warn("Ignoring unknown overlay mode",
			slog.String("name", EnvBindfsEnabled),
			slog.String("value", raw),
			slog.String("default", "auto"))

		return "auto"
	}
}

func cleanPath(path string) string {
	return filepath.Clean(path)
}
