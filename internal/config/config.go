// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config collects the supervisor's configuration from the
// environment. Every knob is optional and has a documented default;
// malformed values produce a warning and fall back to the default, since
// configuration problems must not keep a container from starting.
package config

import (
	"strings"
)

// Fixed filesystem contract. These are trusted, non-configurable locations.
const (
	// ScriptsOnceDir holds scripts run once per container lifetime.
	ScriptsOnceDir = "/etc/entrypointd/init.d"

	// ScriptsBootDir holds scripts run on every boot.
	ScriptsBootDir = "/etc/entrypointd/boot.d"

	// MarkerName is the first-run marker file created in the target
	// identity's home directory after the one-time scripts ran.
	MarkerName = ".entrypointd_initialized"

	// DefaultBindRoot is the trusted subtree under which host bind mounts
	// are inspected and repaired.
	DefaultBindRoot = "/mnt/workspaces"

	// DefaultCacheDir is the shared package cache that may be mounted
	// across containers with differing identities.
	DefaultCacheDir = "/var/cache/shared"

	// DefaultControlSocket is the interprocess control socket the target
	// identity needs access to.
	DefaultControlSocket = "/var/run/docker.sock"

	// ValidatorPath is the optional configuration validation program. Its
	// absence disables validation; its failure aborts boot.
	ValidatorPath = "/usr/local/bin/entrypointd-validate"

	// DefaultAuditLogFile receives audit records when audit logging is
	// enabled.
	DefaultAuditLogFile = "/var/log/entrypointd/audit.log"
)

// Resource limit defaults, applied best-effort on every boot.
const (
	DefaultMaxOpenFiles = 1048576
	DefaultMaxProcs     = 32768
	DefaultMaxCoreBytes = 0
)

// Config is the complete environment-derived configuration. It is built
// once at startup and read-only afterwards.
type Config struct {
	// MaxOpenFiles, MaxProcs and MaxCoreBytes are the soft resource
	// ceilings applied at boot.
	MaxOpenFiles uint64
	MaxProcs     uint64
	MaxCoreBytes uint64

	// BindfsMode selects the mount overlay behavior: "auto", "true" or
	// "false".
	BindfsMode string

	// BindfsSkipPaths lists mount points exempt from overlay repair,
	// normalized to clean absolute paths.
	BindfsSkipPaths []string

	// BindRoot is the trusted subtree for mount inspection.
	BindRoot string

	// CacheDir is the shared cache directory checked for foreign
	// ownership.
	CacheDir string

	// ControlSocket is the interprocess control socket path.
	ControlSocket string

	// SkipCaseCheck disables the advisory case-sensitivity probe.
	SkipCaseCheck bool

	// ValidateConfig enables the optional pre-boot validation call.
	ValidateConfig bool

	// AuditLog enables the structured audit log collaborator.
	AuditLog bool

	// AuditLogFile is the audit record destination.
	AuditLogFile string

	// Debug raises the log level to debug.
	Debug bool
}

// normalizeSkipPaths splits a comma-separated path list, trims whitespace
// and drops entries that are empty or not absolute.
func normalizeSkipPaths(raw string) []string {
	if raw == "" {
		return nil
	}

	var paths []string

	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" || !strings.HasPrefix(entry, "/") {
			continue
		}

		paths = append(paths, cleanPath(entry))
	}

	return paths
}
