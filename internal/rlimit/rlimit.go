// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package rlimit applies the soft resource ceilings for the workload.
// Application is strictly best-effort: a limit that cannot be set produces
// a warning and never aborts startup.
package rlimit

import (
	"log/slog"

	"golang.org/x/sys/unix"
)

// Limits are the soft ceilings applied once at boot.
type Limits struct {
	// OpenFiles is the open file descriptor ceiling (RLIMIT_NOFILE).
	OpenFiles uint64

	// Procs is the spawnable process ceiling (RLIMIT_NPROC).
	Procs uint64

	// CoreBytes is the core dump size ceiling (RLIMIT_CORE).
	CoreBytes uint64
}

type resource struct {
	name  string
	id    int
	value uint64
}

// Apply sets each limit independently. Failures are logged with the
// attempted and the currently effective values and do not stop the
// remaining limits from being applied.
func Apply(limits Limits) {
	apply(limits, unix.Getrlimit, unix.Setrlimit)
}

func apply(
	limits Limits,
	get func(int, *unix.Rlimit) error,
	set func(int, *unix.Rlimit) error,
) {
	resources := []resource{
		{"open files", unix.RLIMIT_NOFILE, limits.OpenFiles},
		{"processes", unix.RLIMIT_NPROC, limits.Procs},
		{"core dump bytes", unix.RLIMIT_CORE, limits.CoreBytes},
	}

	for _, res := range resources {
		var current unix.Rlimit
		if err := get(res.id, &current); err != nil {
			slog.Warn("Cannot read resource limit",
				slog.String("resource", res.name),
				slog.Any("error", err))

			continue
		}

		attempt := unix.Rlimit{Cur: res.value, Max: current.Max}
		if attempt.Cur > attempt.Max {
			attempt.Max = attempt.Cur
		}

		if err := set(res.id, &attempt); err != nil {
			slog.Warn("Cannot apply resource limit, keeping current",
				slog.String("resource", res.name),
				slog.Uint64("attempted", res.value),
				slog.Uint64("current_soft", current.Cur),
				slog.Uint64("current_hard", current.Max),
				slog.Any("error", err))

			continue
		}

		slog.Debug("Applied resource limit",
			slog.String("resource", res.name),
			slog.Uint64("soft", attempt.Cur))
	}
}
