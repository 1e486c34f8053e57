// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package boot provides the lifecycle frame for the container entrypoint
// supervisor: the re-entry guard, the sequential setup function runner,
// signal-driven cleanup and exit status preservation.
//
// The supervisor runs exactly one linear boot sequence per container
// lifetime. Dropping privileges re-invokes the binary through a login shell,
// so the outermost invocation marks itself in the environment and any
// inherited invocation skips straight to process hand-off.
package boot
