// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ident

import (
	"context"
	"os/exec"
)

// CanElevate reports whether the process can act with elevated privilege:
// either it is the superuser already or passwordless elevation via sudo is
// available.
func CanElevate(ctx context.Context, id Context) bool {
	if id.IsRoot {
		return true
	}

	return sudoProbe(ctx)
}

// sudoProbe checks for passwordless sudo. Overridable for tests.
var sudoProbe = func(ctx context.Context) bool {
	sudo, err := exec.LookPath("sudo")
	if err != nil {
		return false
	}

	return exec.CommandContext(ctx, sudo, "-n", "true").Run() == nil
}
