// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package overlay

import (
	"strconv"

	"github.com/aibor/entrypointd/internal/ident"
)

// permPolicy is the fixed permission remapping applied by the overlay:
// owner read/write/execute, group and other read with directories
// executable.
const permPolicy = "u=rwx:g=rD:o=rD"

// bindfsArgs builds the argument list for over-mounting the given mount
// point with itself, forcing ownership to the target identity.
func bindfsArgs(target ident.Context, mountPoint string) []string {
	uid := strconv.Itoa(target.UID)
	gid := strconv.Itoa(target.GID)

	return []string{
		"--force-user=" + uid,
		"--force-group=" + gid,
		"--create-for-user=" + uid,
		"--create-for-group=" + gid,
		"--perms=" + permPolicy,
		mountPoint,
		mountPoint,
	}
}
