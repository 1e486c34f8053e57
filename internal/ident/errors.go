// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ident

import (
	"errors"
)

var (
	// ErrNoTargetIdentity is returned if the well-known target identity
	// does not exist in the system identity database. This is fatal;
	// there is no safe identity to fall back to.
	ErrNoTargetIdentity = errors.New("no target identity")

	// ErrNotFound is returned if an identity database lookup has no
	// match.
	ErrNotFound = errors.New("identity not found")
)
