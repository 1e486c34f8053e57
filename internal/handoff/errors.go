// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package handoff

import (
	"errors"
)

var (
	// ErrEmptyCommand is returned if there is no command to hand off to.
	ErrEmptyCommand = errors.New("empty command")
)
