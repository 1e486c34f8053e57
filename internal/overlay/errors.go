// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package overlay

import (
	"errors"
)

var (
	// ErrUnknownMode is returned for an unrecognized overlay mode value.
	ErrUnknownMode = errors.New("unknown overlay mode")
)
