// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package boot

import (
	"errors"
)

var (
	// ErrPanic is returned if a [Func] panicked.
	ErrPanic = errors.New("function panicked")
)
