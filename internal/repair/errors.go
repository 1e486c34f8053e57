// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package repair

import (
	"errors"
)

var (
	// ErrNotASocket is returned if the control socket path exists but is
	// not a socket.
	ErrNotASocket = errors.New("not a socket")
)
