// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package scripts

import (
	"errors"
)

var (
	// ErrSymlink is returned for candidates that are symbolic links.
	ErrSymlink = errors.New("candidate is a symbolic link")

	// ErrNotRegular is returned for candidates that are not regular
	// files.
	ErrNotRegular = errors.New("candidate is not a regular file")

	// ErrUnresolvable is returned if a candidate's canonical path cannot
	// be resolved.
	ErrUnresolvable = errors.New("candidate cannot be resolved")

	// ErrOutsideTrustedDir is returned if a candidate's canonical path
	// does not lie strictly inside the trusted directory.
	ErrOutsideTrustedDir = errors.New("candidate escapes trusted directory")
)
