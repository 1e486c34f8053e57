// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package collab

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// CheckCaseSensitivity probes whether the filesystem holding dir treats
// file names case-sensitively. The result is advisory only; tooling on a
// case-insensitive mount misbehaves in subtle ways and a warning is all
// the supervisor can offer.
func CheckCaseSensitivity(dir string) (bool, error) {
	probeDir, err := os.MkdirTemp(dir, ".casecheck-*")
	if err != nil {
		return false, fmt.Errorf("create probe directory: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(probeDir)
	}()

	lower := filepath.Join(probeDir, "aa")
	upper := filepath.Join(probeDir, "AA")

	if err := os.WriteFile(lower, nil, 0o644); err != nil {
		return false, fmt.Errorf("create probe file: %w", err)
	}

	_, err = os.Stat(upper)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}

	if err != nil {
		return false, fmt.Errorf("probe upper-case name: %w", err)
	}

	return false, nil
}
