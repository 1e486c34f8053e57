// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package overlay

import (
	"fmt"
	"os"
)

// probeMode is the permission value requested on the probe file. An
// uncommon value, so a faked read-back cannot match it by accident.
const probeMode = os.FileMode(0o604)

// ProbePermissions reports whether permission changes inside dir take
// effect: it creates a uniquely-named file, requests [probeMode] on it and
// reads the resulting permissions back.
//
// The probe file is removed in every case. An error means the directory is
// not even writable by this process.
func ProbePermissions(dir string) (bool, error) {
	file, err := os.CreateTemp(dir, ".entrypointd-probe-*")
	if err != nil {
		return false, fmt.Errorf("create probe file: %w", err)
	}

	path := file.Name()
	defer func() {
		_ = os.Remove(path)
	}()

	_ = file.Close()

	if err := os.Chmod(path, probeMode); err != nil {
		// The mount refuses the change outright, which is just another
		// way of not honoring it.
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("read probe file back: %w", err)
	}

	return info.Mode().Perm() == probeMode, nil
}
