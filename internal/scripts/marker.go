// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package scripts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aibor/entrypointd/internal/ident"
)

// Marker is the first-run marker file under the target identity's home
// directory. Its presence is the entire state machine for "one-time setup
// has executed". It is never deleted by the supervisor.
type Marker struct {
	// Path is the marker file location.
	Path string

	// Target owns the marker once created.
	Target ident.Context
}

// MarkerAt returns the Marker for the given file name in the target
// identity's home directory.
func MarkerAt(target ident.Context, name string) Marker {
	return Marker{
		Path:   filepath.Join(target.HomeDir, name),
		Target: target,
	}
}

// Exists reports whether the one-time setup already executed.
func (m Marker) Exists() bool {
	_, err := os.Stat(m.Path)

	return err == nil
}

// Create writes the marker, owned by the target identity.
func (m Marker) Create() error {
	if err := os.MkdirAll(filepath.Dir(m.Path), 0o755); err != nil {
		return fmt.Errorf("marker directory: %w", err)
	}

	if err := os.WriteFile(m.Path, nil, 0o644); err != nil {
		return fmt.Errorf("create marker: %w", err)
	}

	if m.Target.IsRoot {
		err := os.Chown(m.Path, m.Target.UID, m.Target.GID)
		if err != nil {
			return fmt.Errorf("own marker: %w", err)
		}
	}

	return nil
}
