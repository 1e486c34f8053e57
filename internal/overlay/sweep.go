// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package overlay

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	// hiddenPrefix marks artifact files a FUSE overlay leaves behind when
	// a file is deleted while still held open.
	hiddenPrefix = ".fuse_hidden"

	// sweepDepth bounds the artifact scan below the trusted root.
	sweepDepth = 2
)

// SweepHidden removes stale overlay artifact files below root that are
// not currently held open by any live process. The scan is bounded to
// [sweepDepth] directory levels.
func SweepHidden(root string) error {
	root = filepath.Clean(root)

	walkFn := func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}

			// Unreadable subtrees are not worth failing the sweep for.
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		if entry.IsDir() {
			if pathDepth(root, path) >= sweepDepth {
				return fs.SkipDir
			}

			return nil
		}

		if !strings.HasPrefix(entry.Name(), hiddenPrefix) {
			return nil
		}

		if heldOpen(path) {
			slog.Debug("Keeping overlay artifact still held open",
				slog.String("path", path))

			return nil
		}

		if err := os.Remove(path); err != nil {
			slog.Warn("Cannot remove stale overlay artifact",
				slog.String("path", path),
				slog.Any("error", err))

			return nil
		}

		slog.Info("Removed stale overlay artifact",
			slog.String("path", path))

		return nil
	}

	if err := filepath.WalkDir(root, walkFn); err != nil {
		return fmt.Errorf("sweep %s: %w", root, err)
	}

	return nil
}

func pathDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}

	return strings.Count(rel, string(filepath.Separator)) + 1
}

// heldOpen reports whether any live process holds the given file open,
// checked against the file descriptor tables in /proc.
func heldOpen(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	procs, err := os.ReadDir("/proc")
	if err != nil {
		return false
	}

	for _, proc := range procs {
		name := proc.Name()
		if name[0] < '0' || name[0] > '9' {
			continue
		}

		fdDir := filepath.Join("/proc", name, "fd")

		fds, err := os.ReadDir(fdDir)
		if err != nil {
			// Other identities' processes are not readable; those cannot
			// hold a file this process may remove anyway.
			continue
		}

		for _, fd := range fds {
			target, err := os.Readlink(filepath.Join(fdDir, fd.Name()))
			if err != nil {
				continue
			}

			if target == abs {
				return true
			}
		}
	}

	return false
}
