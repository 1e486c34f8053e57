// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package repair

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/aibor/entrypointd/internal/ident"
)

// probeLimit bounds the number of first-level cache entries inspected for
// foreign ownership. The probe only decides whether a repair is needed at
// all; the repair itself covers the whole directory.
const probeLimit = 256

// CacheRepair re-owns the shared cache directory to the target identity
// when any superuser-owned entry is found in it.
type CacheRepair struct {
	// Dir is the shared cache directory.
	Dir string

	// Target is the identity the cache is re-owned to.
	Target ident.Context

	// Run executes the repair command when the process is not the
	// superuser itself.
	Run RunFunc
}

// Repair checks the cache directory with a bounded probe and re-owns it
// recursively when superuser-owned entries are present.
func (r CacheRepair) Repair(ctx context.Context) error {
	info, err := os.Stat(r.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("No shared cache present",
				slog.String("dir", r.Dir))

			return nil
		}

		return fmt.Errorf("stat cache: %w", err)
	}

	needed, err := r.probe(info)
	if err != nil {
		return err
	}

	if !needed {
		slog.Debug("Shared cache ownership intact",
			slog.String("dir", r.Dir))

		return nil
	}

	slog.Info("Re-owning shared cache",
		slog.String("dir", r.Dir),
		slog.String("user", r.Target.User))

	if r.Target.IsRoot {
		return chownTree(r.Dir, r.Target.UID, r.Target.GID)
	}

	owner := strconv.Itoa(r.Target.UID) + ":" + strconv.Itoa(r.Target.GID)
	if err := r.Run(ctx, "chown", "-R", owner, r.Dir); err != nil {
		return fmt.Errorf("re-own cache: %w", err)
	}

	return nil
}

// probe reports whether the cache directory or any of its first-level
// entries is superuser-owned while the target identity is not.
func (r CacheRepair) probe(info fs.FileInfo) (bool, error) {
	if r.Target.UID == 0 {
		return false, nil
	}

	if ownedByRoot(info) {
		return true, nil
	}

	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		return false, fmt.Errorf("read cache: %w", err)
	}

	if len(entries) > probeLimit {
		entries = entries[:probeLimit]
	}

	for _, entry := range entries {
		entryInfo, err := entry.Info()
		if err != nil {
			continue
		}

		if ownedByRoot(entryInfo) {
			return true, nil
		}
	}

	return false, nil
}

func ownedByRoot(info fs.FileInfo) bool {
	stat, ok := info.Sys().(*syscall.Stat_t)

	return ok && stat.Uid == 0
}

// chownTree re-owns the whole directory tree. Symlinks are re-owned
// themselves, not followed.
func chownTree(root string, uid, gid int) error {
	walkFn := func(path string, _ fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if err := os.Lchown(path, uid, gid); err != nil {
			return fmt.Errorf("chown %s: %w", path, err)
		}

		return nil
	}

	if err := filepath.WalkDir(root, walkFn); err != nil {
		return fmt.Errorf("re-own cache: %w", err)
	}

	return nil
}
