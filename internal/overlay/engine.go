// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package overlay

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/moby/sys/mountinfo"

	"github.com/aibor/entrypointd/internal/ident"
	"github.com/aibor/entrypointd/internal/repair"
)

// brokenFSTypes are filesystem types known to accept permission changes
// and silently fake the results.
var brokenFSTypes = map[string]struct{}{
	"9p":            {},
	"fakeowner":     {},
	"fuse.grpcfuse": {},
	"vboxsf":        {},
	"virtiofs":      {},
}

// translatedFS reports whether the filesystem type already is a
// permission-translation overlay.
func translatedFS(fsType string) bool {
	return fsType == "bindfs" || fsType == "fuse.bindfs"
}

// Engine inspects and repairs the mounts below the trusted root subtree.
type Engine struct {
	// Root is the trusted subtree. Mounts outside it are never touched.
	Root string

	// Mode selects the repair behavior.
	Mode Mode

	// SkipPaths are mount points exempt from repair, as normalized
	// absolute paths.
	SkipPaths []string

	// Target is the identity the overlay forces ownership to.
	Target ident.Context

	// CanElevate reports whether the overlay mount can be performed at
	// all. Without elevation affected mounts are logged and skipped.
	CanElevate bool

	// Run executes the overlay mount command, elevated as needed.
	Run repair.RunFunc

	// Probe checks whether permission changes inside a directory are
	// honored. Defaults to [ProbePermissions].
	Probe func(dir string) (bool, error)

	// Mounts enumerates the candidate mounts. Defaults to the live mount
	// table restricted to Root.
	Mounts func() ([]*mountinfo.Info, error)
}

// Apply runs the decision pass over all candidate mounts. It returns an
// error only if the mount table cannot be read; per-mount problems are
// logged and skipped.
func (e *Engine) Apply(ctx context.Context) error {
	if e.Mode == ModeDisabled {
		slog.Debug("Mount overlay disabled")

		return nil
	}

	mounts, err := e.mounts()
	if err != nil {
		return fmt.Errorf("read mount table: %w", err)
	}

	skip := make(map[string]struct{}, len(e.SkipPaths))
	for _, path := range e.SkipPaths {
		skip[filepath.Clean(path)] = struct{}{}
	}

	for _, mount := range mounts {
		target := filepath.Clean(mount.Mountpoint)
		if !underRoot(target, e.Root) {
			continue
		}

		if translatedFS(mount.FSType) {
			slog.Debug("Mount already permission-translated",
				slog.String("mount", target))

			continue
		}

		if _, ok := skip[target]; ok {
			slog.Info("Mount exempt from overlay repair",
				slog.String("mount", target))

			continue
		}

		if e.Mode == ModeAuto && !e.needsRepair(target, mount.FSType) {
			continue
		}

		e.repair(ctx, target)
	}

	return nil
}

// needsRepair decides in auto mode whether the mount fakes permission
// results, first by filesystem type, then by live probe.
func (e *Engine) needsRepair(target, fsType string) bool {
	if _, ok := brokenFSTypes[fsType]; ok {
		slog.Info("Mount type known to fake permissions",
			slog.String("mount", target),
			slog.String("fstype", fsType))

		return true
	}

	honored, err := e.probe(target)
	if err != nil {
		// Not writable by this process; nothing downstream should be
		// attempted on it either.
		slog.Debug("Skipping unprobeable mount",
			slog.String("mount", target),
			slog.Any("error", err))

		return false
	}

	if honored {
		slog.Debug("Mount honors permissions",
			slog.String("mount", target))

		return false
	}

	slog.Info("Mount does not honor permissions",
		slog.String("mount", target))

	return true
}

func (e *Engine) repair(ctx context.Context, target string) {
	if !e.CanElevate {
		slog.Warn("Cannot repair mount without elevated privilege",
			slog.String("mount", target))

		return
	}

	args := bindfsArgs(e.Target, target)
	if err := e.Run(ctx, "bindfs", args...); err != nil {
		slog.Warn("Overlay mount failed",
			slog.String("mount", target),
			slog.Any("error", err))

		return
	}

	slog.Info("Applied permission-translation overlay",
		slog.String("mount", target),
		slog.String("user", e.Target.User))
}

func (e *Engine) mounts() ([]*mountinfo.Info, error) {
	if e.Mounts != nil {
		return e.Mounts()
	}

	return mountinfo.GetMounts(mountinfo.PrefixFilter(e.Root))
}

func (e *Engine) probe(dir string) (bool, error) {
	if e.Probe != nil {
		return e.Probe(dir)
	}

	return ProbePermissions(dir)
}

// underRoot reports whether path equals root or is a descendant of it.
func underRoot(path, root string) bool {
	root = filepath.Clean(root)

	return path == root ||
		strings.HasPrefix(path, root+string(filepath.Separator))
}
