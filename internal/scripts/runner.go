// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scripts runs the startup scripts from the trusted directories:
// one set once per container lifetime, one set on every boot. Scripts are
// path-validated against traversal before execution and always run as the
// target identity.
package scripts

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"syscall"

	"github.com/aibor/entrypointd/internal/ident"
)

// Runner executes the valid scripts of one trusted directory in
// lexicographic order. Callers are expected to use numeric prefixes for
// ordering.
type Runner struct {
	// Dir is the trusted directory.
	Dir string

	// Target is the identity the scripts run as. Running as the
	// superuser, execution de-escalates to this identity.
	Target ident.Context

	// Stdout and Stderr receive the script output.
	Stdout io.Writer
	Stderr io.Writer
}

// RunAll executes all valid scripts of the directory to completion.
//
// Rejected candidates and failing scripts are logged as warnings and do
// not stop the pass; a partially initialized environment is still more
// useful than a container that refuses to start. A missing trusted
// directory is not an error.
func (r Runner) RunAll(ctx context.Context) error {
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("No script directory",
				slog.String("dir", r.Dir))

			return nil
		}

		return err
	}

	// ReadDir returns entries sorted by name.
	for _, entry := range entries {
		canonical, err := ValidateCandidate(r.Dir, entry.Name())
		if err != nil {
			slog.Warn("Rejecting startup script candidate",
				slog.String("dir", r.Dir),
				slog.String("name", entry.Name()),
				slog.Any("error", err))

			continue
		}

		if err := r.runOne(ctx, canonical); err != nil {
			slog.Warn("Startup script failed, continuing",
				slog.String("script", canonical),
				slog.Any("error", err))

			continue
		}

		slog.Info("Startup script finished",
			slog.String("script", canonical))
	}

	return nil
}

func (r Runner) runOne(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, path)
	cmd.Dir = r.Target.HomeDir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	// Supervised sub-invocation under the target identity when running
	// as the superuser; direct execution otherwise.
	if r.Target.IsRoot {
		cmd.SysProcAttr = &syscall.SysProcAttr{
			Credential: &syscall.Credential{
				Uid:    uint32(r.Target.UID),
				Gid:    uint32(r.Target.GID),
				Groups: []uint32{uint32(r.Target.GID)},
			},
		}
	}

	return cmd.Run()
}
