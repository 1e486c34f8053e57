// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"log/slog"

	"github.com/aibor/entrypointd/boot"
	"github.com/aibor/entrypointd/internal/collab"
	"github.com/aibor/entrypointd/internal/config"
	"github.com/aibor/entrypointd/internal/ident"
	"github.com/aibor/entrypointd/internal/overlay"
	"github.com/aibor/entrypointd/internal/repair"
	"github.com/aibor/entrypointd/internal/rlimit"
	"github.com/aibor/entrypointd/internal/scripts"
)

func applyLimits(conf config.Config) boot.Func {
	return func(_ *boot.State) error {
		rlimit.Apply(rlimit.Limits{
			OpenFiles: conf.MaxOpenFiles,
			Procs:     conf.MaxProcs,
			CoreBytes: conf.MaxCoreBytes,
		})

		return nil
	}
}

func repairSocket(
	ctx context.Context,
	conf config.Config,
	id ident.Context,
	elevate bool,
) boot.Func {
	return func(state *boot.State) error {
		if id.UID == 0 {
			return nil
		}

		if !elevate {
			slog.Warn("Skipping control socket repair",
				slog.String("socket", conf.ControlSocket),
				slog.String("reason", "no elevated privilege"))

			return nil
		}

		socketRepair := repair.SocketRepair{
			Socket: conf.ControlSocket,
			Group:  repair.SocketGroup,
			Target: id,
			Run:    repair.ElevatedRunner(id.IsRoot),
		}

		changed, err := socketRepair.Repair(ctx)
		if err != nil {
			slog.Warn("Control socket repair failed",
				slog.String("socket", conf.ControlSocket),
				slog.Any("error", err))

			return nil
		}

		if changed {
			state.SetGroupChanged()
		}

		return nil
	}
}

func repairCache(
	ctx context.Context,
	conf config.Config,
	id ident.Context,
	elevate bool,
) boot.Func {
	return func(_ *boot.State) error {
		if !elevate {
			slog.Warn("Skipping shared cache repair",
				slog.String("dir", conf.CacheDir),
				slog.String("reason", "no elevated privilege"))

			return nil
		}

		cacheRepair := repair.CacheRepair{
			Dir:    conf.CacheDir,
			Target: id,
			Run:    repair.ElevatedRunner(id.IsRoot),
		}

		if err := cacheRepair.Repair(ctx); err != nil {
			slog.Warn("Shared cache repair failed",
				slog.String("dir", conf.CacheDir),
				slog.Any("error", err))
		}

		return nil
	}
}

func applyOverlays(
	ctx context.Context,
	conf config.Config,
	id ident.Context,
	elevate bool,
) boot.Func {
	return func(_ *boot.State) error {
		// The mode string is normalized at configuration intake, so
		// parsing cannot fail here.
		mode, _ := overlay.ParseMode(conf.BindfsMode)

		engine := &overlay.Engine{
			Root:       conf.BindRoot,
			Mode:       mode,
			SkipPaths:  conf.BindfsSkipPaths,
			Target:     id,
			CanElevate: elevate,
			Run:        repair.ElevatedRunner(id.IsRoot),
		}

		if err := engine.Apply(ctx); err != nil {
			slog.Warn("Mount overlay pass failed",
				slog.Any("error", err))

			return nil
		}

		if mode == overlay.ModeDisabled {
			return nil
		}

		if err := overlay.SweepHidden(conf.BindRoot); err != nil {
			slog.Debug("Overlay artifact sweep skipped",
				slog.Any("error", err))
		}

		return nil
	}
}

func checkCaseSensitivity(conf config.Config) boot.Func {
	return func(_ *boot.State) error {
		if conf.SkipCaseCheck {
			return nil
		}

		sensitive, err := collab.CheckCaseSensitivity(conf.BindRoot)
		if err != nil {
			slog.Debug("Case-sensitivity probe skipped",
				slog.String("dir", conf.BindRoot),
				slog.Any("error", err))

			return nil
		}

		if !sensitive {
			slog.Warn("Filesystem is case-insensitive, "+
				"tooling may misbehave",
				slog.String("dir", conf.BindRoot))
		}

		return nil
	}
}

func runOnceScripts(
	ctx context.Context,
	conf config.Config,
	id ident.Context,
	cfg IO,
) boot.Func {
	return func(_ *boot.State) error {
		marker := scripts.MarkerAt(id, config.MarkerName)
		if marker.Exists() {
			slog.Debug("One-time setup already executed",
				slog.String("marker", marker.Path))

			return nil
		}

		runner := scripts.Runner{
			Dir:    config.ScriptsOnceDir,
			Target: id,
			Stdout: cfg.Stdout,
			Stderr: cfg.Stderr,
		}

		if err := runner.RunAll(ctx); err != nil {
			slog.Warn("One-time script pass failed",
				slog.String("dir", config.ScriptsOnceDir),
				slog.Any("error", err))

			return nil
		}

		if err := marker.Create(); err != nil {
			slog.Warn("Cannot create first-run marker, "+
				"one-time scripts will run again next boot",
				slog.String("marker", marker.Path),
				slog.Any("error", err))
		}

		return nil
	}
}

func runBootScripts(
	ctx context.Context,
	conf config.Config,
	id ident.Context,
	cfg IO,
) boot.Func {
	return func(_ *boot.State) error {
		runner := scripts.Runner{
			Dir:    config.ScriptsBootDir,
			Target: id,
			Stdout: cfg.Stdout,
			Stderr: cfg.Stderr,
		}

		if err := runner.RunAll(ctx); err != nil {
			slog.Warn("Boot script pass failed",
				slog.String("dir", config.ScriptsBootDir),
				slog.Any("error", err))
		}

		return nil
	}
}
