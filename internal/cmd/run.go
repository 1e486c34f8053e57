// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/aibor/entrypointd/boot"
	"github.com/aibor/entrypointd/internal/collab"
	"github.com/aibor/entrypointd/internal/config"
	"github.com/aibor/entrypointd/internal/handoff"
	"github.com/aibor/entrypointd/internal/ident"
	"github.com/aibor/entrypointd/internal/repair"
)

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run is the main entry point for the entrypointd binary. The given args
// are the full process arguments; everything after the program name is
// the user's command, handed off byte-exact once the environment is
// ready.
//
// It returns the exit status for [os.Exit]. On a successful hand-off it
// does not return at all since the process image is replaced.
func Run(args []string, cfg IO) int {
	conf := config.FromEnv()
	setupLogging(cfg.Stderr, conf.Debug)

	userArgs := args[1:]

	// An invocation chain carrying the re-entry flag already ran the
	// boot sequence; only the hand-off is left.
	if boot.Entered() {
		err := handoff.Handoff{Argv: userArgs}.Exec()
		slog.Error("Process hand-off failed", slog.Any("error", err))

		return boot.ExitCodeFrom(err)
	}

	state := boot.NewState(cfg.Stderr)

	stop := boot.HandleSignals(state, os.Exit)
	defer stop()

	err := run(conf, state, cfg, userArgs, stop)
	// Reaching this point means the boot sequence or the hand-off
	// failed; a successful hand-off never returns.
	slog.Error("Boot failed", slog.Any("error", err))

	return state.Shutdown(boot.ExitCodeFrom(err))
}

func run(
	conf config.Config,
	state *boot.State,
	cfg IO,
	userArgs []string,
	stopSignals func(),
) error {
	ctx := context.Background()

	// The two fatal conditions come first: explicit validation failure
	// and an unresolvable target identity. Everything after is advisory.
	if conf.ValidateConfig {
		err := collab.RunValidator(ctx, config.ValidatorPath, cfg.Stderr)
		if err != nil {
			return err
		}
	}

	id, err := ident.Resolve()
	if err != nil {
		return err
	}

	if err := boot.MarkEntered(); err != nil {
		return err
	}

	audit := newAuditLogger(conf, state)
	audit.Log("boot", "info", "boot sequence started", map[string]string{
		"user": id.User,
		"uid":  strconv.Itoa(id.UID),
		"root": strconv.FormatBool(id.IsRoot),
	})

	elevate := ident.CanElevate(ctx, id)
	if !elevate {
		slog.Warn("No elevated privilege available, " +
			"skipping privileged repairs; " +
			"package-manager operations may fail later")
	}

	err = boot.Run(state,
		applyLimits(conf),
		repairSocket(ctx, conf, id, elevate),
		repairCache(ctx, conf, id, elevate),
		applyOverlays(ctx, conf, id, elevate),
		checkCaseSensitivity(conf),
		runOnceScripts(ctx, conf, id, cfg),
		runBootScripts(ctx, conf, id, cfg),
	)
	if err != nil {
		return err
	}

	workDir, err := os.Getwd()
	if err != nil {
		workDir = "/"
	}

	self, err := os.Executable()
	if err != nil {
		return err
	}

	audit.Log("boot", "info", "handing off to user command", nil)

	// Cleanup and signal handling do not survive the process
	// replacement, so both finish here. The shutdown notice is not
	// printed yet; a failing hand-off still carries its own status.
	stopSignals()
	state.Cleanup()

	return handoff.Handoff{
		Argv:         userArgs,
		WorkDir:      workDir,
		Target:       id,
		GroupChanged: state.GroupChanged(),
		Group:        repair.SocketGroup,
		SelfPath:     self,
	}.Exec()
}

// newAuditLogger returns the configured audit sink and hooks its flush
// into the shutdown path. Audit logging is advisory; a sink that cannot
// be opened degrades to discarding records.
func newAuditLogger(conf config.Config, state *boot.State) collab.AuditLogger {
	if !conf.AuditLog {
		return collab.NopAuditLogger{}
	}

	logger, err := collab.NewFileAuditLogger(conf.AuditLogFile)
	if err != nil {
		slog.Warn("Audit log unavailable, discarding records",
			slog.String("file", conf.AuditLogFile),
			slog.Any("error", err))

		return collab.NopAuditLogger{}
	}

	state.OnShutdown(logger.Close)
	state.OnShutdown(func() error {
		return collab.FlushAll(logger)
	})

	return logger
}
