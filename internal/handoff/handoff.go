// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handoff performs the terminal step of the boot sequence: the
// privilege drop and the replacement of the supervisor's process image
// with the user's command. After a successful hand-off no supervisor code
// runs again for the life of the container's main process.
package handoff

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/aibor/entrypointd/boot"
	"github.com/aibor/entrypointd/internal/ident"
)

// Handoff describes the process replacement.
type Handoff struct {
	// Argv is the user's command and arguments, byte-exact.
	Argv []string

	// WorkDir is the original working directory the command runs in.
	WorkDir string

	// Target is the identity the command runs as.
	Target ident.Context

	// GroupChanged reports a mid-boot group membership change that only
	// takes effect in a fresh group context.
	GroupChanged bool

	// Group is the group granted mid-boot.
	Group string

	// SelfPath is the supervisor binary, re-invoked across the privilege
	// transition. The inherited re-entry flag makes that invocation skip
	// straight back here.
	SelfPath string
}

// Seams for tests; process replacement cannot run inside a test binary.
var (
	sysExec  = unix.Exec
	lookPath = exec.LookPath
)

// Exec replaces the current process image. It does not return on success.
//
// Running as the superuser it transitions to the target identity through
// a fresh login context, so that any mid-boot group grant takes effect.
// Unprivileged with a group grant pending it re-execs into the new group
// context. Otherwise it replaces the image directly.
func (h Handoff) Exec() error {
	if len(h.Argv) == 0 {
		return ErrEmptyCommand
	}

	// The thread calling exec must not be rescheduled away.
	runtime.LockOSThread()

	switch {
	case h.Target.IsRoot:
		return h.execLogin()
	case h.GroupChanged:
		return h.execNewGroup()
	default:
		return h.execDirect()
	}
}

// execLogin drops privileges through a login shell. The login context
// starts from a scrubbed environment, so the re-entry flag rides inside
// the command line together with the working directory change.
func (h Handoff) execLogin() error {
	command := loginCommand(h.SelfPath, h.WorkDir, h.Argv)

	su, err := lookPath("su")
	if err != nil {
		return fmt.Errorf("locate su: %w", err)
	}

	argv := []string{"su", "-l", h.Target.User, "-c", command}
	if err := sysExec(su, argv, os.Environ()); err != nil {
		return fmt.Errorf("exec login context: %w", err)
	}

	return nil
}

// execNewGroup re-execs the supervisor under the granted group. The
// environment, including the re-entry flag, and the working directory are
// inherited.
func (h Handoff) execNewGroup() error {
	command := "exec " + Quote(append([]string{h.SelfPath}, h.Argv...))

	sg, err := lookPath("sg")
	if err != nil {
		return fmt.Errorf("locate sg: %w", err)
	}

	argv := []string{"sg", h.Group, "-c", command}
	if err := sysExec(sg, argv, os.Environ()); err != nil {
		return fmt.Errorf("exec group context: %w", err)
	}

	return nil
}

func (h Handoff) execDirect() error {
	path, err := lookPath(h.Argv[0])
	if err != nil {
		return fmt.Errorf("locate %s: %w", h.Argv[0], err)
	}

	if err := sysExec(path, h.Argv, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", h.Argv[0], err)
	}

	return nil
}

func loginCommand(self, workDir string, argv []string) string {
	return "export " + boot.ReentryFlag + "=1" +
		" && cd " + QuoteArg(workDir) +
		" && exec " + Quote(append([]string{self}, argv...))
}
