// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package boot

import (
	"fmt"
	"os"
)

// ReentryFlag is the environment variable that marks an invocation chain
// where the boot sequence already ran.
//
// The flag is inherited through the login-shell privilege drop. It is the
// only state that crosses the privilege-transition boundary.
const ReentryFlag = "ENTRYPOINTD_ALREADY_RAN"

// Entered reports whether the boot sequence already ran in this invocation
// chain.
func Entered() bool {
	return os.Getenv(ReentryFlag) != ""
}

// MarkEntered sets [ReentryFlag] so that any child invocation skips the
// boot sequence and goes straight to process hand-off.
func MarkEntered() error {
	if err := os.Setenv(ReentryFlag, "1"); err != nil {
		return fmt.Errorf("set re-entry flag: %w", err)
	}

	return nil
}
