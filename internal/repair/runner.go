// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package repair

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// RunFunc executes a repair command to completion.
type RunFunc func(ctx context.Context, name string, args ...string) error

// ElevatedRunner returns a [RunFunc] that runs commands directly when the
// process is the superuser and through passwordless sudo otherwise.
func ElevatedRunner(isRoot bool) RunFunc {
	return func(ctx context.Context, name string, args ...string) error {
		if !isRoot {
			args = append([]string{"-n", name}, args...)
			name = "sudo"
		}

		out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
		if err != nil {
			return fmt.Errorf("%s: %w: %s",
				name, err, bytes.TrimSpace(out))
		}

		return nil
	}
}
