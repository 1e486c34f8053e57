// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package collab

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
)

// ErrValidationFailed is returned if the configuration validator rejects
// the environment. This is one of the two fatal boot conditions.
var ErrValidationFailed = errors.New("configuration validation failed")

// RunValidator runs the optional configuration validation program. A
// missing program means validation is not installed and boot proceeds; a
// present program must succeed before boot proceeds.
func RunValidator(ctx context.Context, path string, out io.Writer) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("No configuration validator installed",
				slog.String("path", path))

			return nil
		}

		return fmt.Errorf("validator: %w", err)
	}

	cmd := exec.CommandContext(ctx, path)
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	return nil
}
