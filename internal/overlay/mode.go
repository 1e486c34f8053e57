// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package overlay

import (
	"fmt"
)

// Mode selects the overlay repair behavior.
type Mode int

const (
	// ModeAuto repairs mounts whose filesystem type is known to fake
	// permission results or whose live probe shows unhonored permissions.
	ModeAuto Mode = iota

	// ModeAlways repairs every candidate mount.
	ModeAlways

	// ModeDisabled performs no inspection at all.
	ModeDisabled
)

// ParseMode parses the configuration value of the overlay mode.
func ParseMode(value string) (Mode, error) {
	switch value {
	case "", "auto":
		return ModeAuto, nil
	case "true", "always":
		return ModeAlways, nil
	case "false", "disabled":
		return ModeDisabled, nil
	default:
		return ModeAuto, fmt.Errorf("%w: %q", ErrUnknownMode, value)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeAlways:
		return "always"
	case ModeDisabled:
		return "disabled"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}
