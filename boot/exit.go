// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package boot

import (
	"errors"
	"fmt"
)

// ExitError is an exit status that is considered an error.
//
// A [Func] returns it to make the supervisor exit with a specific status
// instead of the generic failure status.
type ExitError int

func (e ExitError) Error() string {
	return fmt.Sprintf("non-zero exit status: %d", e)
}

func (ExitError) Is(other error) bool {
	_, ok := other.(ExitError)
	return ok
}

// Code returns the exit status as basic int type.
func (e ExitError) Code() int {
	return int(e)
}

// ExitCodeFrom returns the exit status for the given error.
//
// If the error is nil the status is 0. If the error is an [ExitError] the
// status is its [ExitError.Code]. Any other error maps to 1.
func ExitCodeFrom(err error) int {
	if err == nil {
		return 0
	}

	var exitErr ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code()
	}

	return 1
}
