// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package boot

import (
	"fmt"
)

// Func is a single setup step run by [Run].
type Func func(*State) error

// Run runs the given setup [Func]s in order, stopping at the first error.
//
// Funcs must not terminate the process themselves (e.g. by [os.Exit]);
// instead they return an error, optionally an [ExitError] to select the
// status the supervisor exits with. Panics are recovered and reported as
// [ErrPanic] so the shutdown path still runs.
func Run(state *State, funcs ...Func) error {
	return runFuncs(state, funcs)
}

func runFuncs(state *State, funcs []Func) (err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}

		if recoveredErr, ok := rec.(error); ok {
			err = fmt.Errorf("%w: %w", ErrPanic, recoveredErr)
		} else {
			err = fmt.Errorf("%w: %v", ErrPanic, rec)
		}
	}()

	for _, fn := range funcs {
		if err = fn(state); err != nil {
			return err
		}
	}

	return nil
}
