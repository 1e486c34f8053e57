// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package boot

import (
	"os"
	"os/signal"
	"sync"

	"golang.org/x/sys/unix"
)

// HandleSignals runs the state's shutdown path when an external
// termination signal or an interactive interrupt arrives and then calls
// exit with the conventional 128+signal status.
//
// The returned stop function releases the signal registration. It must be
// called before the process image is replaced; signal handling does not
// survive process replacement. Calling it more than once is safe.
func HandleSignals(state *State, exit func(int)) func() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, unix.SIGTERM, unix.SIGINT)

	done := make(chan struct{})

	go func() {
		select {
		case sig := <-signals:
			code := 128
			if num, ok := sig.(unix.Signal); ok {
				code += int(num)
			}

			exit(state.Shutdown(code))
		case <-done:
		}
	}()

	var stopOnce sync.Once

	return func() {
		stopOnce.Do(func() {
			signal.Stop(signals)
			close(done)
		})
	}
}
