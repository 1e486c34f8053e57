// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package boot

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
)

// CleanupFunc is a best-effort shutdown action registered on a [State].
type CleanupFunc func() error

// State carries the mutable boot state between [Func]s.
//
// It collects cleanup actions and records whether the target identity's
// supplementary groups changed mid-boot, which the hand-off step consults
// to decide if a fresh login context is required.
type State struct {
	mu          sync.Mutex
	cleanupOnce sync.Once
	noticeOnce  sync.Once
	cleanupFns  []CleanupFunc
	groupDirty  bool
	notice      io.Writer
}

// NewState returns a State whose shutdown notice is written to the given
// writer.
func NewState(notice io.Writer) *State {
	return &State{notice: notice}
}

// OnShutdown registers a cleanup action. Actions run in reverse
// registration order, at most once, when [State.Shutdown] is called.
func (s *State) OnShutdown(fn CleanupFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cleanupFns = append(s.cleanupFns, fn)
}

// SetGroupChanged records that the target identity was added to a group
// during this boot.
func (s *State) SetGroupChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.groupDirty = true
}

// GroupChanged reports whether the target identity's group membership
// changed during this boot.
func (s *State) GroupChanged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.groupDirty
}

// Cleanup runs all registered cleanup actions, at most once; later calls
// are no-ops. Failures are logged and swallowed.
//
// It exists separately from [State.Shutdown] for the hand-off path, where
// the cleanup actions must run before the process image is replaced while
// the final exit status is not known yet.
func (s *State) Cleanup() {
	s.cleanupOnce.Do(func() {
		s.mu.Lock()
		fns := slices.Clone(s.cleanupFns)
		s.mu.Unlock()

		slices.Reverse(fns)

		for _, fn := range fns {
			if err := fn(); err != nil {
				slog.Warn("Cleanup action failed",
					slog.Any("error", err))
			}
		}
	})
}

// Shutdown runs [State.Cleanup] and prints the shutdown notice with the
// given exit status.
//
// The notice is printed at most once, with the status of the first call.
// Cleanup failures never alter the exit status, which is returned
// unchanged so callers can pass it straight to [os.Exit].
func (s *State) Shutdown(exitCode int) int {
	s.Cleanup()

	s.noticeOnce.Do(func() {
		if s.notice != nil {
			_, _ = fmt.Fprintf(s.notice,
				"entrypointd: shutting down, status %d\n", exitCode)
		}
	})

	return exitCode
}
