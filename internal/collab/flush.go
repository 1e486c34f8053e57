// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package collab

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// FlushAll flushes all sinks and collects every failure. The sinks are
// independent, so they are flushed concurrently and one failing sink does
// not keep the others from being flushed.
func FlushAll(flushers ...Flusher) error {
	var group errgroup.Group

	for _, flusher := range flushers {
		group.Go(flusher.Flush)
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("flush sinks: %w", err)
	}

	return nil
}
