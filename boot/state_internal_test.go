// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package boot

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateShutdown(t *testing.T) {
	t.Run("runs once in reverse order", func(t *testing.T) {
		var (
			notice bytes.Buffer
			ran    []int
		)

		state := NewState(&notice)
		state.OnShutdown(func() error { ran = append(ran, 1); return nil })
		state.OnShutdown(func() error { ran = append(ran, 2); return nil })

		assert.Equal(t, 5, state.Shutdown(5))
		assert.Equal(t, 5, state.Shutdown(5))

		assert.Equal(t, []int{2, 1}, ran)
		assert.Equal(t,
			"entrypointd: shutting down, status 5\n", notice.String())
	})

	t.Run("failing cleanup preserves status", func(t *testing.T) {
		state := NewState(&bytes.Buffer{})
		state.OnShutdown(func() error { return assert.AnError })

		assert.Equal(t, 42, state.Shutdown(42))
	})

	t.Run("cleanup first, notice carries later status", func(t *testing.T) {
		var (
			notice bytes.Buffer
			ran    int
		)

		state := NewState(&notice)
		state.OnShutdown(func() error { ran++; return nil })

		// The hand-off path cleans up before replacing the process
		// image; the notice must still report the status of a failed
		// hand-off afterwards.
		state.Cleanup()
		assert.Empty(t, notice.String())

		assert.Equal(t, 27, state.Shutdown(27))

		assert.Equal(t, 1, ran)
		assert.Equal(t,
			"entrypointd: shutting down, status 27\n", notice.String())
	})

	t.Run("zero status", func(t *testing.T) {
		var notice bytes.Buffer

		state := NewState(&notice)

		assert.Equal(t, 0, state.Shutdown(0))
		assert.Equal(t,
			"entrypointd: shutting down, status 0\n", notice.String())
	})
}

func TestStateGroupChanged(t *testing.T) {
	state := NewState(nil)

	assert.False(t, state.GroupChanged())

	state.SetGroupChanged()

	assert.True(t, state.GroupChanged())
}
