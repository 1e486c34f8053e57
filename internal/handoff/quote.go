// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package handoff

import (
	"strings"
)

// QuoteArg returns the single-quoted shell form of one argument. Embedded
// single quotes are closed, escaped and reopened, so the argument survives
// one level of POSIX shell parsing byte-for-byte.
func QuoteArg(arg string) string {
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

// Quote builds the fully-quoted representation of the argument vector.
// A POSIX shell splits the result back into the identical vector,
// including arguments with whitespace, quote characters and empty
// arguments.
func Quote(args []string) string {
	quoted := make([]string, len(args))
	for idx, arg := range args {
		quoted[idx] = QuoteArg(arg)
	}

	return strings.Join(quoted, " ")
}
