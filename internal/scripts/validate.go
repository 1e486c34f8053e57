// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package scripts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// ValidateCandidate checks a single candidate entry of the trusted
// directory and returns its canonical path.
//
// A candidate is accepted only if it is a regular non-symlink file whose
// canonical path resolves, lies strictly inside the trusted directory,
// contains no parent-directory traversal segment and is not the trusted
// directory itself. Anything else is rejected with a wrapped sentinel
// error.
func ValidateCandidate(trustedDir, name string) (string, error) {
	raw := filepath.Join(trustedDir, name)

	info, err := os.Lstat(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUnresolvable, raw, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		return "", fmt.Errorf("%w: %s", ErrSymlink, raw)
	}

	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", ErrNotRegular, raw)
	}

	canonDir, err := filepath.EvalSymlinks(trustedDir)
	if err != nil {
		return "", fmt.Errorf("%w: trusted dir: %w", ErrUnresolvable, err)
	}

	canonical, err := filepath.EvalSymlinks(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUnresolvable, raw, err)
	}

	// Symlink-safe containment: SecureJoin confines the name to the
	// trusted directory. A canonical path differing from the confined one
	// escapes through one of its parents.
	confined, err := securejoin.SecureJoin(canonDir, name)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUnresolvable, raw, err)
	}

	if canonical != confined ||
		canonical == canonDir ||
		!strings.HasPrefix(canonical, canonDir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideTrustedDir, canonical)
	}

	for _, segment := range strings.Split(canonical, string(filepath.Separator)) {
		if segment == ".." {
			return "", fmt.Errorf("%w: %s", ErrOutsideTrustedDir, canonical)
		}
	}

	return canonical, nil
}
