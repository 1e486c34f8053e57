// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package repair contains the privileged one-time repairs run at boot:
// granting the target identity access to the interprocess control socket
// and re-owning the shared cache directory.
//
// Both repairs are idempotent and advisory. They require the ability to
// act with elevated privilege; the caller gates them on that and they run
// on every boot since shared volumes may be mounted across containers with
// differing identities.
package repair
