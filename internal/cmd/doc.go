// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cmd wires the boot sequence together: configuration from the
// environment, logging, the ordered setup steps and the error-to-exit
// status mapping of the entrypointd binary.
package cmd
