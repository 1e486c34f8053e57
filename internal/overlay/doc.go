// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package overlay detects host bind mounts that do not honor Unix
// permission semantics and repairs them with a permission-translation
// overlay mounted over themselves.
//
// Host-provided bind mounts, common on hosts without a native Unix
// filesystem, may accept ownership and permission changes and silently
// ignore them, which breaks tools that rely on the results. The engine
// inspects the live mount table below a single trusted subtree, decides
// per mount point whether a repair is needed, via a fixed list of known
// affected filesystem types or a live chmod probe, and over-mounts
// affected mount points with bindfs forcing the target identity's
// ownership and a fixed permission policy.
package overlay
