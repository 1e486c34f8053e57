// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package ident resolves the process's privilege context: whether it runs
// as the superuser and which unprivileged identity the workload ultimately
// runs as.
package ident

import (
	"fmt"
	"os"
	"strconv"

	"github.com/moby/sys/user"
)

// WellKnownUID is the fixed UID the target identity is resolved from when
// the supervisor runs as the superuser.
const WellKnownUID = 1000

const passwdPath = "/etc/passwd"

// Context is the immutable privilege context created once at startup and
// read by every downstream component.
type Context struct {
	// IsRoot reports whether the supervisor itself runs as the superuser.
	IsRoot bool

	// User is the target identity's name.
	User string

	// UID and GID are the target identity's numeric ids.
	UID int
	GID int

	// HomeDir is the target identity's home directory.
	HomeDir string
}

// Resolve determines the privilege context of the running process.
//
// Running as the superuser, the target identity is resolved from
// [WellKnownUID] in the system identity database; a missing entry is a
// fatal condition reported as [ErrNoTargetIdentity], since there is no safe
// identity to fall back to. Running unprivileged, the target identity is
// the current identity.
func Resolve() (Context, error) {
	return resolve(os.Getuid(), os.Getgid(), passwdPath)
}

func resolve(uid, gid int, passwd string) (Context, error) {
	if uid == 0 {
		target, err := lookupUID(WellKnownUID, passwd)
		if err != nil {
			return Context{}, fmt.Errorf(
				"%w: uid %d: %w", ErrNoTargetIdentity, WellKnownUID, err)
		}

		return Context{
			IsRoot:  true,
			User:    target.Name,
			UID:     target.Uid,
			GID:     target.Gid,
			HomeDir: target.Home,
		}, nil
	}

	ctx := Context{
		User:    strconv.Itoa(uid),
		UID:     uid,
		GID:     gid,
		HomeDir: os.Getenv("HOME"),
	}

	// Best-effort name and home lookup; an unlisted identity keeps the
	// numeric fallbacks.
	if entry, err := lookupUID(uid, passwd); err == nil {
		ctx.User = entry.Name
		ctx.GID = entry.Gid

		if entry.Home != "" {
			ctx.HomeDir = entry.Home
		}
	}

	return ctx, nil
}

func lookupUID(uid int, passwd string) (user.User, error) {
	file, err := os.Open(passwd)
	if err != nil {
		return user.User{}, fmt.Errorf("open identity database: %w", err)
	}
	defer file.Close()

	entries, err := user.ParsePasswdFilter(file, func(u user.User) bool {
		return u.Uid == uid
	})
	if err != nil {
		return user.User{}, fmt.Errorf("parse identity database: %w", err)
	}

	if len(entries) == 0 {
		return user.User{}, ErrNotFound
	}

	return entries[0], nil
}
