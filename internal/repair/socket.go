// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package repair

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/moby/sys/user"
	"golang.org/x/sys/unix"

	"github.com/aibor/entrypointd/internal/ident"
)

// SocketGroup is the dedicated group granted access to the control socket.
const SocketGroup = "docker"

const groupPath = "/etc/group"

// SocketRepair grants the target identity access to the interprocess
// control socket by re-owning it to root:[SocketGroup], restricting it to
// owner/group read-write and adding the target identity to the group.
type SocketRepair struct {
	// Socket is the control socket path.
	Socket string

	// Group is the dedicated socket group, created when missing.
	Group string

	// Target is the identity that needs access.
	Target ident.Context

	// Run executes the repair commands, elevated as needed.
	Run RunFunc

	// GroupDB is the group database path. Empty means the system default.
	GroupDB string
}

// Repair performs the socket access repair. It reports whether the target
// identity's group membership changed, which requires a fresh login
// context to take effect.
func (r SocketRepair) Repair(ctx context.Context) (bool, error) {
	groupDB := r.GroupDB
	if groupDB == "" {
		groupDB = groupPath
	}

	var stat unix.Stat_t
	if err := unix.Stat(r.Socket, &stat); err != nil {
		if errors.Is(err, unix.ENOENT) {
			slog.Debug("No control socket present",
				slog.String("socket", r.Socket))

			return false, nil
		}

		return false, fmt.Errorf("stat socket: %w", err)
	}

	if stat.Mode&unix.S_IFMT != unix.S_IFSOCK {
		return false, fmt.Errorf("%w: %s", ErrNotASocket, r.Socket)
	}

	usable, err := targetCanUse(&stat, r.Target, groupDB)
	if err != nil {
		return false, err
	}

	if usable {
		slog.Debug("Control socket already accessible",
			slog.String("socket", r.Socket))

		return false, nil
	}

	gid, err := r.ensureGroup(ctx, groupDB)
	if err != nil {
		return false, err
	}

	owner := "root:" + strconv.Itoa(gid)
	if err := r.Run(ctx, "chown", owner, r.Socket); err != nil {
		return false, fmt.Errorf("own socket: %w", err)
	}

	// Owner and group read-write only; the socket must never be
	// world-writable.
	if err := r.Run(ctx, "chmod", "0660", r.Socket); err != nil {
		return false, fmt.Errorf("restrict socket: %w", err)
	}

	err = r.Run(ctx, "usermod", "-aG", r.Group, r.Target.User)
	if err != nil {
		return false, fmt.Errorf("add %s to %s: %w",
			r.Target.User, r.Group, err)
	}

	slog.Info("Granted control socket access",
		slog.String("socket", r.Socket),
		slog.String("user", r.Target.User),
		slog.String("group", r.Group))

	return true, nil
}

func (r SocketRepair) ensureGroup(
	ctx context.Context,
	groupDB string,
) (int, error) {
	group, err := lookupGroup(r.Group, groupDB)
	if err == nil {
		return group.Gid, nil
	}

	if !errors.Is(err, ident.ErrNotFound) {
		return 0, err
	}

	if err := r.Run(ctx, "groupadd", r.Group); err != nil {
		return 0, fmt.Errorf("create group %s: %w", r.Group, err)
	}

	group, err = lookupGroup(r.Group, groupDB)
	if err != nil {
		return 0, fmt.Errorf("group %s after creation: %w", r.Group, err)
	}

	return group.Gid, nil
}

// targetCanUse reports whether the target identity can already read and
// write the socket: via world bits, as the owner, or through a group it is
// a member of.
func targetCanUse(
	stat *unix.Stat_t,
	target ident.Context,
	groupDB string,
) (bool, error) {
	mode := stat.Mode

	if mode&0o006 == 0o006 {
		return true, nil
	}

	if stat.Uid == uint32(target.UID) && mode&0o600 == 0o600 {
		return true, nil
	}

	if mode&0o060 != 0o060 {
		return false, nil
	}

	if stat.Gid == uint32(target.GID) {
		return true, nil
	}

	group, err := lookupGID(int(stat.Gid), groupDB)
	if err != nil {
		if errors.Is(err, ident.ErrNotFound) {
			return false, nil
		}

		return false, err
	}

	for _, member := range group.List {
		if member == target.User {
			return true, nil
		}
	}

	return false, nil
}

func lookupGroup(name, groupDB string) (user.Group, error) {
	return lookupGroupFilter(groupDB, func(g user.Group) bool {
		return g.Name == name
	})
}

func lookupGID(gid int, groupDB string) (user.Group, error) {
	return lookupGroupFilter(groupDB, func(g user.Group) bool {
		return g.Gid == gid
	})
}

func lookupGroupFilter(
	groupDB string,
	filter func(user.Group) bool,
) (user.Group, error) {
	file, err := os.Open(groupDB)
	if err != nil {
		return user.Group{}, fmt.Errorf("open group database: %w", err)
	}
	defer file.Close()

	groups, err := user.ParseGroupFilter(file, filter)
	if err != nil {
		return user.Group{}, fmt.Errorf("parse group database: %w", err)
	}

	if len(groups) == 0 {
		return user.Group{}, ident.ErrNotFound
	}

	return groups[0], nil
}
