// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package overlay

import (
	"context"
	"errors"
	"testing"

	"github.com/moby/sys/mountinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibor/entrypointd/internal/ident"
)

const testRoot = "/mnt/workspaces"

type engineRecorder struct {
	repaired []string
	probed   []string
	honored  map[string]bool
	probeErr map[string]error
}

func (r *engineRecorder) run(
	_ context.Context, name string, args ...string,
) error {
	if name == "bindfs" {
		r.repaired = append(r.repaired, args[len(args)-1])
	}

	return nil
}

func (r *engineRecorder) probe(dir string) (bool, error) {
	r.probed = append(r.probed, dir)

	if err := r.probeErr[dir]; err != nil {
		return false, err
	}

	return r.honored[dir], nil
}

func mounts(entries ...*mountinfo.Info) func() ([]*mountinfo.Info, error) {
	return func() ([]*mountinfo.Info, error) {
		return entries, nil
	}
}

func mount(point, fsType string) *mountinfo.Info {
	return &mountinfo.Info{Mountpoint: point, FSType: fsType}
}

func TestEngineApply(t *testing.T) {
	target := ident.Context{User: "dev", UID: 1000, GID: 1000}

	tests := []struct {
		name             string
		mode             Mode
		skipPaths        []string
		canElevate       bool
		mounts           []*mountinfo.Info
		honored          map[string]bool
		probeErr         map[string]error
		expectedRepaired []string
		expectedProbed   []string
	}{
		{
			name:       "disabled does nothing",
			mode:       ModeDisabled,
			canElevate: true,
			mounts: []*mountinfo.Info{
				mount(testRoot+"/a", "fakeowner"),
			},
		},
		{
			name:       "always repairs all candidates",
			mode:       ModeAlways,
			canElevate: true,
			mounts: []*mountinfo.Info{
				mount(testRoot+"/a", "ext4"),
				mount(testRoot+"/b", "9p"),
			},
			expectedRepaired: []string{
				testRoot + "/a",
				testRoot + "/b",
			},
		},
		{
			name:       "already translated is skipped",
			mode:       ModeAlways,
			canElevate: true,
			mounts: []*mountinfo.Info{
				mount(testRoot+"/a", "fuse.bindfs"),
				mount(testRoot+"/b", "bindfs"),
			},
		},
		{
			name:       "outside trusted root is never touched",
			mode:       ModeAlways,
			canElevate: true,
			mounts: []*mountinfo.Info{
				mount("/var/lib/other", "fakeowner"),
				mount(testRoot+"-sibling", "fakeowner"),
			},
		},
		{
			name:       "skip set matches exactly",
			mode:       ModeAlways,
			skipPaths:  []string{testRoot + "/a/"},
			canElevate: true,
			mounts: []*mountinfo.Info{
				mount(testRoot+"/a", "ext4"),
				mount(testRoot+"/a/b", "ext4"),
			},
			expectedRepaired: []string{testRoot + "/a/b"},
		},
		{
			name:       "auto repairs known broken type without probing",
			mode:       ModeAuto,
			canElevate: true,
			mounts: []*mountinfo.Info{
				mount(testRoot+"/a", "fakeowner"),
				mount(testRoot+"/b", "virtiofs"),
			},
			expectedRepaired: []string{
				testRoot + "/a",
				testRoot + "/b",
			},
		},
		{
			name:       "auto probes unknown type",
			mode:       ModeAuto,
			canElevate: true,
			mounts: []*mountinfo.Info{
				mount(testRoot+"/honored", "ext4"),
				mount(testRoot+"/faked", "ext4"),
			},
			honored: map[string]bool{
				testRoot + "/honored": true,
				testRoot + "/faked":   false,
			},
			expectedRepaired: []string{testRoot + "/faked"},
			expectedProbed: []string{
				testRoot + "/honored",
				testRoot + "/faked",
			},
		},
		{
			name:       "auto skips unprobeable mount",
			mode:       ModeAuto,
			canElevate: true,
			mounts: []*mountinfo.Info{
				mount(testRoot+"/a", "ext4"),
			},
			probeErr: map[string]error{
				testRoot + "/a": errors.New("read-only"),
			},
			expectedProbed: []string{testRoot + "/a"},
		},
		{
			name: "without elevation nothing is mounted",
			mode: ModeAlways,
			mounts: []*mountinfo.Info{
				mount(testRoot+"/a", "fakeowner"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := &engineRecorder{
				honored:  tt.honored,
				probeErr: tt.probeErr,
			}

			engine := &Engine{
				Root:       testRoot,
				Mode:       tt.mode,
				SkipPaths:  tt.skipPaths,
				Target:     target,
				CanElevate: tt.canElevate,
				Run:        recorder.run,
				Probe:      recorder.probe,
				Mounts:     mounts(tt.mounts...),
			}

			require.NoError(t, engine.Apply(context.Background()))

			assert.Equal(t, tt.expectedRepaired, recorder.repaired,
				"repaired mounts")
			assert.Equal(t, tt.expectedProbed, recorder.probed,
				"probed mounts")
		})
	}
}

func TestEngineApplyMountTableFailure(t *testing.T) {
	engine := &Engine{
		Root: testRoot,
		Mode: ModeAuto,
		Mounts: func() ([]*mountinfo.Info, error) {
			return nil, assert.AnError
		},
	}

	err := engine.Apply(context.Background())
	require.ErrorIs(t, err, assert.AnError)
}

func TestBindfsArgs(t *testing.T) {
	args := bindfsArgs(
		ident.Context{User: "dev", UID: 1000, GID: 1001}, "/mnt/w/a")

	assert.Equal(t, []string{
		"--force-user=1000",
		"--force-group=1001",
		"--create-for-user=1000",
		"--create-for-group=1001",
		"--perms=u=rwx:g=rD:o=rD",
		"/mnt/w/a",
		"/mnt/w/a",
	}, args)
}
