// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"runtime/debug"
	"strings"
)

// BuildVersion is the latest tagged release.
const BuildVersion string = "v0.4.0"

// shortRevisionLength is how much of a commit hash Revision reports.
const shortRevisionLength = 8

// buildInfo holds the VCS stamp the Go toolchain embeds in binaries.
type buildInfo struct {
	GoVersion   string
	VcsRevision string
	VcsTime     string
	VcsModified bool
}

// Revision formats the VCS stamp as date-hash, with a +dirty suffix for
// builds from a modified tree.
func (b *buildInfo) Revision() string {
	if b.VcsRevision == "" {
		return "unknown"
	}

	date, _, _ := strings.Cut(b.VcsTime, "T")

	s := date + "-" + b.VcsRevision[:min(shortRevisionLength, len(b.VcsRevision))]
	if b.VcsModified {
		s += "+dirty"
	}

	return s
}

// String reports the version and revision together, as printed by -version.
func (b *buildInfo) String() string {
	return BuildVersion + " (" + b.Revision() + ", " + b.GoVersion + ")"
}

func (b *buildInfo) load() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	b.GoVersion = info.GoVersion

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			b.VcsRevision = setting.Value
		case "vcs.time":
			b.VcsTime = setting.Value
		case "vcs.modified":
			b.VcsModified = setting.Value == "true"
		}
	}
}
