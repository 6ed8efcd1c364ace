// Package buildinfo reports which leadgenius build is running, derived from
// Go build metadata.
package buildinfo

import (
	"runtime/debug"
)

// Info describes the running binary.
type Info struct {
	// Version is the module version for tagged installs, otherwise "dev".
	Version string

	// Revision is the VCS commit, shortened to 12 characters.
	Revision string

	// Dirty is true when the build had uncommitted changes.
	Dirty bool

	// GoVersion is the toolchain that built the binary.
	GoVersion string
}

// Read returns the Info of the running binary. Version is "unknown" when
// build metadata is not embedded.
func Read() Info {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return Info{Version: "unknown"}
	}
	return fromBuildInfo(bi)
}

func fromBuildInfo(bi *debug.BuildInfo) Info {
	info := Info{Version: "dev", GoVersion: bi.GoVersion}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
			if len(info.Revision) > 12 {
				info.Revision = info.Revision[:12]
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	return info
}

// String returns the version as shown by --version and in the User-Agent:
// the tag for releases, "dev-<revision>[-dirty]" for local builds, or "dev".
func (i Info) String() string {
	if i.Version != "dev" || i.Revision == "" {
		return i.Version
	}
	s := "dev-" + i.Revision
	if i.Dirty {
		s += "-dirty"
	}
	return s
}

// UserAgent returns the User-Agent sent to model APIs.
func UserAgent() string {
	return "leadgenius/" + Read().String()
}
