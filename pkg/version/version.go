// Package version holds build metadata for the binarytree binary.
package version

import (
	"runtime/debug"
	"sync"
)

const unknown = "unknown"

// Build metadata, normally set with -ldflags "-X ...".
var (
	Version = "dev"
	Commit  = unknown
	Date    = unknown
)

var initOnce sync.Once

// InitBinaryVersion fills metadata not set at link time from the module
// build info embedded by the Go toolchain.
func InitBinaryVersion() {
	initOnce.Do(func() {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}

		apply(info)
	})
}

func apply(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == unknown {
				Commit = setting.Value
			}
		case "vcs.time":
			if Date == unknown {
				Date = setting.Value
			}
		}
	}
}

// String formats the metadata as shown by the version command.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
