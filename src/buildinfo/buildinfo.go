// Package buildinfo exposes the build descriptor of the running binary.
//
// Values are injected at link time:
//
//	go build -ldflags "-X crashwatch/src/buildinfo.Commit=$(git rev-parse HEAD) \
//	  -X crashwatch/src/buildinfo.BuiltAt=$(date -u +%Y-%m-%dT%H:%M:%SZ) \
//	  -X crashwatch/src/buildinfo.Version=v1.4.0"
//
// When they are missing the VCS stamp recorded by the Go toolchain is used.
package buildinfo

import (
	"runtime/debug"
	"sync"

	"crashwatch/src/model"
)

var (
	Commit  string
	BuiltAt string
	Version string
)

var descriptor = sync.OnceValue(func() model.BuildDescriptor {
	return resolve(Commit, BuiltAt, Version, debug.ReadBuildInfo)
})

// Descriptor returns the process-wide build descriptor. It is computed once
// and never changes for the lifetime of the process.
func Descriptor() model.BuildDescriptor {
	return descriptor()
}

func resolve(commit, builtAt, version string, read func() (*debug.BuildInfo, bool)) model.BuildDescriptor {
	d := model.BuildDescriptor{Commit: commit, BuiltAt: builtAt, Version: version}
	if d.Commit != "" && d.BuiltAt != "" {
		return d
	}

	info, ok := read()
	if !ok || info == nil {
		return withDefaults(d)
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if d.Commit == "" {
				d.Commit = s.Value
			}
		case "vcs.time":
			if d.BuiltAt == "" {
				d.BuiltAt = s.Value
			}
		}
	}
	if d.Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		d.Version = info.Main.Version
	}
	return withDefaults(d)
}

func withDefaults(d model.BuildDescriptor) model.BuildDescriptor {
	if d.Commit == "" {
		d.Commit = "unknown"
	}
	if d.BuiltAt == "" {
		d.BuiltAt = "unknown"
	}
	return d
}
