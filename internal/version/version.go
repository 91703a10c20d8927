// Package version reports the build version of the ctxdesk binary.
package version

import (
	"runtime/debug"
	"strings"
	"time"
)

const defaultModule = "pkt.systems/ctxdesk"

// buildVersion is set via -ldflags "-X pkt.systems/ctxdesk/internal/version.buildVersion=...".
var buildVersion = ""

// Info describes the running build.
type Info struct {
	Version   string
	Module    string
	Revision  string
	Modified  bool
	GoVersion string
}

// Current returns the best available version string.
func Current() string {
	return Read().Version
}

// Read collects build details from the linker flag and the embedded build info.
func Read() Info {
	info, _ := debug.ReadBuildInfo()
	return fromBuildInfo(info, buildVersion)
}

func fromBuildInfo(info *debug.BuildInfo, override string) Info {
	out := Info{Module: defaultModule, Version: "v0.0.0-unknown"}
	var vcsTime time.Time
	if info != nil {
		if path := strings.TrimSpace(info.Main.Path); path != "" {
			out.Module = path
		}
		out.GoVersion = info.GoVersion
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				out.Revision = setting.Value
			case "vcs.time":
				vcsTime, _ = time.Parse(time.RFC3339, setting.Value)
			case "vcs.modified":
				out.Modified = setting.Value == "true"
			}
		}
	}
	switch {
	case strings.TrimSpace(override) != "":
		out.Version = strings.TrimSpace(override)
	case info != nil && info.Main.Version != "" && info.Main.Version != "(devel)":
		out.Version = info.Main.Version
	case out.Revision != "" && !vcsTime.IsZero():
		rev := out.Revision
		if len(rev) > 12 {
			rev = rev[:12]
		}
		out.Version = "v0.0.0-" + vcsTime.UTC().Format("20060102150405") + "-" + rev
	}
	out.Version = strings.TrimSuffix(out.Version, "+dirty")
	return out
}

// String renders the version with a dirty marker for modified trees.
func (i Info) String() string {
	if i.Modified {
		return i.Version + "+dirty"
	}
	return i.Version
}
