package version

import "runtime/debug"

// Version is set at build time via -ldflags "-X .../internal/version.Version=v1.2.3"
var Version string

func init() {
	if Version == "" {
		Version = fromBuildInfo(debug.ReadBuildInfo())
	}
}

// fromBuildInfo covers `go install` builds, which carry the module version.
func fromBuildInfo(info *debug.BuildInfo, ok bool) string {
	if !ok || info == nil {
		return "devel"
	}
	v := info.Main.Version
	if v == "" || v == "(devel)" {
		return "devel"
	}
	return v
}
