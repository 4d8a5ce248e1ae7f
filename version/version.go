package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// ModulePath is the import path of this module.
const ModulePath = "github.com/kbukum/structrest"

var (
	// These variables may be set at build time using -ldflags.
	Version   = ""
	GitCommit = ""
)

// Info represents version information.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	GoVersion string `json:"go_version"`
	IsRelease bool   `json:"is_release"`
}

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// GetVersionInfo resolves the library version: the ldflags value when set,
// otherwise the version the main module requires, otherwise "dev".
func GetVersionInfo() *Info {
	info := &Info{
		Version:   Version,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
	}

	if bi, ok := readBuildInfo(); ok {
		if info.Version == "" {
			info.Version = moduleVersion(bi)
		}
		if info.GitCommit == "" && bi.Main.Path == ModulePath {
			for _, setting := range bi.Settings {
				if setting.Key == "vcs.revision" {
					info.GitCommit = setting.Value
					if len(info.GitCommit) > 7 {
						info.GitCommit = info.GitCommit[:7]
					}
				}
			}
		}
	}

	if info.Version == "" || info.Version == "(devel)" {
		info.Version = "dev"
	}
	info.IsRelease = info.Version != "dev" && !strings.Contains(info.Version, "-")
	return info
}

func moduleVersion(bi *debug.BuildInfo) string {
	if bi.Main.Path == ModulePath {
		return bi.Main.Version
	}
	for _, dep := range bi.Deps {
		if dep.Path == ModulePath {
			if dep.Replace != nil && dep.Replace.Version != "" {
				return dep.Replace.Version
			}
			return dep.Version
		}
	}
	return ""
}

// GetShortVersion returns a short version string.
func GetShortVersion() string {
	info := GetVersionInfo()
	if info.GitCommit != "" {
		return fmt.Sprintf("%s-%s", info.Version, info.GitCommit)
	}
	return info.Version
}

// UserAgent returns the default User-Agent sent by the HTTP adapter, for
// example "structrest/v1.2.0 (go1.25.0)".
func UserAgent() string {
	info := GetVersionInfo()
	return fmt.Sprintf("structrest/%s (%s)", info.Version, info.GoVersion)
}
