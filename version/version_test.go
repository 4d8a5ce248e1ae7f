package version

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func saveAndRestore() func() {
	origVersion, origCommit, origRead := Version, GitCommit, readBuildInfo
	return func() {
		Version = origVersion
		GitCommit = origCommit
		readBuildInfo = origRead
	}
}

func fakeBuildInfo(bi *debug.BuildInfo) func() (*debug.BuildInfo, bool) {
	return func() (*debug.BuildInfo, bool) { return bi, bi != nil }
}

func TestGetVersionInfo_Ldflags(t *testing.T) {
	defer saveAndRestore()()
	Version, GitCommit = "v1.0.0", "abc1234"
	readBuildInfo = fakeBuildInfo(nil)

	info := GetVersionInfo()
	if info.Version != "v1.0.0" || info.GitCommit != "abc1234" {
		t.Errorf("unexpected info: %+v", info)
	}
	if !info.IsRelease {
		t.Error("v1.0.0 should be a release")
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("go version = %q", info.GoVersion)
	}
}

func TestGetVersionInfo_FromDependency(t *testing.T) {
	defer saveAndRestore()()
	Version, GitCommit = "", ""
	readBuildInfo = fakeBuildInfo(&debug.BuildInfo{
		Main: debug.Module{Path: "example.com/app"},
		Deps: []*debug.Module{{Path: ModulePath, Version: "v0.3.1-rc.1"}},
	})

	info := GetVersionInfo()
	if info.Version != "v0.3.1-rc.1" {
		t.Errorf("version = %q", info.Version)
	}
	if info.IsRelease {
		t.Error("pre-release should not be a release")
	}
}

func TestGetVersionInfo_MainModule(t *testing.T) {
	defer saveAndRestore()()
	Version, GitCommit = "", ""
	readBuildInfo = fakeBuildInfo(&debug.BuildInfo{
		Main:     debug.Module{Path: ModulePath, Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef"}},
	})

	info := GetVersionInfo()
	if info.Version != "dev" {
		t.Errorf("version = %q", info.Version)
	}
	if info.GitCommit != "0123456" {
		t.Errorf("commit = %q", info.GitCommit)
	}
	if got := GetShortVersion(); got != "dev-0123456" {
		t.Errorf("short version = %q", got)
	}
}

func TestUserAgent(t *testing.T) {
	defer saveAndRestore()()
	Version = "v2.0.0"
	ua := UserAgent()
	if !strings.HasPrefix(ua, "structrest/v2.0.0 (go") {
		t.Errorf("unexpected user agent %q", ua)
	}
}
