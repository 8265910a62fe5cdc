package version

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func stubBuild(t *testing.T, version, commit, buildTime string, settings map[string]string) {
	t.Helper()
	origVersion, origCommit, origBuildTime, origRead := Version, Commit, BuildTime, readBuildInfo
	t.Cleanup(func() {
		Version, Commit, BuildTime, readBuildInfo = origVersion, origCommit, origBuildTime, origRead
	})
	Version, Commit, BuildTime = version, commit, buildTime

	if settings == nil {
		readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }
		return
	}
	bi := &debug.BuildInfo{}
	for k, v := range settings {
		bi.Settings = append(bi.Settings, debug.BuildSetting{Key: k, Value: v})
	}
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, true }
}

func TestGet_LdflagsWin(t *testing.T) {
	stubBuild(t, "1.2.0", "abc1234", "2026-01-15T10:30:00Z", map[string]string{
		"vcs.revision": "ffffffffffffffff",
		"vcs.time":     "2020-01-01T00:00:00Z",
	})

	info := Get()
	if info.Version != "1.2.0" || info.Commit != "abc1234" || info.BuildTime != "2026-01-15T10:30:00Z" {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("expected %s, got %s", runtime.Version(), info.GoVersion)
	}
}

func TestGet_VCSFallback(t *testing.T) {
	stubBuild(t, "dev", "", "", map[string]string{
		"vcs.revision": "0123456789abcdef",
		"vcs.time":     "2026-03-01T08:00:00Z",
		"vcs.modified": "true",
	})

	info := Get()
	if info.Commit != "0123456" {
		t.Errorf("expected commit truncated to 7 chars, got %q", info.Commit)
	}
	if info.BuildTime != "2026-03-01T08:00:00Z" || !info.Dirty {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestShort(t *testing.T) {
	tests := []struct {
		name     string
		commit   string
		settings map[string]string
		want     string
	}{
		{"no build info", "", nil, "1.0.0"},
		{"commit", "abc1234", nil, "1.0.0-abc1234"},
		{"dirty tree", "abc1234", map[string]string{"vcs.modified": "true"}, "1.0.0-abc1234-dirty"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stubBuild(t, "1.0.0", tc.commit, "", tc.settings)
			if got := Short(); got != tc.want {
				t.Errorf("Short() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestUserAgent(t *testing.T) {
	stubBuild(t, "0.3.1", "beef123", "", nil)
	if got := UserAgent(); got != "netkit/0.3.1-beef123" {
		t.Errorf("unexpected user agent %q", got)
	}
}

func TestInfoString(t *testing.T) {
	stubBuild(t, "2.0.0", "", "2026-05-05T12:00:00Z", nil)
	s := Get().String()
	if !strings.HasPrefix(s, "netkit 2.0.0 (go") || !strings.HasSuffix(s, ", built 2026-05-05T12:00:00Z)") {
		t.Errorf("unexpected version line %q", s)
	}

	stubBuild(t, "2.0.0", "", "", nil)
	if s := Get().String(); strings.Contains(s, "built") {
		t.Errorf("expected no build time, got %q", s)
	}
}
