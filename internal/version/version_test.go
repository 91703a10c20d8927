package version

import (
	"runtime/debug"
	"testing"
	"time"
)

func TestCurrentPrefersBuildVersion(t *testing.T) {
	old := buildVersion
	buildVersion = "v1.2.3"
	t.Cleanup(func() { buildVersion = old })

	if got := Current(); got != "v1.2.3" {
		t.Fatalf("expected build version, got %q", got)
	}
}

func TestFromBuildInfoPseudoVersion(t *testing.T) {
	ts := time.Date(2026, time.March, 2, 3, 4, 5, 0, time.UTC)
	info := &debug.BuildInfo{
		GoVersion: "go1.25.2",
		Main:      debug.Module{Path: "pkt.systems/ctxdesk", Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "1234567890abcdef"},
			{Key: "vcs.time", Value: ts.Format(time.RFC3339)},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	got := fromBuildInfo(info, "")
	if got.Version != "v0.0.0-20260302030405-1234567890ab" {
		t.Fatalf("unexpected version %q", got.Version)
	}
	if got.String() != got.Version+"+dirty" {
		t.Fatalf("expected dirty suffix, got %q", got.String())
	}
	if got.GoVersion != "go1.25.2" || got.Module != "pkt.systems/ctxdesk" {
		t.Fatalf("unexpected build details %+v", got)
	}
}

func TestFromBuildInfoFallbacks(t *testing.T) {
	if got := fromBuildInfo(nil, ""); got.Version != "v0.0.0-unknown" || got.Module != defaultModule {
		t.Fatalf("unexpected fallback %+v", got)
	}
	info := &debug.BuildInfo{Main: debug.Module{Version: "v0.4.0"}}
	if got := fromBuildInfo(info, ""); got.Version != "v0.4.0" {
		t.Fatalf("expected module version, got %q", got.Version)
	}
	if got := fromBuildInfo(info, " v9.9.9 "); got.Version != "v9.9.9" {
		t.Fatalf("expected override, got %q", got.Version)
	}
}
