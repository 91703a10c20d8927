package appconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ConfigVersion != CurrentConfigVersion {
		t.Fatalf("expected default config version, got %d", cfg.ConfigVersion)
	}
	if cfg.Editor.DebounceMillis != 500 {
		t.Fatalf("expected default debounce, got %d", cfg.Editor.DebounceMillis)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Setenv("CTXDESK_TEST_ROOT", "/work/src")
	path := writeConfig(t, `
config_version: 1
state_dir: /tmp/ctxdesk-state
catalog:
  roots:
    - $CTXDESK_TEST_ROOT
  include:
    - "**/*.md"
  max_file_bytes: 1024
editor:
  debounce_ms: 250
  min_pane_size: 10
  markdown_view_mode: split
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StateDir != "/tmp/ctxdesk-state" {
		t.Fatalf("unexpected state dir %q", cfg.StateDir)
	}
	if len(cfg.Catalog.Roots) != 1 || cfg.Catalog.Roots[0] != "/work/src" {
		t.Fatalf("expected expanded root, got %v", cfg.Catalog.Roots)
	}
	if len(cfg.Catalog.Include) != 1 || cfg.Catalog.Include[0] != "**/*.md" {
		t.Fatalf("unexpected include %v", cfg.Catalog.Include)
	}
	if len(cfg.Catalog.Exclude) == 0 {
		t.Fatalf("expected default excludes to survive")
	}
	if cfg.Catalog.MaxFileBytes != 1024 || cfg.Editor.DebounceMillis != 250 || cfg.Editor.MinPaneSize != 10 {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
	session, err := cfg.SessionConfig()
	if err != nil {
		t.Fatalf("session config: %v", err)
	}
	if session.MarkdownViewMode != "split" || session.MinPaneSize != 10 {
		t.Fatalf("unexpected session config %+v", session)
	}
}

func TestLoadRejectsUnsupportedConfigVersion(t *testing.T) {
	path := writeConfig(t, `
config_version: 3
state_dir: /state
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unsupported config_version") {
		t.Fatalf("expected config_version error, got %v", err)
	}
}

func TestLoadRequiresConfigVersion(t *testing.T) {
	path := writeConfig(t, `
state_dir: /state
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "config_version is required") {
		t.Fatalf("expected config_version required error, got %v", err)
	}
}

func TestLoadRejectsInvalidEditorSettings(t *testing.T) {
	cases := map[string]string{
		"editor.min_pane_size":      "editor:\n  min_pane_size: 60\n",
		"editor.markdown_view_mode": "editor:\n  markdown_view_mode: fancy\n",
		"editor.debounce_ms":        "editor:\n  debounce_ms: -1\n",
	}
	for want, body := range cases {
		path := writeConfig(t, "config_version: 1\n"+body)
		if _, err := Load(path); err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s error, got %v", want, err)
		}
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("FOO", "bar")
	value := expandEnv("$FOO/$UID/$GID/$MISSING")
	if !strings.HasPrefix(value, "bar/") {
		t.Fatalf("expected env expansion, got %q", value)
	}
	if strings.Contains(value, "$UID") || strings.Contains(value, "$GID") {
		t.Fatalf("expected UID/GID expansion, got %q", value)
	}
	if !strings.HasSuffix(value, "/$MISSING") {
		t.Fatalf("expected missing vars to remain, got %q", value)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	if got := expandEnv("~/notes"); got != filepath.Join(home, "notes") {
		t.Fatalf("expected home expansion, got %q", got)
	}
}

func TestWriteDefaultRespectsOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	written, err := WriteDefault(path, false)
	if err != nil {
		t.Fatalf("write default: %v", err)
	}
	if written != path {
		t.Fatalf("expected path %q, got %q", path, written)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config to exist: %v", err)
	}
	if _, err := WriteDefault(path, false); err == nil {
		t.Fatalf("expected error when config exists")
	}
	if _, err := WriteDefault(path, true); err != nil {
		t.Fatalf("expected overwrite to succeed: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("expected written default to load: %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
