package appconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pkt.systems/ctxdesk/internal/catalog"
	"pkt.systems/ctxdesk/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int           `mapstructure:"config_version" yaml:"config_version"`
	StateDir      string        `mapstructure:"state_dir" yaml:"state_dir"`
	Catalog       CatalogConfig `mapstructure:"catalog" yaml:"catalog"`
	Editor        EditorConfig  `mapstructure:"editor" yaml:"editor"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// CatalogConfig controls which files the editor may open.
type CatalogConfig struct {
	Roots          []string `mapstructure:"roots" yaml:"roots"`
	Include        []string `mapstructure:"include" yaml:"include"`
	Exclude        []string `mapstructure:"exclude" yaml:"exclude"`
	MaxFileBytes   int64    `mapstructure:"max_file_bytes" yaml:"max_file_bytes"`
	FollowSymlinks bool     `mapstructure:"follow_symlinks" yaml:"follow_symlinks"`
}

// EditorConfig controls session behavior.
type EditorConfig struct {
	DebounceMillis   int    `mapstructure:"debounce_ms" yaml:"debounce_ms"`
	MinPaneSize      int    `mapstructure:"min_pane_size" yaml:"min_pane_size"`
	MarkdownViewMode string `mapstructure:"markdown_view_mode" yaml:"markdown_view_mode"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		ConfigVersion: CurrentConfigVersion,
		StateDir:      filepath.Join(home, ".ctxdesk", "state"),
		Catalog: CatalogConfig{
			Roots: []string{
				".",
				filepath.Join(home, ".claude"),
				filepath.Join(home, ".codex"),
				filepath.Join(home, ".gemini"),
			},
			Include:        append([]string(nil), catalog.DefaultInclude...),
			Exclude:        append([]string(nil), catalog.DefaultExclude...),
			MaxFileBytes:   4 << 20,
			FollowSymlinks: false,
		},
		Editor: EditorConfig{
			DebounceMillis:   500,
			MinPaneSize:      schema.DefaultMinPaneSize,
			MarkdownViewMode: string(schema.ViewPreview),
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ctxdesk", "config.yaml"), nil
}

// SessionConfig converts the editor section into a session config.
func (c Config) SessionConfig() (schema.SessionConfig, error) {
	mode, ok := schema.ParseViewMode(c.Editor.MarkdownViewMode)
	if !ok {
		return schema.SessionConfig{}, fmt.Errorf("editor.markdown_view_mode %q is not one of source, preview, split", c.Editor.MarkdownViewMode)
	}
	return schema.NormalizeSessionConfig(schema.SessionConfig{
		MinPaneSize:      c.Editor.MinPaneSize,
		MarkdownViewMode: mode,
	})
}

// Debounce returns the snapshot write quiet period.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.Editor.DebounceMillis) * time.Millisecond
}

// CatalogConfig converts the catalog section for the file catalog.
func (c Config) CatalogConfig() catalog.Config {
	return catalog.Config{
		Roots:          append([]string(nil), c.Catalog.Roots...),
		Include:        append([]string(nil), c.Catalog.Include...),
		Exclude:        append([]string(nil), c.Catalog.Exclude...),
		MaxFileBytes:   c.Catalog.MaxFileBytes,
		FollowSymlinks: c.Catalog.FollowSymlinks,
	}
}
