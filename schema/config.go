package schema

import "errors"

// SessionConfig defines defaults and limits for the editor session.
type SessionConfig struct {
	// MinPaneSize is the smallest size fraction a pane may be resized to.
	MinPaneSize int
	// MarkdownViewMode is the initial view mode for markdown tabs.
	MarkdownViewMode ViewMode
}

// DefaultMinPaneSize is the default lower bound for pane size fractions.
const DefaultMinPaneSize = 20

// NormalizeSessionConfig applies defaults and validates the config.
func NormalizeSessionConfig(cfg SessionConfig) (SessionConfig, error) {
	if cfg.MinPaneSize <= 0 {
		cfg.MinPaneSize = DefaultMinPaneSize
	}
	if cfg.MinPaneSize*MaxPanes > 100 {
		return SessionConfig{}, errors.New("min pane size must leave room for every pane")
	}
	if cfg.MarkdownViewMode == "" {
		cfg.MarkdownViewMode = ViewPreview
	}
	if !cfg.MarkdownViewMode.Valid() {
		return SessionConfig{}, ErrInvalidViewMode
	}
	return cfg, nil
}
