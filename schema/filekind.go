package schema

import (
	"path/filepath"
	"strings"
)

// FileKind is the closed set of content kinds the editor distinguishes.
type FileKind string

const (
	KindMarkdown FileKind = "markdown"
	KindJSON     FileKind = "json"
	KindYAML     FileKind = "yaml"
	KindTOML     FileKind = "toml"
	KindText     FileKind = "text"
)

// ViewMode selects how a tab renders its content.
type ViewMode string

const (
	ViewSource  ViewMode = "source"
	ViewPreview ViewMode = "preview"
	ViewSplit   ViewMode = "split"
)

// Valid reports whether m is one of the known view modes.
func (m ViewMode) Valid() bool {
	switch m {
	case ViewSource, ViewPreview, ViewSplit:
		return true
	}
	return false
}

// ParseViewMode normalizes a view mode name.
func ParseViewMode(value string) (ViewMode, bool) {
	mode := ViewMode(normalizeToken(value))
	if mode.Valid() {
		return mode, true
	}
	return "", false
}

var kindsByExt = map[string]FileKind{
	".md":       KindMarkdown,
	".markdown": KindMarkdown,
	".mdx":      KindMarkdown,
	".mdc":      KindMarkdown,
	".json":     KindJSON,
	".jsonc":    KindJSON,
	".yaml":     KindYAML,
	".yml":      KindYAML,
	".toml":     KindTOML,
}

// KindForPath maps a file path to its kind by extension. Unknown extensions
// (including extension-less dotfiles such as .cursorrules) are text.
func KindForPath(path string) FileKind {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == strings.ToLower(filepath.Base(path)) {
		return KindText
	}
	if kind, ok := kindsByExt[ext]; ok {
		return kind
	}
	return KindText
}

// DefaultViewMode returns the initial view mode for a kind. markdownMode is the
// configured default for markdown; everything else opens as source.
func DefaultViewMode(kind FileKind, markdownMode ViewMode) ViewMode {
	if kind == KindMarkdown && markdownMode.Valid() {
		return markdownMode
	}
	return ViewSource
}
