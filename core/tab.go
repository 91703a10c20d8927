package core

import (
	"path/filepath"

	"pkt.systems/ctxdesk/schema"
)

// tab tracks a single open file. content is the live buffer; saved is the
// last content known to be on disk.
type tab struct {
	ID       schema.TabID
	File     schema.FileRef
	Kind     schema.FileKind
	ViewMode schema.ViewMode
	content  string
	saved    string
	load     schema.LoadState
	loadErr  string
	// loadSeq identifies the read in flight; results with a stale seq are dropped.
	loadSeq uint64
	// edited is set when the buffer changed before the initial read arrived.
	edited bool
}

func newTab(file schema.FileRef, markdownMode schema.ViewMode) *tab {
	kind := schema.KindForPath(file.Path)
	return &tab{
		ID:       newTabID(),
		File:     file,
		Kind:     kind,
		ViewMode: schema.DefaultViewMode(kind, markdownMode),
		load:     schema.LoadStateLoading,
		loadSeq:  1,
	}
}

func (t *tab) dirty() bool {
	return t.content != t.saved
}

// Snapshot returns a UI-friendly view of the tab.
func (t *tab) Snapshot(active bool) schema.TabSnapshot {
	return schema.TabSnapshot{
		ID:        t.ID,
		File:      t.File,
		Kind:      t.Kind,
		ViewMode:  t.ViewMode,
		Dirty:     t.dirty(),
		LoadState: t.load,
		LoadError: t.loadErr,
		Active:    active,
	}
}

func normalizeFileRef(file schema.FileRef) (schema.FileRef, bool) {
	file.Path = schema.NormalizePath(file.Path)
	if file.Path == "" {
		return schema.FileRef{}, false
	}
	if file.DisplayName == "" {
		file.DisplayName = filepath.Base(file.Path)
	}
	if file.Tool == "" {
		file.Tool = schema.ToolGeneric
	}
	return file, true
}
