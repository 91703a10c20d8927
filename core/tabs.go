package core

import (
	"context"
	"fmt"

	"pkt.systems/ctxdesk/internal/logx"
	"pkt.systems/ctxdesk/schema"
)

// OpenFile opens file in paneID (the active pane when empty) and focuses it.
// When the pane already holds a tab for the same path that tab is focused
// instead; a pane never holds the same path twice. Content is read
// asynchronously through the FileIO collaborator.
func (s *Session) OpenFile(ctx context.Context, file schema.FileRef, paneID schema.PaneID) (schema.TabID, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log := s.logger
	file, ok := normalizeFileRef(file)
	if !ok {
		log.Warn("session tab open failed", "err", schema.ErrInvalidPath)
		return "", schema.ErrInvalidPath
	}
	log = logx.WithFile(log, file)

	s.mu.Lock()
	if paneID == "" {
		paneID = s.activePane
	}
	log = logx.WithPane(log, paneID)
	p := s.paneLocked(paneID)
	if p == nil {
		s.mu.Unlock()
		log.Warn("session tab open failed", "err", schema.ErrPaneNotFound)
		return "", schema.ErrPaneNotFound
	}
	if existing := s.tabForPathLocked(p, file.Path); existing != nil {
		events := s.activateLocked(p, existing.ID)
		s.mu.Unlock()
		s.publish(events, len(events) > 0)
		logx.WithTab(log, existing.ID).Debug("session tab refocused")
		return existing.ID, nil
	}
	t := newTab(file, s.cfg.MarkdownViewMode)
	if s.files == nil {
		t.load = schema.LoadStateReady
	}
	s.tabs[t.ID] = t
	p.tabs = append(p.tabs, t.ID)
	events := []schema.SessionEvent{{Type: schema.EventTabOpened, PaneID: p.ID, TabID: t.ID, Path: file.Path}}
	events = append(events, s.activateLocked(p, t.ID)...)
	seq := t.loadSeq
	tabID, kind, view := t.ID, t.Kind, t.ViewMode
	s.mu.Unlock()

	s.publish(events, true)
	logx.WithTab(log, tabID).Info("session tab opened", "kind", kind, "view", view)
	if s.files != nil {
		s.startLoad(ctx, tabID, file.Path, seq)
	}
	return tabID, nil
}

func (s *Session) startLoad(ctx context.Context, tabID schema.TabID, path string, seq uint64) {
	readCtx := context.WithoutCancel(ctx)
	s.loads.Add(1)
	go func() {
		defer s.loads.Done()
		content, err := s.files.ReadFile(readCtx, path)
		s.applyLoad(tabID, seq, content, err)
	}()
}

func (s *Session) applyLoad(tabID schema.TabID, seq uint64, content string, err error) {
	log := logx.WithTab(s.logger, tabID)
	s.mu.Lock()
	t := s.tabs[tabID]
	if t == nil || t.loadSeq != seq {
		s.mu.Unlock()
		log.Debug("session tab load discarded", "reason", "tab closed or reloaded")
		return
	}
	var paneID schema.PaneID
	if p := s.paneOfTabLocked(tabID); p != nil {
		paneID = p.ID
	}
	wasDirty := t.dirty()
	var events []schema.SessionEvent
	if err != nil {
		t.load = schema.LoadStateError
		t.loadErr = fmt.Sprintf("<unable to read %s: %v>", t.File.Path, err)
		t.saved = ""
		t.content = ""
		events = append(events, schema.SessionEvent{Type: schema.EventTabLoadFailed, PaneID: paneID, TabID: tabID, Path: t.File.Path, Err: err.Error()})
	} else {
		t.load = schema.LoadStateReady
		t.loadErr = ""
		t.saved = content
		if !t.edited {
			t.content = content
		}
		events = append(events, schema.SessionEvent{Type: schema.EventTabLoaded, PaneID: paneID, TabID: tabID, Path: t.File.Path})
	}
	t.edited = false
	if dirty := t.dirty(); dirty != wasDirty {
		events = append(events, schema.SessionEvent{Type: schema.EventTabDirtyChanged, PaneID: paneID, TabID: tabID, Path: t.File.Path, Dirty: dirty})
	}
	path := t.File.Path
	s.mu.Unlock()

	s.publish(events, false)
	if err != nil {
		log.Warn("session tab load failed", "path", path, "err", err)
		return
	}
	log.Debug("session tab loaded", "path", path, "bytes", len(content))
}

// CloseTab removes and destroys a tab. When it was the pane's active tab,
// focus moves to its predecessor, else the first remaining tab. Dirty tabs
// are not saved.
func (s *Session) CloseTab(tabID schema.TabID) error {
	log := logx.WithTab(s.logger, tabID)
	s.mu.Lock()
	t := s.tabs[tabID]
	p := s.paneOfTabLocked(tabID)
	if t == nil || p == nil {
		s.mu.Unlock()
		log.Debug("session tab close rejected", "err", schema.ErrTabNotFound)
		return schema.ErrTabNotFound
	}
	idx, _ := p.remove(tabID)
	delete(s.tabs, tabID)
	if s.drag.active && s.drag.tab == tabID {
		s.drag = dragState{}
	}
	events := []schema.SessionEvent{{Type: schema.EventTabClosed, PaneID: p.ID, TabID: tabID, Path: t.File.Path, Dirty: t.dirty()}}
	if p.active == tabID {
		p.active = p.successor(idx)
		events = append(events, schema.SessionEvent{Type: schema.EventActiveTabChanged, PaneID: p.ID, ActiveTab: p.active})
	}
	s.mu.Unlock()

	s.publish(events, true)
	logx.WithPane(logx.WithFile(log, t.File), p.ID).Info("session tab closed", "discarded_edits", t.dirty())
	return nil
}

// UpdateContent replaces the live buffer and recomputes the dirty flag. Tabs
// whose read failed reject edits until reloaded.
func (s *Session) UpdateContent(tabID schema.TabID, content string) error {
	s.mu.Lock()
	t := s.tabs[tabID]
	if t == nil {
		s.mu.Unlock()
		logx.WithTab(s.logger, tabID).Debug("session content update rejected", "err", schema.ErrTabNotFound)
		return schema.ErrTabNotFound
	}
	if t.load == schema.LoadStateError {
		path := t.File.Path
		s.mu.Unlock()
		logx.WithTab(s.logger, tabID).Debug("session content update rejected", "path", path, "err", schema.ErrTabNotLoaded)
		return fmt.Errorf("%w: %s", schema.ErrTabNotLoaded, path)
	}
	wasDirty := t.dirty()
	t.content = content
	if t.load == schema.LoadStateLoading {
		t.edited = true
	}
	var events []schema.SessionEvent
	if dirty := t.dirty(); dirty != wasDirty {
		var paneID schema.PaneID
		if p := s.paneOfTabLocked(tabID); p != nil {
			paneID = p.ID
		}
		events = append(events, schema.SessionEvent{Type: schema.EventTabDirtyChanged, PaneID: paneID, TabID: tabID, Path: t.File.Path, Dirty: dirty})
	}
	s.mu.Unlock()
	s.publish(events, true)
	return nil
}

// SaveTab writes the live buffer to disk. A save already in flight for the
// same tab absorbs later requests: they wait for and share its result.
func (s *Session) SaveTab(ctx context.Context, tabID schema.TabID) error {
	if s.files == nil {
		return schema.ErrFileIOUnavailable
	}
	if ctx == nil {
		ctx = context.Background()
	}
	_, err, shared := s.saves.Do(string(tabID), func() (any, error) {
		return nil, s.save(ctx, tabID)
	})
	if shared {
		logx.WithTab(s.logger, tabID).Debug("session save coalesced")
	}
	return err
}

func (s *Session) save(ctx context.Context, tabID schema.TabID) error {
	log := logx.WithTab(s.logger, tabID)
	s.mu.Lock()
	t := s.tabs[tabID]
	if t == nil {
		s.mu.Unlock()
		log.Warn("session save failed", "err", schema.ErrTabNotFound)
		return schema.ErrTabNotFound
	}
	if t.load != schema.LoadStateReady {
		state := t.load
		path := t.File.Path
		s.mu.Unlock()
		log.Warn("session save rejected", "path", path, "load_state", state)
		return fmt.Errorf("%w: %s", schema.ErrTabNotLoaded, path)
	}
	path, content := t.File.Path, t.content
	var paneID schema.PaneID
	if p := s.paneOfTabLocked(tabID); p != nil {
		paneID = p.ID
	}
	s.mu.Unlock()

	log = log.With("path", path)
	if err := s.files.WriteFile(ctx, path, content); err != nil {
		s.mu.Lock()
		dirty := true
		if current := s.tabs[tabID]; current != nil {
			dirty = current.dirty()
		}
		s.mu.Unlock()
		s.publish([]schema.SessionEvent{{Type: schema.EventSaveFailed, PaneID: paneID, TabID: tabID, Path: path, Dirty: dirty, Err: err.Error()}}, false)
		log.Warn("session save failed", "err", err)
		return err
	}

	s.mu.Lock()
	t = s.tabs[tabID]
	if t == nil {
		s.mu.Unlock()
		log.Debug("session save finished after tab close")
		return nil
	}
	wasDirty := t.dirty()
	t.saved = content
	dirty := t.dirty()
	events := []schema.SessionEvent{{Type: schema.EventSaveSucceeded, PaneID: paneID, TabID: tabID, Path: path, Dirty: dirty}}
	if dirty != wasDirty {
		events = append(events, schema.SessionEvent{Type: schema.EventTabDirtyChanged, PaneID: paneID, TabID: tabID, Path: path, Dirty: dirty})
	}
	s.mu.Unlock()

	s.publish(events, dirty != wasDirty)
	log.Info("session tab saved", "bytes", len(content), "dirty", dirty)
	return nil
}

// SaveActiveTab saves the active tab of the active pane.
func (s *Session) SaveActiveTab(ctx context.Context) error {
	s.mu.Lock()
	var tabID schema.TabID
	if p := s.paneLocked(s.activePane); p != nil {
		tabID = p.active
	}
	s.mu.Unlock()
	if tabID == "" {
		return schema.ErrNoActiveTab
	}
	return s.SaveTab(ctx, tabID)
}

// SetViewMode changes how a tab renders. It has no other side effects.
func (s *Session) SetViewMode(tabID schema.TabID, mode schema.ViewMode) error {
	if !mode.Valid() {
		return schema.ErrInvalidViewMode
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tabs[tabID]
	if t == nil {
		return schema.ErrTabNotFound
	}
	t.ViewMode = mode
	return nil
}

// ReloadTab discards the live buffer and reads the file again. It is the
// recovery path for tabs whose initial read failed.
func (s *Session) ReloadTab(ctx context.Context, tabID schema.TabID) error {
	if s.files == nil {
		return schema.ErrFileIOUnavailable
	}
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	t := s.tabs[tabID]
	if t == nil {
		s.mu.Unlock()
		return schema.ErrTabNotFound
	}
	t.loadSeq++
	t.load = schema.LoadStateLoading
	t.loadErr = ""
	t.edited = false
	seq := t.loadSeq
	path := t.File.Path
	s.mu.Unlock()

	logx.WithTab(s.logger, tabID).Debug("session tab reload", "path", path)
	s.startLoad(ctx, tabID, path, seq)
	return nil
}
