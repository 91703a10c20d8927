package core

import (
	"pkt.systems/ctxdesk/internal/logx"
	"pkt.systems/ctxdesk/schema"
)

// dragState is the transient tab drag interaction. The zero value is idle.
type dragState struct {
	active bool
	tab    schema.TabID
	pane   schema.PaneID
}

// DropHint describes where a dragged tab would land. It is UI feedback only.
type DropHint struct {
	PaneID schema.PaneID
	Index  int
	Accept bool
}

// DragStart begins dragging tabID out of paneID. Returns false and stays idle
// when the tab is not in that pane.
func (s *Session) DragStart(tabID schema.TabID, paneID schema.PaneID) bool {
	log := logx.WithTab(logx.WithPane(s.logger, paneID), tabID)
	s.mu.Lock()
	p := s.paneLocked(paneID)
	if p == nil || p.indexOf(tabID) < 0 {
		s.drag = dragState{}
		s.mu.Unlock()
		log.Debug("session drag start rejected")
		return false
	}
	s.drag = dragState{active: true, tab: tabID, pane: paneID}
	s.mu.Unlock()
	log.Trace("session drag start")
	return true
}

// Dragging reports the tab and source pane of the drag in progress.
func (s *Session) Dragging() (schema.TabID, schema.PaneID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.tab, s.drag.pane, s.drag.active
}

// DragOver reports whether dropping at index in paneID would be accepted.
func (s *Session) DragOver(index int, paneID schema.PaneID) DropHint {
	s.mu.Lock()
	defer s.mu.Unlock()
	hint := DropHint{PaneID: paneID, Index: index}
	if !s.drag.active {
		return hint
	}
	dst := s.paneLocked(paneID)
	t := s.tabs[s.drag.tab]
	if dst == nil || t == nil {
		return hint
	}
	limit := len(dst.tabs)
	if dst.ID == s.drag.pane {
		limit--
	}
	if hint.Index < 0 {
		hint.Index = 0
	}
	if hint.Index > limit {
		hint.Index = limit
	}
	hint.Accept = dst.ID == s.drag.pane || s.tabForPathLocked(dst, t.File.Path) == nil
	return hint
}

// DragCancel abandons the drag in progress.
func (s *Session) DragCancel() {
	s.mu.Lock()
	s.drag = dragState{}
	s.mu.Unlock()
}

// Drop moves the dragged tab to targetIndex of targetPane; targetIndex is the
// tab's position after the move, clamped to the pane bounds. A cross-pane
// drop onto a pane that already has the same path open is rejected. The
// coordinator always returns to idle.
func (s *Session) Drop(targetPane schema.PaneID, targetIndex int) bool {
	log := logx.WithPane(s.logger, targetPane)
	s.mu.Lock()
	state := s.drag
	s.drag = dragState{}
	if !state.active {
		s.mu.Unlock()
		log.Debug("session drop ignored", "reason", "not dragging")
		return false
	}
	log = logx.WithTab(log, state.tab)
	t := s.tabs[state.tab]
	src := s.paneLocked(state.pane)
	dst := s.paneLocked(targetPane)
	if t == nil || src == nil || dst == nil || src.indexOf(state.tab) < 0 {
		s.mu.Unlock()
		log.Debug("session drop ignored", "reason", "stale drag")
		return false
	}
	if src != dst && s.tabForPathLocked(dst, t.File.Path) != nil {
		s.mu.Unlock()
		log.Debug("session drop rejected", "reason", "path already open in target", "path", t.File.Path)
		return false
	}
	from, _ := src.remove(t.ID)
	var events []schema.SessionEvent
	if src != dst && src.active == t.ID {
		src.active = src.successor(from)
		events = append(events, schema.SessionEvent{Type: schema.EventActiveTabChanged, PaneID: src.ID, ActiveTab: src.active})
	}
	at := dst.insert(t.ID, targetIndex)
	events = append(events, schema.SessionEvent{Type: schema.EventLayoutChanged, PaneID: dst.ID, TabID: t.ID, Path: t.File.Path})
	events = append(events, s.activateLocked(dst, t.ID)...)
	s.mu.Unlock()

	s.publish(events, true)
	log.Info("session tab moved", "from_pane", src.ID, "from", from, "to", at)
	return true
}
