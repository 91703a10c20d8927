package core

import (
	"pkt.systems/ctxdesk/internal/logx"
	"pkt.systems/ctxdesk/schema"
)

// pane holds an ordered list of tab ids. Order is display order.
type pane struct {
	ID     schema.PaneID
	tabs   []schema.TabID
	active schema.TabID
	size   int
}

func newPane(size int) *pane {
	return &pane{ID: newPaneID(), size: size}
}

func (p *pane) indexOf(id schema.TabID) int {
	for i, current := range p.tabs {
		if current == id {
			return i
		}
	}
	return -1
}

// remove drops id from the sequence and returns its former index.
func (p *pane) remove(id schema.TabID) (int, bool) {
	idx := p.indexOf(id)
	if idx < 0 {
		return -1, false
	}
	p.tabs = append(p.tabs[:idx], p.tabs[idx+1:]...)
	return idx, true
}

// insert places id at index, clamped to the sequence bounds.
func (p *pane) insert(id schema.TabID, index int) int {
	if index < 0 {
		index = 0
	}
	if index > len(p.tabs) {
		index = len(p.tabs)
	}
	p.tabs = append(p.tabs, "")
	copy(p.tabs[index+1:], p.tabs[index:])
	p.tabs[index] = id
	return index
}

// successor picks the tab that takes focus after the tab at removed was
// taken out: its predecessor, else the first remaining tab, else none.
func (p *pane) successor(removed int) schema.TabID {
	if len(p.tabs) == 0 {
		return ""
	}
	if removed > 0 && removed-1 < len(p.tabs) {
		return p.tabs[removed-1]
	}
	return p.tabs[0]
}

func (s *Session) paneLocked(id schema.PaneID) *pane {
	for _, p := range s.panes {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Session) paneOfTabLocked(id schema.TabID) *pane {
	for _, p := range s.panes {
		if p.indexOf(id) >= 0 {
			return p
		}
	}
	return nil
}

func (s *Session) tabForPathLocked(p *pane, path string) *tab {
	for _, id := range p.tabs {
		if t := s.tabs[id]; t != nil && t.File.Path == path {
			return t
		}
	}
	return nil
}

// activateLocked focuses tabID inside p and makes p the active pane.
func (s *Session) activateLocked(p *pane, tabID schema.TabID) []schema.SessionEvent {
	if p.active == tabID && s.activePane == p.ID {
		return nil
	}
	p.active = tabID
	s.activePane = p.ID
	return []schema.SessionEvent{{Type: schema.EventActiveTabChanged, PaneID: p.ID, ActiveTab: tabID}}
}

// SetActivePane focuses the pane with the given id.
func (s *Session) SetActivePane(paneID schema.PaneID) error {
	log := logx.WithPane(s.logger, paneID)
	s.mu.Lock()
	p := s.paneLocked(paneID)
	if p == nil {
		s.mu.Unlock()
		log.Debug("session pane activate rejected", "err", schema.ErrPaneNotFound)
		return schema.ErrPaneNotFound
	}
	events := s.activateLocked(p, p.active)
	s.mu.Unlock()
	s.publish(events, len(events) > 0)
	return nil
}

// SetActiveTab focuses tabID in paneID. The tab must belong to the pane.
func (s *Session) SetActiveTab(paneID schema.PaneID, tabID schema.TabID) error {
	log := logx.WithTab(logx.WithPane(s.logger, paneID), tabID)
	s.mu.Lock()
	p := s.paneLocked(paneID)
	if p == nil {
		s.mu.Unlock()
		log.Debug("session tab activate rejected", "err", schema.ErrPaneNotFound)
		return schema.ErrPaneNotFound
	}
	if p.indexOf(tabID) < 0 {
		s.mu.Unlock()
		log.Debug("session tab activate rejected", "err", schema.ErrTabNotFound)
		return schema.ErrTabNotFound
	}
	events := s.activateLocked(p, tabID)
	s.mu.Unlock()
	s.publish(events, len(events) > 0)
	return nil
}

// ActiveTab returns the active tab of the active pane.
func (s *Session) ActiveTab() (schema.TabSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.paneLocked(s.activePane)
	if p == nil || p.active == "" {
		return schema.TabSnapshot{}, false
	}
	t := s.tabs[p.active]
	if t == nil {
		return schema.TabSnapshot{}, false
	}
	return t.Snapshot(true), true
}

// PaneIDs returns the pane ids in layout order.
func (s *Session) PaneIDs() []schema.PaneID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]schema.PaneID, 0, len(s.panes))
	for _, p := range s.panes {
		ids = append(ids, p.ID)
	}
	return ids
}

// ActivePane returns the id of the focused pane.
func (s *Session) ActivePane() schema.PaneID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activePane
}

