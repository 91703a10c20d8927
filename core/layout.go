package core

import (
	"math"

	"pkt.systems/ctxdesk/internal/logx"
	"pkt.systems/ctxdesk/schema"
)

// SplitPane creates a second, empty pane beside or below the first one and
// focuses it. It is a no-op returning false unless exactly one pane exists.
func (s *Session) SplitPane(direction schema.SplitDirection) bool {
	log := s.logger.With("direction", direction)
	if direction != schema.SplitSideBySide && direction != schema.SplitStacked {
		log.Debug("session split rejected", "reason", "invalid direction")
		return false
	}
	s.mu.Lock()
	if len(s.panes) != 1 {
		count := len(s.panes)
		s.mu.Unlock()
		log.Debug("session split rejected", "reason", "already split", "panes", count)
		return false
	}
	first := s.panes[0]
	first.size = 50
	second := newPane(50)
	s.panes = append(s.panes, second)
	s.split = direction
	events := []schema.SessionEvent{{Type: schema.EventLayoutChanged, PaneID: second.ID}}
	events = append(events, s.activateLocked(second, "")...)
	s.mu.Unlock()

	s.publish(events, true)
	logx.WithPane(log, second.ID).Info("session split")
	return true
}

// Unsplit removes the second pane and appends its tabs to the first. Tabs
// whose path is already open in the first pane are discarded; the surviving
// tab takes focus when the discarded one was focused. Returns false unless
// two panes exist.
func (s *Session) Unsplit() bool {
	s.mu.Lock()
	if len(s.panes) != 2 {
		count := len(s.panes)
		s.mu.Unlock()
		s.logger.Debug("session unsplit rejected", "panes", count)
		return false
	}
	keep, removed := s.panes[0], s.panes[1]
	wasActive := s.activePane == removed.ID
	discarded := s.mergeLocked(keep, removed, wasActive)
	keep.size = 100
	s.panes = []*pane{keep}
	s.split = schema.SplitNone
	s.activePane = keep.ID
	if s.drag.active && (s.drag.pane == removed.ID || s.tabs[s.drag.tab] == nil) {
		s.drag = dragState{}
	}
	events := make([]schema.SessionEvent, 0, len(discarded)+2)
	for _, t := range discarded {
		events = append(events, schema.SessionEvent{Type: schema.EventTabClosed, PaneID: removed.ID, TabID: t.ID, Path: t.File.Path, Dirty: t.dirty()})
	}
	events = append(events,
		schema.SessionEvent{Type: schema.EventLayoutChanged, PaneID: keep.ID},
		schema.SessionEvent{Type: schema.EventActiveTabChanged, PaneID: keep.ID, ActiveTab: keep.active},
	)
	tabs := len(keep.tabs)
	s.mu.Unlock()

	s.publish(events, true)
	logx.WithPane(s.logger, keep.ID).Info("session unsplit", "removed_pane", removed.ID, "tabs", tabs, "discarded", len(discarded))
	return true
}

// mergeLocked appends src's tabs to dst, collapsing duplicates by path. The
// discarded tabs are removed from the arena and returned.
func (s *Session) mergeLocked(dst, src *pane, srcWasActive bool) []*tab {
	var discarded []*tab
	var focus schema.TabID
	for _, id := range src.tabs {
		t := s.tabs[id]
		if t == nil {
			continue
		}
		if existing := s.tabForPathLocked(dst, t.File.Path); existing != nil {
			delete(s.tabs, id)
			discarded = append(discarded, t)
			if src.active == id {
				focus = existing.ID
			}
			continue
		}
		dst.tabs = append(dst.tabs, id)
		if src.active == id && srcWasActive {
			focus = id
		}
	}
	src.tabs = nil
	src.active = ""
	if focus != "" {
		dst.active = focus
	}
	if dst.active == "" && len(dst.tabs) > 0 {
		dst.active = dst.tabs[0]
	}
	return discarded
}

// ResizePanes applies new size fractions, one per pane. Each is clamped to
// the configured minimum and the result always sums to exactly 100.
func (s *Session) ResizePanes(sizes []float64) error {
	s.mu.Lock()
	if len(sizes) != len(s.panes) {
		count := len(s.panes)
		s.mu.Unlock()
		s.logger.Debug("session resize rejected", "sizes", len(sizes), "panes", count)
		return schema.ErrInvalidSizes
	}
	normalized := normalizeSizes(sizes, s.cfg.MinPaneSize)
	changed := false
	for i, p := range s.panes {
		if p.size != normalized[i] {
			p.size = normalized[i]
			changed = true
		}
	}
	s.mu.Unlock()

	if !changed {
		return nil
	}
	s.publish([]schema.SessionEvent{{Type: schema.EventLayoutChanged}}, true)
	s.logger.Debug("session resized", "sizes", normalized)
	return nil
}

// normalizeSizes clamps every fraction to [minSize, 100-minSize*(n-1)] and
// rescales to integers summing to 100. The rounding remainder goes to the
// last pane.
func normalizeSizes(sizes []float64, minSize int) []int {
	n := len(sizes)
	out := make([]int, n)
	if n == 0 {
		return out
	}
	if n == 1 {
		out[0] = 100
		return out
	}
	lo := float64(minSize)
	hi := float64(100 - minSize*(n-1))
	clamped := make([]float64, n)
	total := 0.0
	for i, v := range sizes {
		switch {
		case math.IsNaN(v) || v < lo:
			v = lo
		case v > hi:
			v = hi
		}
		clamped[i] = v
		total += v
	}
	if total <= 0 {
		for i := range clamped {
			clamped[i] = 1
		}
		total = float64(n)
	}
	assigned := 0
	for i := 0; i < n-1; i++ {
		share := int(math.Round(clamped[i] * 100 / total))
		if share < minSize {
			share = minSize
		}
		if limit := 100 - assigned - minSize*(n-1-i); share > limit {
			share = limit
		}
		out[i] = share
		assigned += share
	}
	out[n-1] = 100 - assigned
	return out
}
