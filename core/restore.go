package core

import (
	"context"

	"pkt.systems/ctxdesk/schema"
)

// RestoreResult summarizes a restore.
type RestoreResult struct {
	Panes   int
	Tabs    int
	Dropped []string
}

type pendingLoad struct {
	tab  schema.TabID
	path string
	seq  uint64
}

// Restore replaces the live session with the persisted snapshot. Paths that
// no longer resolve against known are dropped silently. Split direction and
// sizes are kept only when at least one pane ends up with tabs. Restore does
// not notify the change observer, so it never triggers a snapshot write.
func (s *Session) Restore(ctx context.Context, state schema.PersistedState, known []schema.FileRef) (RestoreResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log := s.logger
	resolver := NewFileResolver(known)

	s.mu.Lock()
	if s.restoring {
		s.mu.Unlock()
		log.Warn("session restore rejected", "err", ErrRestoreInProgress)
		return RestoreResult{}, ErrRestoreInProgress
	}
	s.restoring = true
	s.tabs = make(map[schema.TabID]*tab)
	s.drag = dragState{}

	persisted := state.Panes
	if len(persisted) > schema.MaxPanes {
		log.Debug("session restore truncating panes", "panes", len(persisted))
		persisted = persisted[:schema.MaxPanes]
	}
	var result RestoreResult
	panes := make([]*pane, 0, len(persisted))
	sizes := make([]float64, 0, len(persisted))
	seen := make(map[schema.PaneID]bool, len(persisted))
	nonEmpty := false
	for _, pp := range persisted {
		id := pp.ID
		if id == "" || seen[id] {
			id = newPaneID()
		}
		seen[id] = true
		p := &pane{ID: id}
		for _, raw := range pp.TabPaths {
			file, ok := resolver.Resolve(raw)
			if !ok {
				result.Dropped = append(result.Dropped, raw)
				continue
			}
			if s.tabForPathLocked(p, file.Path) != nil {
				continue
			}
			t := newTab(file, s.cfg.MarkdownViewMode)
			if s.files == nil {
				t.load = schema.LoadStateReady
			}
			s.tabs[t.ID] = t
			p.tabs = append(p.tabs, t.ID)
		}
		if pp.ActiveTabPath != nil {
			if t := s.tabForPathLocked(p, schema.NormalizePath(*pp.ActiveTabPath)); t != nil {
				p.active = t.ID
			}
		}
		if p.active == "" && len(p.tabs) > 0 {
			p.active = p.tabs[0]
		}
		if len(p.tabs) > 0 {
			nonEmpty = true
		}
		panes = append(panes, p)
		sizes = append(sizes, pp.Size)
	}

	switch {
	case !nonEmpty:
		fresh := newPane(100)
		if len(panes) > 0 {
			fresh.ID = panes[0].ID
		}
		s.panes = []*pane{fresh}
		s.split = schema.SplitNone
	case len(panes) == 2 && (state.SplitDirection == schema.SplitSideBySide || state.SplitDirection == schema.SplitStacked):
		normalized := normalizeSizes(sizes, s.cfg.MinPaneSize)
		for i, p := range panes {
			p.size = normalized[i]
		}
		s.panes = panes
		s.split = state.SplitDirection
	default:
		keep := panes[0]
		if len(panes) == 2 {
			s.mergeLocked(keep, panes[1], state.ActivePaneID == panes[1].ID)
		}
		keep.size = 100
		s.panes = []*pane{keep}
		s.split = schema.SplitNone
	}
	s.activePane = s.panes[0].ID
	if p := s.paneLocked(state.ActivePaneID); p != nil {
		s.activePane = p.ID
	}

	var loads []pendingLoad
	for _, p := range s.panes {
		for _, id := range p.tabs {
			t := s.tabs[id]
			loads = append(loads, pendingLoad{tab: id, path: t.File.Path, seq: t.loadSeq})
		}
	}
	result.Panes = len(s.panes)
	result.Tabs = len(s.tabs)
	activePane := s.activePane
	split := s.split
	s.mu.Unlock()

	if s.files != nil {
		for _, load := range loads {
			s.startLoad(ctx, load.tab, load.path, load.seq)
		}
	}

	s.mu.Lock()
	s.restoring = false
	s.mu.Unlock()
	s.publish([]schema.SessionEvent{{Type: schema.EventRestoreCompleted, PaneID: activePane}}, false)
	log.Info("session restored", "panes", result.Panes, "tabs", result.Tabs, "dropped", len(result.Dropped), "split", split, "known", resolver.Len())
	return result, nil
}
