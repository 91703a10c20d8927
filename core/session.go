package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"pkt.systems/ctxdesk/schema"
	"pkt.systems/pslog"
)

// ErrRestoreInProgress is returned when Restore is re-entered.
var ErrRestoreInProgress = errors.New("session restore in progress")

// Session owns the open tabs and panes of one editor instance. Tabs live in a
// flat arena keyed by id; panes hold ordered id lists only.
type Session struct {
	cfg      schema.SessionConfig
	files    FileIO
	sink     EventSink
	observer ChangeObserver
	logger   pslog.Logger

	mu         sync.Mutex
	tabs       map[schema.TabID]*tab
	panes      []*pane
	activePane schema.PaneID
	split      schema.SplitDirection
	drag       dragState
	restoring  bool

	saves singleflight.Group
	loads sync.WaitGroup
}

// NewSession constructs a session with a single empty pane.
func NewSession(cfg schema.SessionConfig, deps SessionDeps) (*Session, error) {
	normalized, err := schema.NormalizeSessionConfig(cfg)
	if err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	first := newPane(100)
	return &Session{
		cfg:        normalized,
		files:      deps.Files,
		sink:       deps.Sink,
		observer:   deps.Observer,
		logger:     logger,
		tabs:       make(map[schema.TabID]*tab),
		panes:      []*pane{first},
		activePane: first.ID,
		split:      schema.SplitNone,
	}, nil
}

// Snapshot returns a read-only view of the whole layout.
func (s *Session) Snapshot() schema.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() schema.SessionSnapshot {
	out := schema.SessionSnapshot{
		Panes:      make([]schema.PaneSnapshot, 0, len(s.panes)),
		ActivePane: s.activePane,
		Split:      s.split,
	}
	for _, p := range s.panes {
		ps := schema.PaneSnapshot{
			ID:        p.ID,
			Tabs:      make([]schema.TabSnapshot, 0, len(p.tabs)),
			ActiveTab: p.active,
			Size:      p.size,
			Active:    p.ID == s.activePane,
		}
		for _, id := range p.tabs {
			if t := s.tabs[id]; t != nil {
				ps.Tabs = append(ps.Tabs, t.Snapshot(id == p.active))
			}
		}
		out.Panes = append(out.Panes, ps)
	}
	return out
}

// PersistedState projects the live session into its serializable form. No I/O.
func (s *Session) PersistedState() schema.PersistedState {
	return Project(s.Snapshot())
}

// Tab returns a snapshot of a single tab.
func (s *Session) Tab(id schema.TabID) (schema.TabSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tabs[id]
	if t == nil {
		return schema.TabSnapshot{}, false
	}
	active := false
	if p := s.paneOfTabLocked(id); p != nil {
		active = p.active == id
	}
	return t.Snapshot(active), true
}

// Content returns the live buffer of a tab.
func (s *Session) Content(id schema.TabID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tabs[id]
	if t == nil {
		return "", schema.ErrTabNotFound
	}
	return t.content, nil
}

// Wait blocks until all in-flight file reads have been applied.
func (s *Session) Wait() {
	s.loads.Wait()
}

// Validate checks the structural invariants of the session.
func (s *Session) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.panes) == 0 {
		return errors.New("session has no panes")
	}
	if len(s.panes) > schema.MaxPanes {
		return fmt.Errorf("session has %d panes, max %d", len(s.panes), schema.MaxPanes)
	}
	if (s.split != schema.SplitNone) != (len(s.panes) == 2) {
		return fmt.Errorf("split direction %q with %d panes", s.split, len(s.panes))
	}
	if s.paneLocked(s.activePane) == nil {
		return fmt.Errorf("active pane %q not found", s.activePane)
	}
	total := 0
	owner := make(map[schema.TabID]schema.PaneID, len(s.tabs))
	for _, p := range s.panes {
		total += p.size
		paths := make(map[string]schema.TabID, len(p.tabs))
		for _, id := range p.tabs {
			if other, ok := owner[id]; ok {
				return fmt.Errorf("tab %q appears in panes %q and %q", id, other, p.ID)
			}
			owner[id] = p.ID
			t := s.tabs[id]
			if t == nil {
				return fmt.Errorf("pane %q references unknown tab %q", p.ID, id)
			}
			if dup, ok := paths[t.File.Path]; ok {
				return fmt.Errorf("pane %q holds %q twice (tabs %q and %q)", p.ID, t.File.Path, dup, id)
			}
			paths[t.File.Path] = id
		}
		if p.active != "" && p.indexOf(p.active) < 0 {
			return fmt.Errorf("pane %q active tab %q not in pane", p.ID, p.active)
		}
	}
	if total != 100 {
		return fmt.Errorf("pane sizes sum to %d", total)
	}
	if len(owner) != len(s.tabs) {
		return fmt.Errorf("%d tabs are not owned by any pane", len(s.tabs)-len(owner))
	}
	return nil
}

// publish delivers events to the sink and, for persisted changes, notifies
// the observer. Must be called without s.mu held.
func (s *Session) publish(events []schema.SessionEvent, changed bool) {
	if s.sink != nil {
		for _, event := range events {
			s.sink.OnSessionEvent(event)
		}
	}
	if !changed || s.observer == nil {
		return
	}
	s.mu.Lock()
	restoring := s.restoring
	s.mu.Unlock()
	if restoring {
		return
	}
	s.observer.Notify()
}
