package schema

// TabSnapshot is a read-only view of a tab for the UI layer.
type TabSnapshot struct {
	ID        TabID
	File      FileRef
	Kind      FileKind
	ViewMode  ViewMode
	Dirty     bool
	LoadState LoadState
	LoadError string
	Active    bool
}

// PaneSnapshot is a read-only view of a pane and its tabs in display order.
type PaneSnapshot struct {
	ID        PaneID
	Tabs      []TabSnapshot
	ActiveTab TabID
	Size      int
	Active    bool
}

// SessionSnapshot is a read-only view of the whole editor layout.
type SessionSnapshot struct {
	Panes      []PaneSnapshot
	ActivePane PaneID
	Split      SplitDirection
}

// Pane returns the pane snapshot with the given id.
func (s SessionSnapshot) Pane(id PaneID) (PaneSnapshot, bool) {
	for _, pane := range s.Panes {
		if pane.ID == id {
			return pane, true
		}
	}
	return PaneSnapshot{}, false
}

// Paths returns the tab file paths of the pane in display order.
func (p PaneSnapshot) Paths() []string {
	paths := make([]string, 0, len(p.Tabs))
	for _, tab := range p.Tabs {
		paths = append(paths, tab.File.Path)
	}
	return paths
}

// ActivePath returns the file path of the active tab, or "" when none.
func (p PaneSnapshot) ActivePath() string {
	for _, tab := range p.Tabs {
		if tab.ID == p.ActiveTab {
			return tab.File.Path
		}
	}
	return ""
}
