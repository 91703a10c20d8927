package schema

// SessionEventType describes a change to the editor session.
type SessionEventType string

const (
	// EventTabOpened indicates a tab was created.
	EventTabOpened SessionEventType = "tab-opened"
	// EventTabClosed indicates a tab was destroyed.
	EventTabClosed SessionEventType = "tab-closed"
	// EventTabLoaded indicates a tab's initial content arrived.
	EventTabLoaded SessionEventType = "tab-loaded"
	// EventTabLoadFailed indicates a tab's content could not be read.
	EventTabLoadFailed SessionEventType = "tab-load-failed"
	// EventTabDirtyChanged indicates a tab's dirty flag flipped.
	EventTabDirtyChanged SessionEventType = "tab-dirty-changed"
	// EventActiveTabChanged indicates a pane's active tab or the active pane changed.
	EventActiveTabChanged SessionEventType = "active-tab-changed"
	// EventSaveSucceeded indicates a tab was written to disk.
	EventSaveSucceeded SessionEventType = "save-succeeded"
	// EventSaveFailed indicates a tab write failed.
	EventSaveFailed SessionEventType = "save-failed"
	// EventLayoutChanged indicates panes were split, merged, resized or reordered.
	EventLayoutChanged SessionEventType = "layout-changed"
	// EventRestoreCompleted indicates a persisted session was rehydrated.
	EventRestoreCompleted SessionEventType = "restore-completed"
)

// SessionEvent is emitted to the UI layer after a session change.
type SessionEvent struct {
	Type      SessionEventType
	PaneID    PaneID
	TabID     TabID
	Path      string
	Dirty     bool
	ActiveTab TabID
	Err       string
}
