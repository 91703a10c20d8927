package schema

import "errors"

var (
	// ErrTabNotFound indicates a requested tab could not be found.
	ErrTabNotFound = errors.New("tab not found")
	// ErrPaneNotFound indicates a requested pane could not be found.
	ErrPaneNotFound = errors.New("pane not found")
	// ErrNoActiveTab indicates the active pane has no active tab.
	ErrNoActiveTab = errors.New("no active tab")
	// ErrInvalidPath indicates an empty or malformed file path.
	ErrInvalidPath = errors.New("invalid path")
	// ErrInvalidViewMode indicates an unknown view mode.
	ErrInvalidViewMode = errors.New("invalid view mode")
	// ErrInvalidSizes indicates a resize request that does not match the pane count.
	ErrInvalidSizes = errors.New("invalid pane sizes")
	// ErrTabNotLoaded indicates the tab content is still loading or failed to load.
	ErrTabNotLoaded = errors.New("tab content not loaded")
	// ErrFileIOUnavailable indicates no file I/O collaborator is configured.
	ErrFileIOUnavailable = errors.New("file io not configured")
	// ErrNotFound indicates a file does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrNotRegularFile indicates the path is a directory or special file.
	ErrNotRegularFile = errors.New("not a regular file")
	// ErrFileTooLarge indicates the file exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")
	// ErrBinaryContent indicates the file does not contain text.
	ErrBinaryContent = errors.New("file is not text")
	// ErrSnapshotVersion indicates a persisted snapshot with an unsupported version.
	ErrSnapshotVersion = errors.New("unsupported snapshot version")
)
