package schema

import (
	"encoding/json"
	"fmt"
)

// PersistedVersion is the snapshot format written by this build.
const PersistedVersion = 1

// PersistedPane is the serialized form of a pane: file paths only.
type PersistedPane struct {
	ID            PaneID   `json:"id"`
	TabPaths      []string `json:"tabPaths"`
	ActiveTabPath *string  `json:"activeTabPath"`
	Size          float64  `json:"size"`
}

// PersistedState is the content-free projection of a session stored across restarts.
type PersistedState struct {
	Version        int             `json:"version"`
	Panes          []PersistedPane `json:"panes"`
	ActivePaneID   PaneID          `json:"activePaneId"`
	SplitDirection SplitDirection  `json:"splitDirection"`
}

// MarshalPersistedState encodes a snapshot deterministically.
func MarshalPersistedState(state PersistedState) ([]byte, error) {
	if state.Version == 0 {
		state.Version = PersistedVersion
	}
	panes := make([]PersistedPane, len(state.Panes))
	for i, pane := range state.Panes {
		if pane.TabPaths == nil {
			pane.TabPaths = []string{}
		}
		panes[i] = pane
	}
	state.Panes = panes
	return json.MarshalIndent(state, "", "  ")
}

// UnmarshalPersistedState decodes and version-checks a snapshot. A record
// without a version field is read as the current version.
func UnmarshalPersistedState(data []byte) (PersistedState, error) {
	var state PersistedState
	if err := json.Unmarshal(data, &state); err != nil {
		return PersistedState{}, err
	}
	if state.Version == 0 {
		state.Version = PersistedVersion
	}
	if state.Version != PersistedVersion {
		return PersistedState{}, fmt.Errorf("%w: %d", ErrSnapshotVersion, state.Version)
	}
	if state.SplitDirection == "" {
		state.SplitDirection = SplitNone
	}
	return state, nil
}
