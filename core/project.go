package core

import "pkt.systems/ctxdesk/schema"

// Project converts a session view into the persisted snapshot: file paths and
// layout only, never content or dirty flags.
func Project(snapshot schema.SessionSnapshot) schema.PersistedState {
	state := schema.PersistedState{
		Version:        schema.PersistedVersion,
		Panes:          make([]schema.PersistedPane, 0, len(snapshot.Panes)),
		ActivePaneID:   snapshot.ActivePane,
		SplitDirection: snapshot.Split,
	}
	if state.SplitDirection == "" {
		state.SplitDirection = schema.SplitNone
	}
	for _, pane := range snapshot.Panes {
		persisted := schema.PersistedPane{
			ID:       pane.ID,
			TabPaths: pane.Paths(),
			Size:     float64(pane.Size),
		}
		if active := pane.ActivePath(); active != "" {
			persisted.ActiveTabPath = &active
		}
		state.Panes = append(state.Panes, persisted)
	}
	return state
}
