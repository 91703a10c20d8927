package format

import (
	"fmt"
	"strconv"

	"pkt.systems/ctxdesk/schema"
)

// PlainRenderer formats session state and events as plain text lines.
type PlainRenderer struct{}

// NewPlainRenderer returns a default plain-text renderer.
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// FormatSession renders the layout: one line per pane, one per tab. The
// active pane and tab are marked with '*', dirty tabs with '+'.
func (p *PlainRenderer) FormatSession(snap schema.SessionSnapshot) []string {
	lines := []string{fmt.Sprintf("split: %s", snap.Split)}
	for i, pane := range snap.Panes {
		marker := " "
		if pane.Active {
			marker = "*"
		}
		lines = append(lines, fmt.Sprintf("%s pane %d (%s) %d%%", marker, i+1, pane.ID, pane.Size))
		if len(pane.Tabs) == 0 {
			lines = append(lines, "    (empty)")
			continue
		}
		for _, tab := range pane.Tabs {
			lines = append(lines, fmt.Sprintf("  %s %s [%s/%s]%s", tabMarker(tab), tab.File.DisplayName, tab.Kind, tab.ViewMode, tabState(tab)))
		}
	}
	return lines
}

// FormatEvent converts a session event into user-facing lines.
func (p *PlainRenderer) FormatEvent(event schema.SessionEvent) []string {
	switch event.Type {
	case schema.EventTabOpened:
		return []string{fmt.Sprintf("opened %s", event.Path)}
	case schema.EventTabClosed:
		if event.Dirty {
			return []string{fmt.Sprintf("closed %s (unsaved edits discarded)", event.Path)}
		}
		return []string{fmt.Sprintf("closed %s", event.Path)}
	case schema.EventTabLoaded:
		return []string{fmt.Sprintf("loaded %s", event.Path)}
	case schema.EventTabLoadFailed:
		return []string{fmt.Sprintf("load failed: %s: %s", event.Path, event.Err)}
	case schema.EventSaveSucceeded:
		return []string{fmt.Sprintf("saved %s", event.Path)}
	case schema.EventSaveFailed:
		return []string{fmt.Sprintf("save failed: %s: %s", event.Path, event.Err)}
	case schema.EventLayoutChanged:
		return []string{"layout changed"}
	case schema.EventRestoreCompleted:
		return []string{"session restored"}
	case schema.EventTabDirtyChanged, schema.EventActiveTabChanged:
		return nil
	default:
		return nil
	}
}

func tabMarker(tab schema.TabSnapshot) string {
	switch {
	case tab.Active && tab.Dirty:
		return "*+"
	case tab.Active:
		return "* "
	case tab.Dirty:
		return " +"
	default:
		return "  "
	}
}

func tabState(tab schema.TabSnapshot) string {
	switch tab.LoadState {
	case schema.LoadStateError:
		return " " + tab.LoadError
	case schema.LoadStateLoading:
		return " (loading)"
	default:
		return " " + strconv.Quote(tab.File.Path)
	}
}
