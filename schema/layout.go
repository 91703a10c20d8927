package schema

// SplitDirection describes how the session's panes are arranged.
type SplitDirection string

const (
	// SplitNone means a single pane fills the editor area.
	SplitNone SplitDirection = "none"
	// SplitSideBySide arranges two panes left to right.
	SplitSideBySide SplitDirection = "side-by-side"
	// SplitStacked arranges two panes top to bottom.
	SplitStacked SplitDirection = "stacked"
)

// MaxPanes is the number of panes a session may hold. Splits are single level.
const MaxPanes = 2

// Valid reports whether d is one of the known directions.
func (d SplitDirection) Valid() bool {
	switch d {
	case SplitNone, SplitSideBySide, SplitStacked:
		return true
	}
	return false
}

// ParseSplitDirection normalizes user input such as "vertical" or "stacked".
func ParseSplitDirection(value string) (SplitDirection, bool) {
	switch normalizeToken(value) {
	case "none", "":
		return SplitNone, true
	case "side-by-side", "sidebyside", "vertical", "columns":
		return SplitSideBySide, true
	case "stacked", "horizontal", "rows":
		return SplitStacked, true
	}
	return "", false
}

// LoadState tracks whether a tab's content has arrived from disk.
type LoadState string

const (
	LoadStateLoading LoadState = "loading"
	LoadStateReady   LoadState = "ready"
	LoadStateError   LoadState = "error"
)
