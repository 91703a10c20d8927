package schema

// TabID identifies an open tab within a session.
type TabID string

// PaneID identifies a pane within a session.
type PaneID string

// ToolKind classifies which assistant a context file belongs to.
type ToolKind string

const (
	ToolClaude   ToolKind = "claude"
	ToolCodex    ToolKind = "codex"
	ToolGemini   ToolKind = "gemini"
	ToolCursor   ToolKind = "cursor"
	ToolWindsurf ToolKind = "windsurf"
	ToolCopilot  ToolKind = "copilot"
	ToolCline    ToolKind = "cline"
	ToolGeneric  ToolKind = "generic"
)

// FileRef identifies a known context file on disk.
type FileRef struct {
	Path        string
	DisplayName string
	Tool        ToolKind
}
