package catalog

import (
	"github.com/bmatcuk/doublestar/v4"

	"pkt.systems/ctxdesk/schema"
)

type toolRule struct {
	pattern string
	tool    schema.ToolKind
}

// toolRules is checked in order; the first match wins.
var toolRules = []toolRule{
	{pattern: "**/CLAUDE.md", tool: schema.ToolClaude},
	{pattern: "**/CLAUDE.local.md", tool: schema.ToolClaude},
	{pattern: "**/.claude/**", tool: schema.ToolClaude},
	{pattern: "**/AGENTS.md", tool: schema.ToolCodex},
	{pattern: "**/.codex/**", tool: schema.ToolCodex},
	{pattern: "**/GEMINI.md", tool: schema.ToolGemini},
	{pattern: "**/.gemini/**", tool: schema.ToolGemini},
	{pattern: "**/.cursorrules", tool: schema.ToolCursor},
	{pattern: "**/.cursor/rules/*.mdc", tool: schema.ToolCursor},
	{pattern: "**/.windsurfrules", tool: schema.ToolWindsurf},
	{pattern: "**/.github/copilot-instructions.md", tool: schema.ToolCopilot},
	{pattern: "**/.clinerules", tool: schema.ToolCline},
}

// Classify maps a slash-separated path to the tool that reads it.
func Classify(path string) schema.ToolKind {
	for _, rule := range toolRules {
		if ok, _ := doublestar.Match(rule.pattern, path); ok {
			return rule.tool
		}
	}
	return schema.ToolGeneric
}
