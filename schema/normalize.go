package schema

import (
	"path/filepath"
	"strings"
)

func normalizeToken(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	return strings.ReplaceAll(normalized, "_", "-")
}

// NormalizePath returns the cleaned form of a file path used as a tab key.
// Empty or whitespace-only input yields an empty string.
func NormalizePath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	return filepath.Clean(trimmed)
}
