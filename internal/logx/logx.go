package logx

import (
	"context"

	"pkt.systems/ctxdesk/schema"
	"pkt.systems/pslog"
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	if ctx == nil {
		ctx = context.Background()
	}
	return pslog.Ctx(ctx)
}

// WithPane annotates the logger with the pane id if present.
func WithPane(log pslog.Logger, paneID schema.PaneID) pslog.Logger {
	if paneID != "" {
		log = log.With("pane", paneID)
	}
	return log
}

// WithTab annotates the logger with the tab id if present.
func WithTab(log pslog.Logger, tabID schema.TabID) pslog.Logger {
	if tabID != "" {
		log = log.With("tab", tabID)
	}
	return log
}

// WithFile annotates the logger with file metadata when available.
func WithFile(log pslog.Logger, file schema.FileRef) pslog.Logger {
	if file.Path != "" {
		log = log.With("path", file.Path)
	}
	if file.Tool != "" && file.Tool != schema.ToolGeneric {
		log = log.With("tool", file.Tool)
	}
	return log
}

// ContextWithLogger attaches the logger to the context.
func ContextWithLogger(ctx context.Context, log pslog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return pslog.ContextWithLogger(ctx, log)
}
