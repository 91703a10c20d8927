package core

import (
	"context"

	"pkt.systems/ctxdesk/schema"
)

// EventSink receives session events for the UI layer.
type EventSink interface {
	OnSessionEvent(event schema.SessionEvent)
}

// ChangeObserver is notified after every mutation that may change the
// persisted projection of the session.
type ChangeObserver interface {
	Notify()
}

// FileIO reads and writes file content on behalf of tabs.
type FileIO interface {
	ReadFile(ctx context.Context, path string) (string, error)
	WriteFile(ctx context.Context, path, content string) error
}

// KnownFiles lists the files a persisted session may refer to.
type KnownFiles interface {
	ListKnownFiles(ctx context.Context) ([]schema.FileRef, error)
}
