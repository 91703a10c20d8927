package core

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"pkt.systems/ctxdesk/schema"
)

type fakeFiles struct {
	mu       sync.Mutex
	content  map[string]string
	readErr  map[string]error
	writeErr error
	writes   []string
	// readGate blocks reads until closed when set.
	readGate chan struct{}
	// writeGate blocks writes until closed when set; writeStarted is signalled
	// once per blocked write.
	writeGate    chan struct{}
	writeStarted chan struct{}
}

func newFakeFiles(content map[string]string) *fakeFiles {
	if content == nil {
		content = map[string]string{}
	}
	return &fakeFiles{content: content, readErr: map[string]error{}}
}

func (f *fakeFiles) ReadFile(ctx context.Context, path string) (string, error) {
	f.mu.Lock()
	gate := f.readGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.readErr[path]; err != nil {
		return "", err
	}
	content, ok := f.content[path]
	if !ok {
		return "", os.ErrNotExist
	}
	return content, nil
}

func (f *fakeFiles) WriteFile(ctx context.Context, path, content string) error {
	f.mu.Lock()
	gate, started := f.writeGate, f.writeStarted
	f.mu.Unlock()
	if gate != nil {
		if started != nil {
			started <- struct{}{}
		}
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, path)
	if f.writeErr != nil {
		return f.writeErr
	}
	f.content[path] = content
	return nil
}

func (f *fakeFiles) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

func (f *fakeFiles) stored(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.content[path]
}

type recordingSink struct {
	mu     sync.Mutex
	events []schema.SessionEvent
}

func (r *recordingSink) OnSessionEvent(event schema.SessionEvent) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

func (r *recordingSink) count(kind schema.SessionEventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, event := range r.events {
		if event.Type == kind {
			n++
		}
	}
	return n
}

type countingObserver struct {
	mu    sync.Mutex
	calls int
}

func (c *countingObserver) Notify() {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}

func (c *countingObserver) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type sessionHarness struct {
	session  *Session
	files    *fakeFiles
	sink     *recordingSink
	observer *countingObserver
}

func newHarness(t *testing.T, content map[string]string) *sessionHarness {
	t.Helper()
	h := &sessionHarness{
		files:    newFakeFiles(content),
		sink:     &recordingSink{},
		observer: &countingObserver{},
	}
	session, err := NewSession(schema.SessionConfig{}, SessionDeps{
		Files:    h.files,
		Sink:     h.sink,
		Observer: h.observer,
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	h.session = session
	return h
}

func (h *sessionHarness) open(t *testing.T, path string, pane schema.PaneID) schema.TabID {
	t.Helper()
	id, err := h.session.OpenFile(context.Background(), schema.FileRef{Path: path}, pane)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	h.session.Wait()
	return id
}

func (h *sessionHarness) validate(t *testing.T) {
	t.Helper()
	if err := h.session.Validate(); err != nil {
		t.Fatalf("invalid session: %v", err)
	}
}

func panePaths(t *testing.T, s *Session, idx int) []string {
	t.Helper()
	snap := s.Snapshot()
	if idx >= len(snap.Panes) {
		t.Fatalf("pane %d missing (have %d)", idx, len(snap.Panes))
	}
	return snap.Panes[idx].Paths()
}

func activePath(t *testing.T, s *Session, idx int) string {
	t.Helper()
	snap := s.Snapshot()
	if idx >= len(snap.Panes) {
		t.Fatalf("pane %d missing (have %d)", idx, len(snap.Panes))
	}
	return snap.Panes[idx].ActivePath()
}

var errDiskFull = errors.New("disk full")
