package persist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pkt.systems/ctxdesk/core"
	"pkt.systems/ctxdesk/schema"
)

type fakeSaver struct {
	mu     sync.Mutex
	writes [][]byte
	err    error
}

func (f *fakeSaver) SaveRaw(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, append([]byte(nil), data...))
	return nil
}

func (f *fakeSaver) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

func (f *fakeSaver) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeSaver) lastState(t *testing.T) schema.PersistedState {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.writes) == 0 {
		t.Fatalf("no writes recorded")
	}
	state, err := schema.UnmarshalPersistedState(f.writes[len(f.writes)-1])
	if err != nil {
		t.Fatalf("decode write: %v", err)
	}
	return state
}

func waitForWrites(t *testing.T, saver *fakeSaver, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if saver.count() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d writes, got %d", want, saver.count())
}

func newWiredSession(t *testing.T, saver *fakeSaver, delay time.Duration) (*core.Session, *Writer) {
	t.Helper()
	var session *core.Session
	writer := NewWriter(saver, func() schema.PersistedState { return session.PersistedState() }, delay, nil)
	var err error
	session, err = core.NewSession(schema.SessionConfig{}, core.SessionDeps{Observer: writer})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return session, writer
}

func TestRapidEditsProduceOneWrite(t *testing.T) {
	saver := &fakeSaver{}
	delay := 40 * time.Millisecond
	session, writer := newWiredSession(t, saver, delay)
	writer.Arm()

	id, err := session.OpenFile(context.Background(), schema.FileRef{Path: "/ws/CLAUDE.md"}, "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 10; i++ {
		if err := session.UpdateContent(id, fmt.Sprintf("edit %d", i)); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	if tab, _ := session.Tab(id); !tab.Dirty {
		t.Fatalf("expected dirty tab after edits")
	}

	waitForWrites(t, saver, 1)
	time.Sleep(4 * delay)
	if got := saver.count(); got != 1 {
		t.Fatalf("expected exactly one write, got %d", got)
	}
	state := saver.lastState(t)
	if len(state.Panes) != 1 || len(state.Panes[0].TabPaths) != 1 || state.Panes[0].TabPaths[0] != "/ws/CLAUDE.md" {
		t.Fatalf("unexpected written state %+v", state)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestWriterIgnoresNotifyUntilArmed(t *testing.T) {
	saver := &fakeSaver{}
	delay := 10 * time.Millisecond
	session, writer := newWiredSession(t, saver, delay)

	if _, err := session.OpenFile(context.Background(), schema.FileRef{Path: "/ws/a.md"}, ""); err != nil {
		t.Fatalf("open: %v", err)
	}
	time.Sleep(5 * delay)
	if saver.count() != 0 {
		t.Fatalf("expected no writes before arm")
	}

	writer.Arm()
	if err := writer.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if saver.count() != 0 {
		t.Fatalf("expected armed state to count as already stored")
	}
}

func TestWriterSkipsIdenticalSnapshot(t *testing.T) {
	saver := &fakeSaver{}
	session, writer := newWiredSession(t, saver, time.Hour)
	writer.Arm()

	if !session.SplitPane(schema.SplitStacked) {
		t.Fatalf("expected split")
	}
	if err := writer.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := writer.Flush(); err != nil {
		t.Fatalf("second flush: %v", err)
	}
	if got := saver.count(); got != 1 {
		t.Fatalf("expected identical snapshot skipped, got %d writes", got)
	}
}

func TestWriterRetriesAfterFailure(t *testing.T) {
	saver := &fakeSaver{}
	session, writer := newWiredSession(t, saver, time.Hour)
	writer.Arm()
	saver.setErr(errors.New("read-only file system"))

	session.SplitPane(schema.SplitSideBySide)
	if err := writer.Flush(); err == nil {
		t.Fatalf("expected flush error")
	}
	saver.setErr(nil)
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if got := saver.count(); got != 1 {
		t.Fatalf("expected failed write retried on close, got %d writes", got)
	}
	if state := saver.lastState(t); state.SplitDirection != schema.SplitSideBySide {
		t.Fatalf("expected latest state written, got %q", state.SplitDirection)
	}

	session.Unsplit()
	time.Sleep(10 * time.Millisecond)
	if got := saver.count(); got != 1 {
		t.Fatalf("expected no writes after close, got %d", got)
	}
}

func TestWriterWithStore(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	session, err := core.NewSession(schema.SessionConfig{}, core.SessionDeps{})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	writer := NewWriter(store, session.PersistedState, time.Hour, nil)
	if _, err := session.OpenFile(context.Background(), schema.FileRef{Path: "/ws/GEMINI.md"}, ""); err != nil {
		t.Fatalf("open: %v", err)
	}
	writer.Arm()
	session.SplitPane(schema.SplitStacked)
	if err := writer.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	state, ok, err := store.Load()
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if state.SplitDirection != schema.SplitStacked || len(state.Panes) != 2 {
		t.Fatalf("unexpected stored state %+v", state)
	}
}

func TestWriterCloseFlushesNotifyRacingClose(t *testing.T) {
	for i := 0; i < 200; i++ {
		saver := &fakeSaver{}
		var gen atomic.Int64
		source := func() schema.PersistedState {
			return schema.PersistedState{ActivePaneID: schema.PaneID(fmt.Sprintf("p%d", gen.Load()))}
		}
		writer := NewWriter(saver, source, time.Hour, nil)
		writer.Arm()

		start := make(chan struct{})
		done := make(chan struct{})
		go func() {
			defer close(done)
			<-start
			gen.Add(1)
			writer.Notify()
		}()
		close(start)
		if err := writer.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
		<-done

		writer.mu.Lock()
		pending := writer.pending
		writer.mu.Unlock()
		if pending {
			t.Fatalf("iteration %d: accepted notification left unwritten after close", i)
		}
		if saver.count() > 0 && saver.lastState(t).ActivePaneID != source().ActivePaneID {
			t.Fatalf("iteration %d: close wrote a stale projection", i)
		}
	}
}
