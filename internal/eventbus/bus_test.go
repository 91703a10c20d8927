package eventbus

import (
	"testing"
	"time"

	"pkt.systems/ctxdesk/schema"
)

func TestSubscribeAndPublish(t *testing.T) {
	bus := New(nil)
	ch, cancel := bus.Subscribe()
	defer cancel()

	event := schema.SessionEvent{Type: schema.EventTabOpened, PaneID: "p-one", TabID: "t-one", Path: "/ws/CLAUDE.md"}
	bus.OnSessionEvent(event)

	select {
	case got := <-ch:
		if got != event {
			t.Fatalf("unexpected payload: %+v", got)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for event")
	}
}

func TestSubscribeFiltersTypes(t *testing.T) {
	bus := New(nil)
	ch, cancel := bus.Subscribe(schema.EventSaveFailed)
	defer cancel()

	bus.OnSessionEvent(schema.SessionEvent{Type: schema.EventTabOpened})
	bus.OnSessionEvent(schema.SessionEvent{Type: schema.EventSaveFailed, Err: "disk full"})

	select {
	case got := <-ch:
		if got.Type != schema.EventSaveFailed {
			t.Fatalf("expected save-failed event, got %v", got.Type)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for event")
	}
	select {
	case got := <-ch:
		t.Fatalf("unexpected extra event %v", got.Type)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := New(nil)
	ch, cancel := bus.Subscribe()
	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel to be closed")
	}
	bus.OnSessionEvent(schema.SessionEvent{Type: schema.EventTabClosed})
}

func TestPublishDoesNotBlockWhenFull(t *testing.T) {
	bus := New(nil)
	bus.depth = 1
	_, cancel := bus.Subscribe()
	defer cancel()

	bus.OnSessionEvent(schema.SessionEvent{Type: schema.EventTabOpened})
	done := make(chan struct{})
	go func() {
		bus.OnSessionEvent(schema.SessionEvent{Type: schema.EventTabClosed})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("publish blocked on full channel")
	}
}

func TestNilBusIsSafe(t *testing.T) {
	var bus *Bus
	ch, cancel := bus.Subscribe()
	if ch != nil {
		t.Fatalf("expected nil channel from nil bus")
	}
	cancel()
	bus.OnSessionEvent(schema.SessionEvent{Type: schema.EventTabOpened})
}
