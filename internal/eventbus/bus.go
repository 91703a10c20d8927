package eventbus

import (
	"context"
	"sync"

	"pkt.systems/ctxdesk/schema"
	"pkt.systems/pslog"
)

// Event is a UI-facing event emitted by the editor session.
type Event = schema.SessionEvent

type subscriber struct {
	types map[schema.SessionEventType]struct{}
}

func (s subscriber) wants(kind schema.SessionEventType) bool {
	if len(s.types) == 0 {
		return true
	}
	_, ok := s.types[kind]
	return ok
}

// Bus fans session events out to subscribers. Publishing never blocks: a
// subscriber whose buffer is full misses the event.
type Bus struct {
	mu    sync.Mutex
	subs  map[chan Event]subscriber
	log   pslog.Logger
	depth int
}

// New constructs a Bus.
func New(logger pslog.Logger) *Bus {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Bus{
		subs:  make(map[chan Event]subscriber),
		log:   logger,
		depth: 256,
	}
}

// Subscribe registers a subscriber for the given event types (all types when
// none are given) and returns a channel + cancel.
func (b *Bus) Subscribe(types ...schema.SessionEventType) (<-chan Event, func()) {
	if b == nil {
		return nil, func() {}
	}
	sub := subscriber{}
	if len(types) > 0 {
		sub.types = make(map[schema.SessionEventType]struct{}, len(types))
		for _, kind := range types {
			sub.types[kind] = struct{}{}
		}
	}
	ch := make(chan Event, b.depth)
	b.mu.Lock()
	b.subs[ch] = sub
	count := len(b.subs)
	b.mu.Unlock()
	if b.log != nil {
		b.log.Debug("eventbus subscribe", "subs", count, "types", len(types))
	}
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
			if b.log != nil {
				b.log.Debug("eventbus unsubscribe")
			}
		})
	}
}

// OnSessionEvent publishes a session event.
func (b *Bus) OnSessionEvent(event schema.SessionEvent) {
	b.publish(event)
}

func (b *Bus) publish(event Event) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.subs) == 0 {
		return
	}
	dropped := 0
	for ch, sub := range b.subs {
		if !sub.wants(event.Type) {
			continue
		}
		select {
		case ch <- event:
		default:
			dropped++
		}
	}
	if dropped > 0 && b.log != nil {
		b.log.Trace("eventbus dropped", "type", event.Type, "count", dropped)
	}
}
