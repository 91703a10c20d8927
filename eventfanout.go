package ctxdesk

import (
	"pkt.systems/ctxdesk/core"
	"pkt.systems/ctxdesk/schema"
)

type eventFanout struct {
	sinks []core.EventSink
}

func (f eventFanout) OnSessionEvent(event schema.SessionEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnSessionEvent(event)
	}
}
