package persist

import (
	"bytes"
	"sync"
	"time"

	"pkt.systems/ctxdesk/schema"
	"pkt.systems/pslog"
)

// DefaultDelay is the quiet period before a snapshot write.
const DefaultDelay = 500 * time.Millisecond

// Saver stores serialized snapshots.
type Saver interface {
	SaveRaw(data []byte) error
}

// Writer debounces snapshot writes. Every Notify pushes the write out by the
// delay, so a burst of changes produces a single write once it settles. A
// write whose bytes equal the last successful write is skipped.
type Writer struct {
	saver  Saver
	source func() schema.PersistedState
	delay  time.Duration
	log    pslog.Logger

	mu      sync.Mutex
	armed   bool
	closed  bool
	pending bool
	timer   *time.Timer
	last    []byte

	// writeMu serializes flushes so timer and explicit flushes never interleave.
	writeMu sync.Mutex
}

// NewWriter constructs a writer that projects state via source and stores it
// via saver. It ignores notifications until Arm is called.
func NewWriter(saver Saver, source func() schema.PersistedState, delay time.Duration, logger pslog.Logger) *Writer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Writer{saver: saver, source: source, delay: delay, log: logger}
}

// Arm enables writes. The current projection is taken as already stored, so
// arming right after a restore does not rewrite the snapshot just read.
func (w *Writer) Arm() {
	data, err := schema.MarshalPersistedState(w.source())
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.armed = true
	if err == nil {
		w.last = data
	}
	if w.log != nil {
		w.log.Debug("state writer armed", "delay", w.delay)
	}
}

// Notify schedules a write after the quiet period.
func (w *Writer) Notify() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.armed || w.closed {
		return
	}
	w.pending = true
	if w.timer == nil {
		w.timer = time.AfterFunc(w.delay, w.fire)
		return
	}
	w.timer.Reset(w.delay)
}

func (w *Writer) fire() {
	w.mu.Lock()
	if !w.pending || w.closed {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()
	_ = w.Flush()
}

// Flush writes the current projection now unless it is unchanged. Failures
// are logged and returned; the write stays pending for the next Notify, Flush
// or Close.
func (w *Writer) Flush() error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	w.mu.Lock()
	w.pending = false
	if w.timer != nil {
		w.timer.Stop()
	}
	armed := w.armed
	w.mu.Unlock()
	if !armed {
		return nil
	}

	data, err := schema.MarshalPersistedState(w.source())
	if err != nil {
		if w.log != nil {
			w.log.Warn("state write failed", "err", err)
		}
		return err
	}
	w.mu.Lock()
	unchanged := bytes.Equal(w.last, data)
	w.mu.Unlock()
	if unchanged {
		if w.log != nil {
			w.log.Trace("state write skipped", "reason", "unchanged")
		}
		return nil
	}
	if err := w.saver.SaveRaw(data); err != nil {
		w.mu.Lock()
		w.pending = true
		w.mu.Unlock()
		if w.log != nil {
			w.log.Warn("state write failed", "err", err)
		}
		return err
	}
	w.mu.Lock()
	w.last = data
	w.mu.Unlock()
	if w.log != nil {
		w.log.Trace("state write ok", "bytes", len(data))
	}
	return nil
}

// Close flushes a pending write and stops accepting notifications. A flush
// already running on the timer is waited for.
func (w *Writer) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	pending := w.pending
	w.mu.Unlock()

	if pending {
		return w.Flush()
	}
	w.writeMu.Lock()
	w.writeMu.Unlock()
	return nil
}
