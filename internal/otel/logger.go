package otel

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// queueSize bounds the events waiting for the writer. A render pass emits
// two events, so this covers bursts of key repeat comfortably.
const queueSize = 4096

// queued pairs the encoded line with the event itself so the ring buffer
// keeps fields that are not serialized (Dur).
type queued struct {
	line []byte
	ev   Event
}

// Logger appends events to a JSONL stream from a single writer goroutine and
// mirrors them into an optional RingBuffer. A nil *Logger is valid and
// discards everything, so callers never need to guard their emits.
//
// The writer goroutine owns w. mu guards ring; sendMu orders sends against
// Close so no send ever hits a closed queue.
type Logger struct {
	session string
	w       io.Writer
	queue   chan queued
	done    chan struct{}

	mu   sync.Mutex
	ring *RingBuffer

	sendMu  sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

// NewLogger starts a Logger writing to w. Close flushes it.
func NewLogger(w io.Writer) *Logger {
	l := &Logger{
		session: uuid.NewString(),
		w:       w,
		queue:   make(chan queued, queueSize),
		done:    make(chan struct{}),
	}
	go l.run()
	return l
}

// NewNullLogger returns a Logger whose JSONL output is discarded. Attached
// ring buffers still receive events.
func NewNullLogger() *Logger {
	return NewLogger(io.Discard)
}

func (l *Logger) run() {
	defer close(l.done)
	for q := range l.queue {
		if _, err := l.w.Write(q.line); err != nil {
			l.dropped.Add(1)
		}
		l.mu.Lock()
		ring := l.ring
		l.mu.Unlock()
		if ring != nil {
			ring.Push(q.ev)
		}
	}
}

// Emit stamps e with the time (if unset) and the session, then queues it.
// It never blocks: a full queue or a closed logger counts a drop.
func (l *Logger) Emit(e Event) {
	if l == nil {
		return
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.SessionID = l.session

	line, err := json.Marshal(e)
	if err != nil {
		l.dropped.Add(1)
		return
	}
	line = append(line, '\n')

	l.sendMu.RLock()
	defer l.sendMu.RUnlock()
	if l.closed {
		l.dropped.Add(1)
		return
	}
	select {
	case l.queue <- queued{line: line, ev: e}:
	default:
		l.dropped.Add(1)
	}
}

func (l *Logger) Info(kind EventKind, comp, msg string) {
	l.Emit(Event{Level: LevelInfo, Kind: kind, Comp: comp, Msg: msg})
}

func (l *Logger) Warn(kind EventKind, comp, msg string) {
	l.Emit(Event{Level: LevelWarn, Kind: kind, Comp: comp, Msg: msg})
}

// Error records err under kind. A nil err records an empty message.
func (l *Logger) Error(kind EventKind, comp string, err error) {
	e := Event{Level: LevelError, Kind: kind, Comp: comp}
	if err != nil {
		e.Err = err.Error()
	}
	l.Emit(e)
}

// Command records one reduced selection command and whether it changed the
// snapshot.
func (l *Logger) Command(name string, changed bool) {
	kind := KindCommand
	if !changed {
		kind = KindCommandNoop
	}
	l.Emit(Event{Level: LevelDebug, Kind: kind, Comp: "controller", Command: name})
}

// RenderPass records one derivation pass, what triggered it and how many
// records reached the map.
func (l *Logger) RenderPass(cause string, mapped int, dur time.Duration) {
	l.Emit(Event{Level: LevelDebug, Kind: KindRenderPass, Comp: "controller", Command: cause, Count: mapped, Dur: dur})
}

// DatasetLoaded records a successful startup load.
func (l *Logger) DatasetLoaded(source string, records int, dur time.Duration) {
	l.Emit(Event{Level: LevelInfo, Kind: KindDatasetLoad, Comp: "model", Source: source, Count: records, Dur: dur})
}

// DatasetFailed records a fatal load error for source.
func (l *Logger) DatasetFailed(source string, err error) {
	e := Event{Level: LevelError, Kind: KindDatasetError, Comp: "model", Source: source}
	if err != nil {
		e.Err = err.Error()
	}
	l.Emit(e)
}

// SetRingBuffer mirrors subsequent events into ring.
func (l *Logger) SetRingBuffer(ring *RingBuffer) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.ring = ring
	l.mu.Unlock()
}

func (l *Logger) SessionID() string {
	if l == nil {
		return ""
	}
	return l.session
}

// Dropped counts events lost to a full queue, a write error or a late emit.
func (l *Logger) Dropped() uint64 {
	if l == nil {
		return 0
	}
	return l.dropped.Load()
}

// Close drains the queue and stops the writer. It does not close w.
// Later calls are no-ops.
func (l *Logger) Close() {
	if l == nil {
		return
	}
	l.sendMu.Lock()
	if l.closed {
		l.sendMu.Unlock()
		return
	}
	l.closed = true
	close(l.queue)
	l.sendMu.Unlock()

	<-l.done
	if n := l.dropped.Load(); n > 0 {
		fmt.Fprintf(os.Stderr, "seismic: %d telemetry events dropped (session %s)\n", n, l.session)
	}
}
