// Package otel records dashboard interaction telemetry as JSONL: the
// selection commands reduced, the derivation passes they trigger and the
// dataset load. A RingBuffer keeps the recent past for the debug overlay.
package otel

import (
	"encoding/json"
	"time"
)

type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind is "<subsystem>.<action>".
type EventKind string

const (
	KindDatasetLoad  EventKind = "dataset.load"
	KindDatasetWarn  EventKind = "dataset.warn"
	KindDatasetError EventKind = "dataset.error"

	KindCommand     EventKind = "selection.command" // changed the snapshot
	KindCommandNoop EventKind = "selection.noop"    // rejected or idempotent

	KindRenderPass EventKind = "render.pass"
	KindKeyPress   EventKind = "ui.key"

	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"

	// Only emitted when TraceEnabled.
	KindMsgReceived EventKind = "trace.msg_received"
)

// Event is one JSONL line. Kind is the only required field.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	Command   string         `json:"cmd,omitempty"`    // selection command, or what caused a render pass
	Count     int            `json:"count,omitempty"`  // records loaded, or records on the map
	Source    string         `json:"source,omitempty"` // catalog path or URL; empty for the cache
	Dur       time.Duration  `json:"-"`
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON writes Dur as fractional milliseconds under dur_ms.
func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	wire := struct {
		plain
		DurMs float64 `json:"dur_ms,omitempty"`
	}{plain: plain(e)}
	if e.Dur > 0 {
		wire.DurMs = e.Dur.Seconds() * 1000
	}
	return json.Marshal(wire)
}
