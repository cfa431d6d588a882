package otel

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// lines closes l and decodes every JSONL line written to buf.
func lines(t *testing.T, l *Logger, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	l.Close()
	var out []map[string]any
	for i, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("line %d is not JSON: %v\n%s", i, err, line)
		}
		out = append(out, m)
	}
	return out
}

func TestEmitStampsTimeAndSession(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	before := time.Now()
	l.Emit(Event{Kind: KindStartup})
	l.Emit(Event{Kind: KindShutdown})
	l.Close()
	after := time.Now()

	var first, second Event
	parts := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(parts) != 2 {
		t.Fatalf("got %d lines, want 2", len(parts))
	}
	if err := json.Unmarshal([]byte(parts[0]), &first); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(parts[1]), &second); err != nil {
		t.Fatal(err)
	}

	if first.Time.Before(before) || first.Time.After(after) {
		t.Errorf("time %v outside [%v, %v]", first.Time, before, after)
	}
	if _, err := uuid.Parse(first.SessionID); err != nil {
		t.Errorf("session %q is not a uuid: %v", first.SessionID, err)
	}
	if first.SessionID != second.SessionID || first.SessionID != l.SessionID() {
		t.Errorf("sessions differ: %q %q %q", first.SessionID, second.SessionID, l.SessionID())
	}
}

func TestEventEncoding(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)
	l.Emit(Event{Kind: KindStartup})
	l.Emit(Event{Kind: KindRenderPass, Dur: 1500 * time.Millisecond, Command: "ToggleBin"})
	got := lines(t, l, &buf)

	bare := got[0]
	for _, field := range []string{"dur_ms", "count", "source", "cmd", "err", "msg", "extra"} {
		if _, ok := bare[field]; ok {
			t.Errorf("empty field %q was serialized", field)
		}
	}
	if got[1]["dur_ms"] != 1500.0 {
		t.Errorf("dur_ms = %v, want 1500", got[1]["dur_ms"])
	}
	if got[1]["cmd"] != "ToggleBin" {
		t.Errorf("cmd = %v", got[1]["cmd"])
	}
}

func TestHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	l.Info(KindStartup, "main", "starting")
	l.Warn(KindDatasetWarn, "model", "plates missing")
	l.Error(KindError, "main", errors.New("disk full"))
	l.Command("PickYear", true)
	l.Command("PickYear", false)
	l.RenderPass("PickYear", 42, time.Millisecond)
	l.DatasetLoaded("database.csv", 23000, time.Second)
	l.DatasetFailed("database.csv", errors.New("no rows"))
	got := lines(t, l, &buf)

	tests := []struct {
		level, kind, comp string
	}{
		{"info", "sys.startup", "main"},
		{"warn", "dataset.warn", "model"},
		{"error", "sys.error", "main"},
		{"debug", "selection.command", "controller"},
		{"debug", "selection.noop", "controller"},
		{"debug", "render.pass", "controller"},
		{"info", "dataset.load", "model"},
		{"error", "dataset.error", "model"},
	}
	if len(got) != len(tests) {
		t.Fatalf("got %d events, want %d", len(got), len(tests))
	}
	for i, tt := range tests {
		if got[i]["level"] != tt.level || got[i]["kind"] != tt.kind || got[i]["comp"] != tt.comp {
			t.Errorf("event %d = %v/%v/%v, want %s/%s/%s",
				i, got[i]["level"], got[i]["kind"], got[i]["comp"], tt.level, tt.kind, tt.comp)
		}
	}
	if got[2]["err"] != "disk full" {
		t.Errorf("err = %v", got[2]["err"])
	}
	if got[5]["count"] != 42.0 {
		t.Errorf("render count = %v, want 42", got[5]["count"])
	}
	if got[6]["source"] != "database.csv" || got[6]["count"] != 23000.0 {
		t.Errorf("dataset.load = %v", got[6])
	}
}

func TestConcurrentEmit(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Command("ToggleCategory", true)
		}()
	}
	wg.Wait()

	if got := lines(t, l, &buf); len(got) != 100 {
		t.Errorf("got %d events, want 100", len(got))
	}
}

func TestRingReceivesEvents(t *testing.T) {
	l := NewNullLogger()
	ring := NewRingBuffer(8)
	l.SetRingBuffer(ring)

	l.RenderPass("Reset", 7, 3*time.Millisecond)
	l.Close()

	last := ring.Last(1)
	if len(last) != 1 {
		t.Fatalf("ring holds %d events, want 1", len(last))
	}
	if last[0].Kind != KindRenderPass || last[0].Dur != 3*time.Millisecond {
		t.Errorf("ring event = %+v", last[0])
	}
}

func TestNilLoggerIsNoop(t *testing.T) {
	var l *Logger
	l.Emit(Event{Kind: KindStartup})
	l.Command("Reset", true)
	l.SetRingBuffer(NewRingBuffer(1))
	l.Close()
	if l.Dropped() != 0 || l.SessionID() != "" {
		t.Error("nil logger reported state")
	}
}

func TestEmitAfterCloseIsDropped(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)
	l.Emit(Event{Kind: KindStartup})
	l.Close()
	l.Close()

	l.Emit(Event{Kind: KindShutdown})
	if l.Dropped() != 1 {
		t.Errorf("dropped = %d, want 1", l.Dropped())
	}
	if n := strings.Count(buf.String(), "\n"); n != 1 {
		t.Errorf("wrote %d lines, want 1", n)
	}
}

// stallWriter blocks its first Write until release is closed.
type stallWriter struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (w *stallWriter) Write(p []byte) (int, error) {
	w.once.Do(func() {
		close(w.entered)
		<-w.release
	})
	return len(p), nil
}

func TestFullQueueDrops(t *testing.T) {
	w := &stallWriter{entered: make(chan struct{}), release: make(chan struct{})}
	l := NewLogger(w)

	l.Emit(Event{Kind: KindCommand})
	<-w.entered

	for i := 0; i < queueSize+10; i++ {
		l.Emit(Event{Kind: KindCommand})
	}
	if l.Dropped() == 0 {
		t.Error("expected drops with a stalled writer")
	}

	close(w.release)
	l.Close()
}
