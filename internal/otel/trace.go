package otel

import (
	"os"
	"sync/atomic"
)

// TraceEnv turns on per-message trace events in the UI loop.
const TraceEnv = "SEISMIC_TRACE"

var tracing atomic.Bool

func init() { tracing.Store(os.Getenv(TraceEnv) != "") }

// TraceEnabled reports whether TraceEnv was set at startup.
func TraceEnabled() bool { return tracing.Load() }
