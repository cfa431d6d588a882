// Package logging is the process-wide charmbracelet/log logger. The
// dashboard logs to a dated file because the alternate screen owns the
// terminal; subcommands log to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	mu   sync.RWMutex
	std  = log.New(io.Discard)
	file *os.File
)

// Init opens seismic-YYYY-MM-DD.log under dir, creating dir if needed, and
// logs everything from debug up into it.
func Init(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(dir, "seismic-"+time.Now().Format(time.DateOnly)+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	l := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           log.DebugLevel,
	})
	swap(l, f)
	l.Info("log opened", "path", path)
	return nil
}

// InitWriter logs to w at level with short timestamps.
func InitWriter(w io.Writer, level log.Level) {
	swap(log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           level,
	}), nil)
}

// Close closes the log file, if any, and discards later output.
func Close() {
	current().Debug("log closed")
	swap(log.New(io.Discard), nil)
}

func swap(l *log.Logger, f *os.File) {
	mu.Lock()
	old := file
	std, file = l, f
	mu.Unlock()
	if old != nil {
		old.Close()
	}
}

func current() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return std
}

func Debug(msg string, keyvals ...any) { current().Debug(msg, keyvals...) }
func Info(msg string, keyvals ...any)  { current().Info(msg, keyvals...) }
func Warn(msg string, keyvals ...any)  { current().Warn(msg, keyvals...) }
func Error(msg string, keyvals ...any) { current().Error(msg, keyvals...) }

// WithPrefix returns a sub-logger tagged with prefix. It keeps writing to
// the logger active at the time of the call.
func WithPrefix(prefix string) *log.Logger {
	return current().WithPrefix(prefix)
}
