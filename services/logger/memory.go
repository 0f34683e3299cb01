package logsvc

import (
	"sync"

	"github.com/trezcool/gpacalc/core"
)

// NopLogger discards everything.
type NopLogger struct{}

var _ core.Logger = NopLogger{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}

// LogEntry is one message recorded by a MemoryLogger.
type LogEntry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// MemoryLogger keeps every message in memory, for tests.
type MemoryLogger struct {
	mu      sync.Mutex
	Entries []LogEntry
}

var _ core.Logger = (*MemoryLogger)(nil)

func (l *MemoryLogger) record(level, msg string, args []interface{}) {
	l.mu.Lock()
	l.Entries = append(l.Entries, LogEntry{Level: level, Msg: msg, Args: args})
	l.mu.Unlock()
}

// Count returns how many messages were logged at level.
func (l *MemoryLogger) Count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

func (l *MemoryLogger) Debug(msg string, args ...interface{}) { l.record("debug", msg, args) }
func (l *MemoryLogger) Info(msg string, args ...interface{})  { l.record("info", msg, args) }
func (l *MemoryLogger) Warn(msg string, args ...interface{})  { l.record("warn", msg, args) }
func (l *MemoryLogger) Error(msg string, args ...interface{}) { l.record("error", msg, args) }
func (l *MemoryLogger) Fatal(msg string, args ...interface{}) { l.record("fatal", msg, args) }
