package testutil

import (
	"fmt"
	"sync"
	"time"

	"github.com/akademflow/backend/core"
)

// NewConfig returns a configuration suitable for tests: in-memory ledger, no external services.
func NewConfig() *core.Config {
	return &core.Config{
		AppName:  "AkademFlow",
		Env:      "TEST",
		TestMode: true,
		Location: time.UTC,
		Server: core.ServerConfig{
			Address:     ":0",
			CORSOrigins: []string{"*"},
			BodyLimit:   "2M",
		},
		Ledger: core.LedgerConfig{
			Backend: "memory",
			Spreadsheets: map[core.StageID]string{
				core.StageOne: "sheet-1",
				core.StageTwo: "sheet-2",
			},
			Timeout: 5 * time.Second,
		},
		Telegram: core.TelegramConfig{Timeout: 5 * time.Second},
	}
}

// LogEntry is a message recorded by Logger.
type LogEntry struct {
	Level   string
	Message string
	Args    []interface{}
}

// Logger records every message. Safe for concurrent use.
type Logger struct {
	mutex   sync.Mutex
	entries []LogEntry
}

var _ core.Logger = (*Logger)(nil)

func NewLogger() *Logger {
	return &Logger{}
}

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Message: msg, Args: args})
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("error", msg, args) }

func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.log("fatal", msg, args)
	panic(fmt.Sprintf("fatal: %s", msg))
}

// Entries returns the recorded messages of `level` (all of them when empty).
func (l *Logger) Entries(level string) []LogEntry {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	entries := make([]LogEntry, 0, len(l.entries))
	for _, e := range l.entries {
		if level == "" || e.Level == level {
			entries = append(entries, e)
		}
	}
	return entries
}
