package logging

import (
	"io"
	"strings"
	"sync"
	"time"
)

// Level is the minimum severity a logger emits.
type Level int

const (
	// DebugLevel covers per-candidate and polling detail
	DebugLevel Level = iota
	// InfoLevel is the default
	InfoLevel
	// WarnLevel marks recoverable problems such as terms missing from the ontology
	WarnLevel
	// ErrorLevel marks failed runs
	ErrorLevel
)

// String returns the upper-case name of the level
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a case-insensitive level name. Unknown names map to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Field is a key-value pair attached to a log entry
type Field struct {
	Key   string
	Value any
}

// Logger is the structured logging interface used across the module
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// With returns a child logger with the given fields pre-set
	With(fields ...Field) Logger
	SetLevel(level Level)
	GetLevel() Level
}

// JSONLogger writes one JSON object per line
type JSONLogger struct {
	writer io.Writer
	level  *levelVar
	fields []Field
	mu     *sync.Mutex
}

// levelVar is shared between a logger and its children so SetLevel on the
// root affects every component logger derived from it.
type levelVar struct {
	mu    sync.RWMutex
	level Level
}

func (v *levelVar) get() Level {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.level
}

func (v *levelVar) set(level Level) {
	v.mu.Lock()
	v.level = level
	v.mu.Unlock()
}

// LogEntry is the JSON shape of a single line
type LogEntry struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// NopLogger discards everything. Used by tests and as the default for
// components constructed without a logger.
type NopLogger struct{}

func (NopLogger) Debug(msg string, fields ...Field) {}
func (NopLogger) Info(msg string, fields ...Field)  {}
func (NopLogger) Warn(msg string, fields ...Field)  {}
func (NopLogger) Error(msg string, fields ...Field) {}
func (n NopLogger) With(fields ...Field) Logger     { return n }
func (NopLogger) SetLevel(level Level)              {}
func (NopLogger) GetLevel() Level                   { return InfoLevel }

// NewNopLogger creates a logger that discards all output
func NewNopLogger() Logger {
	return NopLogger{}
}

// OrNop returns l, or a NopLogger when l is nil
func OrNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}

// TimedOperation measures the duration of an operation and logs it on End
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}
