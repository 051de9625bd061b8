package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// NewJSONLogger creates a JSON logger writing to writer at the given level
func NewJSONLogger(writer io.Writer, level Level) *JSONLogger {
	return &JSONLogger{
		writer: writer,
		level:  &levelVar{level: level},
		fields: make([]Field, 0),
		mu:     &sync.Mutex{},
	}
}

// NewStderrLogger creates a logger on stderr. The CLI keeps stdout for reports.
func NewStderrLogger(level Level) *JSONLogger {
	return NewJSONLogger(os.Stderr, level)
}

func (l *JSONLogger) log(level Level, msg string, fields ...Field) {
	if level < l.level.get() {
		return
	}

	fieldMap := make(map[string]any, len(l.fields)+len(fields))
	for _, f := range l.fields {
		fieldMap[f.Key] = f.Value
	}
	for _, f := range fields {
		fieldMap[f.Key] = f.Value
	}

	entry := LogEntry{
		Time:    time.Now().Format(time.RFC3339Nano),
		Level:   level.String(),
		Message: msg,
	}
	if len(fieldMap) > 0 {
		entry.Fields = fieldMap
	}

	data, err := json.Marshal(entry)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		fmt.Fprintf(l.writer, "[ERROR] Failed to marshal log entry: %v\n", err)
		return
	}
	l.writer.Write(append(data, '\n'))
}

// Debug logs a debug-level message
func (l *JSONLogger) Debug(msg string, fields ...Field) {
	l.log(DebugLevel, msg, fields...)
}

// Info logs an info-level message
func (l *JSONLogger) Info(msg string, fields ...Field) {
	l.log(InfoLevel, msg, fields...)
}

// Warn logs a warning-level message
func (l *JSONLogger) Warn(msg string, fields ...Field) {
	l.log(WarnLevel, msg, fields...)
}

// Error logs an error-level message
func (l *JSONLogger) Error(msg string, fields ...Field) {
	l.log(ErrorLevel, msg, fields...)
}

// With creates a child logger sharing the writer and level
func (l *JSONLogger) With(fields ...Field) Logger {
	newFields := make([]Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	return &JSONLogger{
		writer: l.writer,
		level:  l.level,
		fields: newFields,
		mu:     l.mu,
	}
}

// SetLevel sets the minimum log level for this logger and its children
func (l *JSONLogger) SetLevel(level Level) {
	l.level.set(level)
}

// GetLevel returns the current log level
func (l *JSONLogger) GetLevel() Level {
	return l.level.get()
}

var (
	defaultLogger Logger
	defaultMu     sync.RWMutex
	once          sync.Once
)

// DefaultLogger returns the process-wide logger. LOG_LEVEL sets its level.
func DefaultLogger() Logger {
	once.Do(func() {
		level := InfoLevel
		if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
			level = ParseLevel(levelStr)
		}
		defaultMu.Lock()
		if defaultLogger == nil {
			defaultLogger = NewStderrLogger(level)
		}
		defaultMu.Unlock()
	})
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger replaces the process-wide logger
func SetDefaultLogger(logger Logger) {
	once.Do(func() {})
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}

// StartTimer begins timing an operation
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: OrNop(logger),
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// Elapsed returns the time since the timer started
func (t *TimedOperation) Elapsed() time.Duration {
	return time.Since(t.start)
}

// End logs the operation at INFO with its duration and any extra fields
func (t *TimedOperation) End(extra ...Field) time.Duration {
	elapsed := time.Since(t.start)
	fields := append(append([]Field{}, t.fields...), extra...)
	t.logger.Info(t.msg, append(fields, Latency(elapsed))...)
	return elapsed
}

// EndError logs the operation as an error with its duration
func (t *TimedOperation) EndError(err error) time.Duration {
	elapsed := time.Since(t.start)
	fields := append([]Field{}, t.fields...)
	t.logger.Error(t.msg, append(fields, Latency(elapsed), Error(err))...)
	return elapsed
}
