// Package logger provides structured logging for the safetynet hook.
//
// The hook protocol owns stdout, so loggers here only ever write to a file
// (or an injected writer in tests), never to the standard streams.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Logger provides a structured logging interface.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs info-level messages with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Error logs error-level messages with optional key-value pairs.
	Error(msg string, keysAndValues ...any)

	// With returns a new logger with additional key-value pairs.
	With(keysAndValues ...any) Logger
}

// Level represents the log level.
type Level string

const (
	// LevelDebug represents debug-level logging.
	LevelDebug Level = "DEBUG"

	// LevelInfo represents info-level logging.
	LevelInfo Level = "INFO"

	// LevelError represents error-level logging.
	LevelError Level = "ERROR"

	// LogFilePermissions defines log file permissions (owner read/write only).
	LogFilePermissions = 0o600
)

// FileLogger implements Logger with file output only.
type FileLogger struct {
	out       io.Writer
	baseKVs   []any
	debugMode bool
	traceMode bool
}

// NewFileLogger creates a FileLogger appending to the given path.
func NewFileLogger(filePath string, debugMode, traceMode bool) (*FileLogger, error) {
	//nolint:gosec // log path is under the user's home directory
	out, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &FileLogger{
		out:       out,
		debugMode: debugMode,
		traceMode: traceMode,
	}, nil
}

// NewFileLoggerWithWriter creates a FileLogger with a custom writer.
func NewFileLoggerWithWriter(out io.Writer, debugMode, traceMode bool) *FileLogger {
	return &FileLogger{
		out:       out,
		debugMode: debugMode,
		traceMode: traceMode,
	}
}

// Debug logs debug-level messages. Emitted only in trace mode.
func (l *FileLogger) Debug(msg string, keysAndValues ...any) {
	if !l.traceMode {
		return
	}

	l.log(LevelDebug, msg, keysAndValues...)
}

// Info logs info-level messages. Emitted in debug or trace mode.
func (l *FileLogger) Info(msg string, keysAndValues ...any) {
	if !l.debugMode && !l.traceMode {
		return
	}

	l.log(LevelInfo, msg, keysAndValues...)
}

// Error logs error-level messages. Always emitted.
func (l *FileLogger) Error(msg string, keysAndValues ...any) {
	l.log(LevelError, msg, keysAndValues...)
}

// With returns a new logger carrying additional base key-value pairs.
//
//nolint:ireturn // With returns an interface for chaining
func (l *FileLogger) With(keysAndValues ...any) Logger {
	kvs := make([]any, 0, len(l.baseKVs)+len(keysAndValues))
	kvs = append(kvs, l.baseKVs...)
	kvs = append(kvs, keysAndValues...)

	return &FileLogger{
		out:       l.out,
		baseKVs:   kvs,
		debugMode: l.debugMode,
		traceMode: l.traceMode,
	}
}

func (l *FileLogger) log(level Level, msg string, keysAndValues ...any) {
	if l.out == nil {
		return
	}

	var b strings.Builder

	b.WriteString(time.Now().UTC().Format("2006-01-02T15:04:05Z"))
	b.WriteString(" ")
	b.WriteString(string(level))
	b.WriteString(" ")
	b.WriteString(msg)

	writeKeyValues(&b, l.baseKVs)
	writeKeyValues(&b, keysAndValues)
	b.WriteString("\n")

	_, _ = io.WriteString(l.out, b.String())
}

// writeKeyValues formats key-value pairs and appends them to the builder.
// An odd trailing key is dropped.
func writeKeyValues(b *strings.Builder, kvs []any) {
	for i := 0; i+1 < len(kvs); i += 2 {
		key := fmt.Sprintf("%v", kvs[i])
		value := fmt.Sprintf("%v", kvs[i+1])

		b.WriteString(" ")
		b.WriteString(key)
		b.WriteString("=")

		if strings.ContainsAny(value, " \t\n\"") {
			b.WriteString(quote(value))
		} else {
			b.WriteString(value)
		}
	}
}

func quote(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		"\"", "\\\"",
		"\n", "\\n",
		"\r", "\\r",
		"\t", "\\t",
	)

	return "\"" + r.Replace(s) + "\""
}

// NoOpLogger is a logger that does nothing.
type NoOpLogger struct{}

// NewNoOpLogger creates a new NoOpLogger.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// Debug does nothing.
func (*NoOpLogger) Debug(string, ...any) {}

// Info does nothing.
func (*NoOpLogger) Info(string, ...any) {}

// Error does nothing.
func (*NoOpLogger) Error(string, ...any) {}

// With returns the same NoOpLogger.
//
//nolint:ireturn // With returns an interface for chaining
func (n *NoOpLogger) With(...any) Logger {
	return n
}
