package logger

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"
)

// Logger writes JSON lines to a diagnostic sink.
// The dashboard owns the terminal, so the sink is normally a file.
type Logger struct {
	serviceName string
	mu          sync.Mutex
	out         io.Writer
	debug       bool
}

type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Service   string    `json:"service"`
	RequestID string    `json:"request_id,omitempty"`
	Message   string    `json:"message"`
	Error     string    `json:"error,omitempty"`
	Fields    Fields    `json:"fields,omitempty"`
}

type Fields map[string]any

// Context key for request ID
type contextKey string

const RequestIDKey contextKey = "request_id"

// Global logger instance
var (
	defaultMu     sync.RWMutex
	defaultLogger *Logger
)

// New creates a logger writing to out
func New(serviceName string, out io.Writer, debug bool) *Logger {
	return &Logger{serviceName: serviceName, out: out, debug: debug}
}

// Init installs the package-level logger
func Init(serviceName string, out io.Writer, debug bool) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = New(serviceName, out, debug)
}

func current() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

func (l *Logger) log(level string, ctx context.Context, message string, err error, fields Fields) {
	if level == "debug" && !l.debug {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Service:   l.serviceName,
		Message:   message,
		Fields:    fields,
	}

	if ctx != nil {
		entry.RequestID = RequestID(ctx)
	}

	if err != nil {
		entry.Error = err.Error()
	}

	jsonData, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		log.Printf("JSON marshal error: %v, original message: %s", marshalErr, message)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Write(append(jsonData, '\n'))
}

func first(fields []Fields) Fields {
	if len(fields) > 0 {
		return fields[0]
	}
	return nil
}

// Package-level convenience functions using the default logger
func Info(ctx context.Context, message string, fields ...Fields) {
	l := current()
	if l == nil {
		log.Printf("Logger not initialized, falling back to standard log: %s", message)
		return
	}
	l.log("info", ctx, message, nil, first(fields))
}

func Error(ctx context.Context, message string, err error, fields ...Fields) {
	l := current()
	if l == nil {
		log.Printf("Logger not initialized, falling back to standard log: %s, error: %v", message, err)
		return
	}
	l.log("error", ctx, message, err, first(fields))
}

func Warn(ctx context.Context, message string, fields ...Fields) {
	l := current()
	if l == nil {
		log.Printf("Logger not initialized, falling back to standard log: %s", message)
		return
	}
	l.log("warn", ctx, message, nil, first(fields))
}

func Debug(ctx context.Context, message string, fields ...Fields) {
	l := current()
	if l == nil {
		return
	}
	l.log("debug", ctx, message, nil, first(fields))
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// RequestID returns the request ID stored in ctx, if any
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
