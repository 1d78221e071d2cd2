package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger is a deliberately small, framework-agnostic logging interface.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a child logger with persistent fields.
	With(fields ...Field) Logger
}

// Field is a simple key/value pair for structured logging fields.
type Field struct {
	Key   string
	Value any
}

// Level orders log severities. Messages below a logger's level are dropped.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel maps a level name to a Level. Unknown names fall back to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// JSONLogger implements Logger and prints one JSON object per line.
type JSONLogger struct {
	mu        *sync.Mutex
	out       io.Writer
	min       Level
	component string
	fields    []Field
}

// NewJSONLogger creates a logger writing to out. component is optional.
func NewJSONLogger(out io.Writer, component string, min Level) *JSONLogger {
	if out == nil {
		out = os.Stdout
	}
	return &JSONLogger{
		mu:        &sync.Mutex{},
		out:       out,
		min:       min,
		component: component,
	}
}

// NewStdoutLogger creates a debug-level JSONLogger on stdout.
func NewStdoutLogger(component string) *JSONLogger {
	return NewJSONLogger(os.Stdout, component, LevelDebug)
}

func (l *JSONLogger) log(level Level, msg string, fields ...Field) {
	if level < l.min {
		return
	}
	type outEntry struct {
		Level     string         `json:"level"`
		Msg       string         `json:"msg"`
		Component string         `json:"component,omitempty"`
		Time      string         `json:"time"`
		Fields    map[string]any `json:"fields,omitempty"`
	}
	m := make(map[string]any, len(l.fields)+len(fields))
	for _, f := range l.fields {
		m[f.Key] = f.Value
	}
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			m[f.Key] = err.Error()
			continue
		}
		m[f.Key] = f.Value
	}
	entry := outEntry{
		Level:     level.String(),
		Msg:       msg,
		Component: l.component,
		Time:      time.Now().UTC().Format(time.RFC3339),
		Fields:    m,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	enc, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(l.out, "%s %s %v\n", level, msg, m)
		return
	}
	fmt.Fprintln(l.out, string(enc))
}

func (l *JSONLogger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields...) }
func (l *JSONLogger) Info(msg string, fields ...Field)  { l.log(LevelInfo, msg, fields...) }
func (l *JSONLogger) Warn(msg string, fields ...Field)  { l.log(LevelWarn, msg, fields...) }
func (l *JSONLogger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields...) }

// With returns a child logger. A "component" field replaces the component
// name; other fields are attached to every entry of the child.
func (l *JSONLogger) With(fields ...Field) Logger {
	child := &JSONLogger{
		mu:        l.mu,
		out:       l.out,
		min:       l.min,
		component: l.component,
		fields:    append([]Field(nil), l.fields...),
	}
	for _, f := range fields {
		if f.Key == "component" {
			if str, ok := f.Value.(string); ok {
				child.component = str
				continue
			}
		}
		child.fields = append(child.fields, f)
	}
	return child
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (n NopLogger) With(...Field) Logger { return n }
