// Package logging is the structured logger used by the spectro packages and
// commands. Library code only sees the Logger interface; commands install a
// logrus-backed implementation.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Fields represents structured logging fields.
type Fields map[string]any

// Level represents log levels.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel parses "debug", "info", "warn"/"warning" or "error".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	}
	return InfoLevel, fmt.Errorf("unknown log level %q", s)
}

// Logger defines the logging surface the library expects.
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(err error, msg string, fields ...Fields)

	// WithFields returns a logger with preset fields
	WithFields(fields Fields) Logger

	SetLevel(level Level)
}

// Logrus adapts a logrus entry to Logger.
type Logrus struct {
	entry *logrus.Entry
}

// New returns a Logger writing text records to w at the given level.
func New(w io.Writer, level Level) *Logrus {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lg := &Logrus{entry: logrus.NewEntry(l)}
	lg.SetLevel(level)
	return lg
}

// FromLogrus wraps an existing logrus logger.
func FromLogrus(l *logrus.Logger) *Logrus {
	return &Logrus{entry: logrus.NewEntry(l)}
}

func merge(fields []Fields) logrus.Fields {
	out := logrus.Fields{}
	for _, f := range fields {
		for k, v := range f {
			out[k] = v
		}
	}
	return out
}

func (l *Logrus) Debug(msg string, fields ...Fields) {
	l.entry.WithFields(merge(fields)).Debug(msg)
}

func (l *Logrus) Info(msg string, fields ...Fields) {
	l.entry.WithFields(merge(fields)).Info(msg)
}

func (l *Logrus) Warn(msg string, fields ...Fields) {
	l.entry.WithFields(merge(fields)).Warn(msg)
}

func (l *Logrus) Error(err error, msg string, fields ...Fields) {
	l.entry.WithFields(merge(fields)).WithError(err).Error(msg)
}

func (l *Logrus) WithFields(fields Fields) Logger {
	return &Logrus{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *Logrus) SetLevel(level Level) {
	switch level {
	case DebugLevel:
		l.entry.Logger.SetLevel(logrus.DebugLevel)
	case WarnLevel:
		l.entry.Logger.SetLevel(logrus.WarnLevel)
	case ErrorLevel:
		l.entry.Logger.SetLevel(logrus.ErrorLevel)
	default:
		l.entry.Logger.SetLevel(logrus.InfoLevel)
	}
}

// NoOp discards everything.
type NoOp struct{}

// NewNoOp returns a logger that does nothing.
func NewNoOp() NoOp { return NoOp{} }

func (NoOp) Debug(string, ...Fields)        {}
func (NoOp) Info(string, ...Fields)         {}
func (NoOp) Warn(string, ...Fields)         {}
func (NoOp) Error(error, string, ...Fields) {}
func (n NoOp) WithFields(Fields) Logger     { return n }
func (NoOp) SetLevel(Level)                 {}

// OrNoOp returns l, or a NoOp logger when l is nil.
func OrNoOp(l Logger) Logger {
	if l == nil {
		return NoOp{}
	}
	return l
}
