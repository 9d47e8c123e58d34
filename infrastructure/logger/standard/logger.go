// ABOUTME: Standard logger implementation backed by logrus
// ABOUTME: Provides structured logging with level and format support

package standard

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// StandardLogger implements the Logger interface using logrus
type StandardLogger struct {
	entry *logrus.Logger
}

// Options configures a StandardLogger
type Options struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string

	// Format is text or json. Defaults to text.
	Format string

	// Output defaults to stderr
	Output io.Writer
}

// NewStandardLogger creates a text logger at info level writing to stderr
func NewStandardLogger() *StandardLogger {
	return New(Options{})
}

// New creates a logger from opts
func New(opts Options) *StandardLogger {
	l := logrus.New()

	if opts.Output != nil {
		l.SetOutput(opts.Output)
	} else {
		l.SetOutput(os.Stderr)
	}

	if strings.EqualFold(opts.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	return &StandardLogger{entry: l}
}

// SetDebug forces debug level on or restores info level
func (l *StandardLogger) SetDebug(on bool) {
	if on {
		l.entry.SetLevel(logrus.DebugLevel)
		return
	}
	if l.entry.GetLevel() == logrus.DebugLevel {
		l.entry.SetLevel(logrus.InfoLevel)
	}
}

// Debug logs a debug message
func (l *StandardLogger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Debug(msg)
}

// Info logs an info message
func (l *StandardLogger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Info(msg)
}

// Warn logs a warning message
func (l *StandardLogger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Warn(msg)
}

// Error logs an error message
func (l *StandardLogger) Error(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Error(msg)
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Debug(string, map[string]interface{}) {}
func (NopLogger) Info(string, map[string]interface{})  {}
func (NopLogger) Warn(string, map[string]interface{})  {}
func (NopLogger) Error(string, map[string]interface{}) {}
