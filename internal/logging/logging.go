// Package logging wraps charmbracelet/log with the events gridconv reports.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging.
type Logger struct {
	*log.Logger
}

// Options configures New.
type Options struct {
	Level     string
	Format    string
	Timestamp bool
}

var formatters = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"json":   log.JSONFormatter,
	"logfmt": log.LogfmtFormatter,
}

// New creates a logger writing to w.
func New(w io.Writer, opts Options) (*Logger, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		lv, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = lv
	}
	formatter := log.TextFormatter
	if opts.Format != "" {
		f, ok := formatters[strings.ToLower(opts.Format)]
		if !ok {
			return nil, fmt.Errorf("unknown log format %q", opts.Format)
		}
		formatter = f
	}
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: opts.Timestamp,
		TimeFormat:      time.DateTime,
		Level:           level,
		Formatter:       formatter,
	})
	return &Logger{Logger: l}, nil
}

// ValidFormat reports whether name is a known output format.
func ValidFormat(name string) bool {
	_, ok := formatters[strings.ToLower(name)]
	return ok
}

// Discard returns a logger that discards all output.
func Discard() *Logger {
	return &Logger{Logger: log.New(io.Discard)}
}

// Named returns a child logger with a prefix.
func (l *Logger) Named(prefix string) *Logger {
	return &Logger{Logger: l.WithPrefix(prefix)}
}

// Converted logs a finished conversion.
func (l *Logger) Converted(from, to string, rows int, d time.Duration) {
	l.Info("converted",
		"from", from,
		"to", to,
		"rows", rows,
		"duration", d.Round(time.Microsecond))
}

// ParseFailed logs input that did not match its format.
func (l *Logger) ParseFailed(format string, err error) {
	l.Warn("parse failed",
		"format", format,
		"error", err)
}

// EditRejected logs a refused grid edit.
func (l *Logger) EditRejected(op string, index int, err error) {
	l.Warn("edit rejected",
		"op", op,
		"index", index,
		"error", err)
}

// TableSaved logs a stored table.
func (l *Logger) TableSaved(id, name string) {
	l.Info("table saved", "id", id, "name", name)
}

// TableDeleted logs a removed table.
func (l *Logger) TableDeleted(id string) {
	l.Info("table deleted", "id", id)
}

// Request logs a served HTTP request.
func (l *Logger) Request(method, path string, status int, d time.Duration) {
	l.Info("request",
		"method", method,
		"path", path,
		"status", status,
		"duration", d.Round(time.Microsecond))
}

// Watching logs the start of a file watch.
func (l *Logger) Watching(path, from, to string) {
	l.Info("watching", "path", path, "from", from, "to", to)
}
