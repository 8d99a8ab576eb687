// Package logging builds the structured logger shared by the capable commands.
// Narrative progress is written to the command output streams; the logger only
// carries diagnostic tracing and stays quiet unless verbose output is requested.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/samhoang/capable/internal/config"
)

// New creates a logger writing to w. verbose forces debug level; otherwise
// CAPABLE_LOG_LEVEL is consulted and the default is warn.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if lvl, ok := ParseLevel(os.Getenv(config.EnvLogLevel)); ok {
		level = lvl
	}
	if verbose {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}

// Discard returns a logger that drops everything
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ParseLevel maps a level name to a log level
func ParseLevel(s string) (log.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel, true
	case "info":
		return log.InfoLevel, true
	case "warn", "warning":
		return log.WarnLevel, true
	case "error":
		return log.ErrorLevel, true
	default:
		return log.InfoLevel, false
	}
}
