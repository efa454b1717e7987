// SPDX-License-Identifier: MPL-2.0

// Package logging installs a charmbracelet/log logger as the process-wide
// slog handler. Library packages log through log/slog only.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
)

// ParseLevel converts a configured level name. An empty name means info.
func ParseLevel(name string) (log.Level, error) {
	if strings.TrimSpace(name) == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// NewLogger creates the terminal logger. Timestamps are only shown at debug level.
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "orchestra",
		ReportTimestamp: level <= log.DebugLevel,
	})
}

// Setup routes slog through a logger writing to w and returns it.
func Setup(w io.Writer, level log.Level) *log.Logger {
	logger := NewLogger(w, level)
	slog.SetDefault(slog.New(logger))
	return logger
}
