// Package logging points the global zerolog logger at a file. The terminal
// belongs to the UI, so nothing is ever written to stdout or stderr.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const timeFormat = "2006-01-02_15:04:05"

// New builds a console-formatted logger with caller info
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: timeFormat, NoColor: true}).
		Level(level).
		With().Timestamp().Caller().Logger()
}

// ParseLevel accepts zerolog level names; empty means info
func ParseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(level))
}

// Setup opens path for appending and installs it as the global logger. An
// empty path disables logging. The returned func closes the file.
func Setup(path, level string) (func() error, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if path == "" {
		log.Logger = zerolog.Nop()
		return func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return nil, err
	}

	log.Logger = New(f, lvl)
	return f.Close, nil
}
