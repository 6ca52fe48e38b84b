// Package log builds the zerolog loggers of the command line tool.
//
// Library packages never log through a global: they take their logger from the context
// with zerolog.Ctx, and stay silent when none is attached.
package log

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates a logger writing to w in the given format, dropping events below lvl.
func NewLogger(module string, w io.Writer, format Format, lvl Level) (zerolog.Logger, error) {
	switch format {
	case FmtJSON:
	case FmtConsole:
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	default:
		return zerolog.Nop(), fmt.Errorf("log: unsupported log format: %v", uint(format))
	}
	return zerolog.New(w).
		Level(lvl.zerolog()).
		With().
		Timestamp().
		Str("module", module).
		Logger(), nil
}

// FromStrings is NewLogger, parsing the format and level the way they appear in configuration.
func FromStrings(module string, w io.Writer, format, level string) (zerolog.Logger, error) {
	var f Format
	if err := f.Set(format); err != nil {
		return zerolog.Nop(), err
	}
	var l Level
	if err := l.Set(level); err != nil {
		return zerolog.Nop(), err
	}
	return NewLogger(module, w, f, l)
}
