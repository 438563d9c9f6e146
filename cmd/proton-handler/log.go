package main

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// newLogger returns a human-readable logger on w. Unknown levels fall back to info.
func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: true}).
		Level(lvl).
		With().
		Timestamp().
		Str("component", "proton-handler").
		Logger()
}
