// Package logger provides the package-level zerolog logger used by the
// optimization passes. Logging is disabled by default; an embedding program
// opts in with Set or SetLevel.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
	With().Timestamp().Logger().Level(zerolog.Disabled)

// Logger returns the current logger.
func Logger() *zerolog.Logger {
	return &logger
}

// Set replaces the logger.
func Set(l zerolog.Logger) {
	logger = l
}

// SetLevel changes the level of the current logger.
func SetLevel(level zerolog.Level) {
	logger = logger.Level(level)
}

// SetOutput redirects the logger to w with the console writer format.
func SetOutput(w io.Writer) {
	logger = logger.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen})
}

// Disable silences the logger.
func Disable() {
	logger = logger.Level(zerolog.Disabled)
}
