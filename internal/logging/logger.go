// Package logging configures the process-wide zerolog logger once at
// startup, shared by cmd/api and cmd/worker.
package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Configure sets the global zerolog logger and returns it. In
// "development" it writes a human-readable console format; any other
// env value writes structured JSON, the form a log aggregator expects
// in production.
func Configure(env string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var writer = os.Stderr
	var logger zerolog.Logger
	if env == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: writer}).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(writer).With().Timestamp().Logger()
	}

	logger = logger.With().Str("env", env).Logger()
	log.Logger = logger
	return logger
}
