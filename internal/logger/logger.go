// Package logger builds the application's zerolog logger.
//
// The format and verbosity follow the environment name from config:
//
//	dev (and anything unrecognised)  human-readable console, debug and up
//	staging                          JSON, debug and up
//	prod                             JSON, info and up
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a logger for env writing to stdout.
func New(env string) zerolog.Logger {
	return NewWithWriter(env, os.Stdout)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(env string, w io.Writer) zerolog.Logger {
	switch env {
	case "prod":
		return zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	case "staging":
		return zerolog.New(w).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	default:
		console := zerolog.ConsoleWriter{Out: w}
		return zerolog.New(console).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}
}
