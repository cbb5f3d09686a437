// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global logger from the environment.
// STUDIO_LOG_LEVEL controls the level: debug, info, warn, error (default: info).
// Inside Lambda the output is JSON on stdout for CloudWatch; everywhere else
// it is a console writer on stderr so stdout stays free for command output.
func Init() {
	zerolog.SetGlobalLevel(Level(os.Getenv("STUDIO_LOG_LEVEL")))

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
}

// InitWriter sends console output to w instead of stderr. The MCP server
// uses this because stdout carries the protocol.
func InitWriter(w io.Writer) {
	zerolog.SetGlobalLevel(Level(os.Getenv("STUDIO_LOG_LEVEL")))
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, NoColor: true})
}

// Level maps a level name to a zerolog level, defaulting to info.
func Level(name string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
