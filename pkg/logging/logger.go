// Package logging provides structured logging for ipsync using zerolog:
// human-readable console output when attached to a terminal, JSON when
// running under the scheduler.
//
//	logging.Info().Str("category", "us").Int("records", 42).Msg("Category written")
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger zerolog.Logger

func init() {
	var writer io.Writer = os.Stderr
	if isatty() && os.Getenv("LOG_FORMAT") != "json" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	level := envLevel()
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	defaultLogger = logger
}

// Default returns the global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the global logger, including zerolog's own.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// Debug starts a debug level event on the global logger.
func Debug() *zerolog.Event {
	return defaultLogger.Debug()
}

// Info starts an info level event on the global logger.
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn starts a warning level event on the global logger.
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

// Error starts an error level event on the global logger.
func Error() *zerolog.Event {
	return defaultLogger.Error()
}

// isatty reports whether stderr is attached to a terminal.
func isatty() bool {
	info, err := os.Stderr.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// envLevel reads the initial level from the environment. Configure can
// override it once the CLI flags are parsed.
func envLevel() zerolog.Level {
	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		if os.Getenv("DEBUG") != "" {
			return zerolog.DebugLevel
		}
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
