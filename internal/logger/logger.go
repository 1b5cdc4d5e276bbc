package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process-wide logger. Console output is human readable in
// development and plain JSON everywhere else.
func New(level, env string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if env == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}

	return logger.Level(lvl).With().Timestamp().Logger()
}
