package output

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger configures the global zerolog logger from a level name.
func InitLogger(level string) {
	zerolog.SetGlobalLevel(ParseLevel(level))
	writer := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.DateTime,
	}
	log.Logger = zerolog.New(writer).With().Timestamp().Logger()
}

// ParseLevel maps a -l flag value to a zerolog level, defaulting to warning.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.WarnLevel
	}
}

// ValidLevel reports whether level is an accepted log level name.
func ValidLevel(level string) bool {
	switch level {
	case "debug", "info", "warning", "error", "fatal":
		return true
	}
	return false
}

func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
