package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

func InitLogger(level, format string, output io.Writer) zerolog.Logger {
	if output == nil {
		output = os.Stdout
	}
	if strings.EqualFold(format, LogFormatConsole) {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339, NoColor: true}
	}

	logLevel := parseLogLevel(level)

	return zerolog.New(output).
		Level(logLevel).
		With().
		Timestamp().
		Caller().
		Logger()
}

func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "off", "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// WithConnector scopes a logger to one connector call.
func WithConnector(logger zerolog.Logger, connector, flow, attemptID string) zerolog.Logger {
	return logger.With().
		Str("connector", connector).
		Str("flow", flow).
		Str("attempt_id", attemptID).
		Logger()
}
