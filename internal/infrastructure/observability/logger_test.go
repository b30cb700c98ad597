package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}

func TestInitLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger("info", LogFormatJSON, &buf)

	l := WithConnector(logger, "threedsecureio", "authenticate", "att_1")
	l.Info().Msg("dispatch")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "threedsecureio", line["connector"])
	assert.Equal(t, "authenticate", line["flow"])
	assert.Equal(t, "att_1", line["attempt_id"])
	assert.Contains(t, line, "time")
	assert.Contains(t, line, "caller")
}

func TestInitLogger_ConsoleAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger("warn", LogFormatConsole, &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "WRN")
}
