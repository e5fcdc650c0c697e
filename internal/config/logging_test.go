package config

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerTagsServiceAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(LoggingConfig{Level: "warn", Format: "json"}, &buf)

	require.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	logger.Info().Msg("filtered")
	logger.Warn().Msg("kept")

	out := buf.String()
	require.NotContains(t, out, "filtered")
	require.Contains(t, out, "kept")
	require.Contains(t, out, `"service":"tirek"`)
}

func TestNewLoggerUnknownLevelFallsBack(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(LoggingConfig{Level: "verbose"}, &buf)

	require.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestNewLoggerConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(LoggingConfig{Level: "info", Format: "console"}, &buf)

	logger.Info().Msg("console line")
	require.Contains(t, buf.String(), "console line")
}
