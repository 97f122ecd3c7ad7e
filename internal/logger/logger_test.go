package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json"}, &buf)

	log.Debug().Str("component", "listing").Int("records", 3).Msg("Parsed listing")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "listing", entry["component"])
	assert.Equal(t, "Parsed listing", entry["message"])
	assert.EqualValues(t, 3, entry["records"])
	assert.Contains(t, entry, "time")
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Format: "json"}, &buf)

	log.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_FileOutput(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Path: dir}, &buf)

	log.Info().Msg("to file")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.Contains(t, buf.String(), "to file")
}
