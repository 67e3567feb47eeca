package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arloliu/recomp/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := WithRunID(NewWithWriter(&buf, "json", zerolog.InfoLevel), "run-1")

	logger.Debug().Msg("hidden")
	logger.Info().Int("rules", 3).Msg("compressed")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, `"run_id":"run-1"`)
	require.Contains(t, out, `"rules":3`)
	require.Contains(t, out, `"time":`)
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, "console", zerolog.DebugLevel).Debug().Msg("pass finished")

	require.Contains(t, buf.String(), "pass finished")
	require.NotContains(t, buf.String(), `"message"`)
}

func TestNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recomp.log")
	logger, closer, err := New(config.LoggingConfig{Level: "warn", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Info().Msg("skipped")
	logger.Warn().Msg("kept")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "kept")
	require.NotContains(t, string(data), "skipped")

	_, _, err = New(config.LoggingConfig{Level: "nope"})
	require.Error(t, err)

	_, closer, err = New(config.LoggingConfig{Level: "info", Output: "stderr"})
	require.NoError(t, err)
	require.NoError(t, closer.Close())
}
