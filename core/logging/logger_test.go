package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchktools/mock-server/config"
)

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(false, &buf)
	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"level":"info"`)
	assert.Contains(t, out, "shown")

	buf.Reset()
	logger = NewLogger(true, &buf)
	logger.Debug().Msg("debug message")
	assert.Contains(t, buf.String(), `"level":"debug"`)
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer

	logger := WithComponent(NewLogger(false, &buf), "listener")
	logger.Info().Int("port", 1234).Msg("listening")

	out := buf.String()
	assert.Contains(t, out, `"component":"listener"`)
	assert.Contains(t, out, `"port":1234`)
}

func TestFromConfig_File(t *testing.T) {
	cfg := config.LoadDefault().Logging
	cfg.LogToFile = true
	cfg.LogFilePath = filepath.Join(t.TempDir(), "mock.log")
	cfg.Compress = false

	logger := FromConfig(cfg)
	logger.Info().Msg("to file")

	data, err := os.ReadFile(cfg.LogFilePath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "to file"))
}
