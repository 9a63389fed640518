package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlags_OverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  host: example.test\n  accept_delay_ms: 10\nscript: from-file.yaml\n"), 0o644))

	f := &flags{}
	cmd := newCommand(f)
	require.NoError(t, cmd.ParseFlags([]string{
		"--config", path,
		"--script", "from-flag.yaml",
		"--poll-timeout", "250ms",
		"--debug",
	}))

	cfg, err := f.config(cmd)
	require.NoError(t, err)
	assert.Equal(t, "example.test", cfg.Server.Host)
	assert.Equal(t, 10, cfg.Server.AcceptDelayMillis)
	assert.Equal(t, 250, cfg.Server.PollTimeoutMillis)
	assert.Equal(t, "from-flag.yaml", cfg.Script)
	assert.True(t, cfg.Logging.Debug)
}

func TestFlags_Defaults(t *testing.T) {
	f := &flags{}
	cmd := newCommand(f)
	require.NoError(t, cmd.ParseFlags(nil))

	cfg, err := f.config(cmd)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "", cfg.Script)
}

func TestRootCommand_RejectsArgs(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"extra"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	assert.Error(t, cmd.Execute())
}
