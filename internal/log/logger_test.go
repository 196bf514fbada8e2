package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_WritesConsoleAndFile(t *testing.T) {
	var buf bytes.Buffer
	dir := t.TempDir()

	require.NoError(t, Configure(Config{Level: "debug", Output: &buf, Dir: dir}))
	t.Cleanup(func() { _ = Close() })

	logger := WithComponent("test")
	logger.Info().Str("url", "https://youtu.be/x").Msg("download finished")

	assert.Contains(t, buf.String(), "download finished")
	assert.Contains(t, buf.String(), "component=")

	require.NoError(t, Close())
	data, err := os.ReadFile(filepath.Join(dir, DefaultFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "download finished")
	assert.NotContains(t, string(data), "\x1b[", "file output must not carry colour codes")
}

func TestConfigure_InvalidLevel(t *testing.T) {
	err := Configure(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestConfigure_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Configure(Config{Level: "warn", Output: &buf}))
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	logger := Base()
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Configure(Config{Level: "debug", Output: &buf}))
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	p := NewPrinter("telegram")
	p.Println("Failed to get updates,", "retrying")
	p.Printf("endpoint: %s", "getUpdates")

	assert.Contains(t, buf.String(), "Failed to get updates, retrying")
	assert.Contains(t, buf.String(), "endpoint: getUpdates")
}
