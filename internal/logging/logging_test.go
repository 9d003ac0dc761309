package logging

import (
	"bytes"
	log "log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, log.LevelDebug, Level("DEBUG"))
	assert.Equal(t, log.LevelError, Level(" error "))
	assert.Equal(t, log.LevelInfo, Level("verbose"))
}

func TestSetupWritesConsoleAndFile(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	var console bytes.Buffer
	file := filepath.Join(t.TempDir(), "guardian.log")

	closer := setup(&console, "info", file)
	log.Debug("hidden")
	log.Info("Heard", "text", "guardian hello")
	require.NoError(t, closer.Close())

	assert.Contains(t, console.String(), "guardian hello")
	assert.NotContains(t, console.String(), "hidden")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"Heard"`)
	assert.Contains(t, string(data), `"text":"guardian hello"`)
}
