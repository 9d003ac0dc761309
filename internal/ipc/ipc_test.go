package ipc

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func socketPath(t *testing.T) string {
	// unix socket paths are length limited, keep it short
	dir, err := os.MkdirTemp("", "gd")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "s.sock")
}

func TestRoundTrip(t *testing.T) {
	path := socketPath(t)

	var mu sync.Mutex
	var got []ControlMessage

	srv, err := StartServer(path, func(m ControlMessage) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, m)
		if m.Cmd == "bogus" {
			return errors.New("unknown command")
		}
		return nil
	})
	require.NoError(t, err)
	defer srv.Close()

	require.NoError(t, SendCommand(path, ControlMessage{Cmd: CmdAsk, Text: "what time is it"}))
	require.NoError(t, SendCommand(path, ControlMessage{Cmd: CmdTrigger}))

	err = SendCommand(path, ControlMessage{Cmd: "bogus"})
	assert.EqualError(t, err, "unknown command")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []ControlMessage{
		{Cmd: CmdAsk, Text: "what time is it"},
		{Cmd: CmdTrigger},
		{Cmd: "bogus"},
	}, got)
}

func TestSendWithoutServer(t *testing.T) {
	assert.Error(t, SendCommand(socketPath(t), ControlMessage{Cmd: CmdStop}))
}
