package stt

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardian/internal/audio"
)

func TestCleanTranscript(t *testing.T) {
	assert.Equal(t, "", CleanTranscript(" [BLANK_AUDIO] "))
	assert.Equal(t, "Guardian, what time is it?", CleanTranscript("  Guardian, what time is it? (keyboard clicking)"))
	assert.Equal(t, "hello world", CleanTranscript("*music* hello \n world"))
}

func TestPCM16(t *testing.T) {
	out := PCM16([]float32{0, 1, -1, 2})
	require.Len(t, out, 8)
	assert.Equal(t, int16(0), int16(binary.LittleEndian.Uint16(out[0:])))
	assert.Equal(t, int16(32767), int16(binary.LittleEndian.Uint16(out[2:])))
	assert.Equal(t, int16(-32767), int16(binary.LittleEndian.Uint16(out[4:])))
	assert.Equal(t, int16(32767), int16(binary.LittleEndian.Uint16(out[6:])), "clamped")
}

func TestNewUnknownEngine(t *testing.T) {
	_, err := New(Config{Engine: "sphinx"})
	assert.Error(t, err)
}

type fakeCapture struct {
	pcm []float32
	err error
}

func (f fakeCapture) Listen(context.Context, audio.ListenOptions) ([]float32, error) {
	return f.pcm, f.err
}

type fakeRecognizer struct {
	text string
	err  error
}

func (f fakeRecognizer) Transcribe(context.Context, []float32) (string, error) { return f.text, f.err }
func (fakeRecognizer) Close()                                                  {}
func (fakeRecognizer) Name() string                                            { return "fake" }

func TestMicListener(t *testing.T) {
	var heard []string
	m := &MicListener{
		Capture:    fakeCapture{pcm: []float32{0.1}},
		Recognizer: fakeRecognizer{text: " Guardian Hello "},
		Heard:      func(s string) { heard = append(heard, s) },
	}

	text, err := m.Listen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "guardian hello", text)
	assert.Equal(t, []string{"guardian hello"}, heard)

	m.Capture = fakeCapture{err: audio.ErrWaitTimeout}
	text, err = m.Listen(context.Background())
	require.NoError(t, err)
	assert.Empty(t, text)

	m.Capture = fakeCapture{err: errors.New("device gone")}
	_, err = m.Listen(context.Background())
	assert.Error(t, err)

	m.Capture = fakeCapture{pcm: []float32{0.1}}
	m.Recognizer = fakeRecognizer{err: errors.New("bad model")}
	_, err = m.Listen(context.Background())
	assert.Error(t, err)
}

func TestConsoleListener(t *testing.T) {
	var prompt strings.Builder
	c := NewConsoleListener(strings.NewReader("Guardian Hi\n\n"), &prompt)
	ctx := context.Background()

	line, err := c.Listen(ctx)
	require.NoError(t, err)
	assert.Equal(t, "guardian hi", line)

	line, err = c.Listen(ctx)
	require.NoError(t, err)
	assert.Empty(t, line)

	_, err = c.Listen(ctx)
	assert.ErrorIs(t, err, io.EOF)
	_, err = c.Listen(ctx)
	assert.ErrorIs(t, err, io.EOF)

	assert.Equal(t, strings.Repeat("You: ", 4), prompt.String())
}

func TestConsoleListenerCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	c := NewConsoleListener(r, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Listen(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
