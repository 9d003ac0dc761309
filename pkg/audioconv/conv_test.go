package audioconv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWAV(t *testing.T, path string, rate, channels int, data []int) {
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
}

func TestConvertStereoWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmd.wav")

	// 32 kHz stereo, left loud right silent
	var data []int
	for i := 0; i < 3200; i++ {
		data = append(data, 16384, 0)
	}
	writeWAV(t, path, 32000, 2, data)

	pcm, err := ConvertFileToPCM16k(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Len(t, pcm, 1600)
	assert.InDelta(t, 0.25, pcm[10], 1e-3)

	pcm, err = ConvertFileToPCM16k(context.Background(), path, Options{MaxSamples: 100})
	require.NoError(t, err)
	assert.Len(t, pcm, 100)
}

func TestSniffsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recording.bin")
	writeWAV(t, path, 16000, 1, make([]int, 800))

	pcm, err := ConvertFileToPCM16k(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Len(t, pcm, 800)
}

func TestUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello there"), 0o600))

	_, err := ConvertFileToPCM16k(context.Background(), path, Options{})
	assert.Error(t, err)

	_, err = ConvertFileToPCM16k(context.Background(), filepath.Join(t.TempDir(), "missing.wav"), Options{})
	assert.Error(t, err)
}

func TestBrokenWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFFnope"), 0o600))

	_, err := ConvertFileToPCM16k(context.Background(), path, Options{})
	assert.Error(t, err)
}

func TestDownmix(t *testing.T) {
	assert.Equal(t, []float32{0.5, 0}, downmix([]float32{1, 0, 0.5, -0.5}, 2))
	in := []float32{1, 2}
	assert.Equal(t, in, downmix(in, 1))
}

func TestResampleLinear(t *testing.T) {
	out := resampleLinear([]float32{0, 1, 0, 1}, 8000, 16000)
	assert.Equal(t, []float32{0, 0.5, 1, 0.5, 0, 0.5, 1, 1}, out)

	out = resampleLinear([]float32{0, 1, 2, 3}, 32000, 16000)
	assert.Equal(t, []float32{0, 2}, out)

	same := []float32{1}
	assert.Equal(t, same, resampleLinear(same, 16000, 16000))
}

func TestIntsToFloat32(t *testing.T) {
	assert.Equal(t, []float32{0, 0.5, -1, 1}, intsToFloat32([]int{0, 16384, -32768, 40000}, 16))
}
