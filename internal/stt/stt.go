// Package stt turns captured audio into text.
package stt

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"regexp"
	"strings"
)

const SampleRate = 16000

type Engine string

const (
	EngineWhisper Engine = "whisper"
	EngineVosk    Engine = "vosk"
)

// Recognizer transcribes mono 16 kHz float32 samples.
type Recognizer interface {
	Transcribe(ctx context.Context, pcm []float32) (string, error)
	Close()
	Name() string
}

type WhisperOptions struct {
	Language      string // "auto", "en", ...
	Threads       int    // <=0 => NumCPU()
	InitialPrompt string // biases decoding, e.g. towards the wake word
	BeamSize      int    // 0 = greedy
	Temperature   float32
}

type Config struct {
	Engine    Engine
	ModelPath string
	Whisper   WhisperOptions
}

func New(cfg Config) (Recognizer, error) {
	switch cfg.Engine {
	case EngineWhisper, "":
		w, err := NewWhisper(cfg.ModelPath, cfg.Whisper)
		if err != nil {
			return nil, err
		}
		return w, nil
	case EngineVosk:
		v, err := NewVosk(cfg.ModelPath)
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown stt engine %q", cfg.Engine)
	}
}

// Non-speech annotations whisper emits for silence and noise.
var annotationRe = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)|\*[^*]*\*`)

// CleanTranscript drops annotations such as [BLANK_AUDIO] and collapses
// whitespace.
func CleanTranscript(s string) string {
	s = annotationRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// PCM16 converts float32 samples to little-endian signed 16-bit PCM.
func PCM16(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(s*math.MaxInt16)))
	}
	return out
}
