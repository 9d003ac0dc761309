//go:build cgo

package stt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	vosk "github.com/alphacep/vosk-api/go"
)

// Vosk is the lighter CPU-only alternative to whisper.
type Vosk struct {
	mu         sync.Mutex
	model      *vosk.VoskModel
	recognizer *vosk.VoskRecognizer
}

type voskResult struct {
	Text string `json:"text"`
}

func NewVosk(modelPath string) (*Vosk, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("vosk model: %w", err)
	}

	model, err := vosk.NewModel(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load vosk model: %w", err)
	}

	rec, err := vosk.NewRecognizer(model, SampleRate)
	if err != nil {
		model.Free()
		return nil, fmt.Errorf("new vosk recognizer: %w", err)
	}

	return &Vosk{model: model, recognizer: rec}, nil
}

func (v *Vosk) Name() string { return string(EngineVosk) }

func (v *Vosk) Transcribe(ctx context.Context, pcm []float32) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.recognizer == nil {
		return "", fmt.Errorf("vosk recognizer closed")
	}

	v.recognizer.AcceptWaveform(PCM16(pcm))
	raw := v.recognizer.FinalResult()
	v.recognizer.Reset()

	var res voskResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return "", fmt.Errorf("decode vosk result: %w", err)
	}
	return CleanTranscript(res.Text), nil
}

func (v *Vosk) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.recognizer != nil {
		v.recognizer.Free()
		v.recognizer = nil
	}
	if v.model != nil {
		v.model.Free()
		v.model = nil
	}
}
