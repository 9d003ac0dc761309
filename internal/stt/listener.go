package stt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"strings"

	"guardian/internal/audio"
)

// Capturer records one phrase. *audio.Recorder satisfies it.
type Capturer interface {
	Listen(ctx context.Context, opt audio.ListenOptions) ([]float32, error)
}

// MicListener records a phrase and transcribes it. Timeouts and empty
// transcripts come back as "".
type MicListener struct {
	Capture    Capturer
	Recognizer Recognizer
	Options    audio.ListenOptions

	// Heard is called with every non-empty transcript.
	Heard func(text string)
}

func (m *MicListener) Listen(ctx context.Context) (string, error) {
	pcm, err := m.Capture.Listen(ctx, m.Options)
	if err != nil {
		if errors.Is(err, audio.ErrWaitTimeout) {
			return "", nil
		}
		return "", fmt.Errorf("record: %w", err)
	}

	log.Debug("Recorded", "samples", len(pcm))

	text, err := m.Recognizer.Transcribe(ctx, pcm)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	text = strings.ToLower(strings.TrimSpace(text))
	if text != "" && m.Heard != nil {
		m.Heard(text)
	}
	return text, nil
}

// ConsoleListener reads typed lines, for machines without a microphone.
// It returns io.EOF once the input is exhausted.
type ConsoleListener struct {
	lines  chan string
	err    error // set before lines is closed
	prompt io.Writer
}

func NewConsoleListener(r io.Reader, prompt io.Writer) *ConsoleListener {
	c := &ConsoleListener{
		lines:  make(chan string),
		prompt: prompt,
	}

	go func() {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			c.lines <- sc.Text()
		}
		err := sc.Err()
		if err == nil {
			err = io.EOF
		}
		c.err = err
		close(c.lines)
	}()

	return c
}

func (c *ConsoleListener) Listen(ctx context.Context) (string, error) {
	if c.prompt != nil {
		fmt.Fprint(c.prompt, "You: ")
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", c.err
		}
		return strings.ToLower(strings.TrimSpace(line)), nil
	}
}
