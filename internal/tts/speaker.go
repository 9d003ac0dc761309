// Package tts speaks the assistant's replies.
package tts

import (
	"fmt"
	"io"
	log "log/slog"
	"sync"
)

const (
	DefaultRate  = 180 // words per minute
	DefaultVoice = "en"

	queueSize = 32
)

type Engine interface {
	Speak(text string) error
}

// Mute prints but never speaks.
type Mute struct{}

func (Mute) Speak(string) error { return nil }

// Speaker serializes speech through one background worker so callers never
// block on audio output.
type Speaker struct {
	engine Engine
	name   string
	out    io.Writer

	mu     sync.Mutex
	closed bool
	queue  chan string
	done   chan struct{}
}

// NewSpeaker starts the worker. Every line is echoed to out as "<name>: <text>".
func NewSpeaker(engine Engine, name string, out io.Writer) *Speaker {
	s := &Speaker{
		engine: engine,
		name:   name,
		out:    out,
		queue:  make(chan string, queueSize),
		done:   make(chan struct{}),
	}
	go s.work()
	return s
}

func (s *Speaker) work() {
	defer close(s.done)

	for text := range s.queue {
		if err := s.engine.Speak(text); err != nil {
			log.Error("TTS error", "err", err)
		}
	}
}

// Say queues text. Empty text is ignored; when the queue is full the line is
// printed but not spoken.
func (s *Speaker) Say(text string) {
	if text == "" {
		return
	}

	if s.out != nil {
		fmt.Fprintf(s.out, "%s: %s\n", s.name, text)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	select {
	case s.queue <- text:
	default:
		log.Warn("TTS queue full, dropping line", "text", text)
	}
}

// Close speaks whatever is queued and stops the worker.
func (s *Speaker) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	<-s.done
}
