// Package audio captures speech from the microphone.
package audio

import (
	"errors"
	"math"
	"time"
)

const (
	SampleRate = 16000
	frameSize  = 320 // 20ms
	frameDur   = time.Second * frameSize / SampleRate
)

// ErrWaitTimeout is returned when nobody started speaking in time.
var ErrWaitTimeout = errors.New("listening timed out waiting for phrase to start")

type ListenOptions struct {
	Timeout     time.Duration // wait for speech onset, 10s by default
	PhraseLimit time.Duration // longest phrase, 10s by default
	Silence     time.Duration // trailing silence ending a phrase, 600ms by default
	Calibrate   time.Duration // ambient noise sampling, 500ms by default
	MinRMS      float64       // floor for the speech threshold
}

func (o ListenOptions) withDefaults() ListenOptions {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.PhraseLimit <= 0 {
		o.PhraseLimit = 10 * time.Second
	}
	if o.Silence <= 0 {
		o.Silence = 600 * time.Millisecond
	}
	if o.Calibrate <= 0 {
		o.Calibrate = 500 * time.Millisecond
	}
	if o.MinRMS <= 0 {
		o.MinRMS = 0.015
	}
	return o
}

// Threshold scales ambient energy into a speech threshold.
func Threshold(ambient, floor float64) float64 {
	return math.Max(ambient*1.5, floor)
}

func frameRMS(f []float32) float64 {
	if len(f) == 0 {
		return 0
	}
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
