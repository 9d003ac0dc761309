//go:build cgo

package audio

import (
	"context"
	log "log/slog"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// Recorder captures mono 16 kHz audio from the default input device. One
// Listen runs at a time.
type Recorder struct {
	mu sync.Mutex
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Listen calibrates against ambient noise and records one phrase.
func (r *Recorder) Listen(ctx context.Context, opt ListenOptions) ([]float32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	opt = opt.withDefaults()

	buf := make([]float32, frameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	read := func() (float64, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := stream.Read(); err != nil {
			return 0, err
		}
		return frameRMS(buf), nil
	}

	var ambient float64
	calFrames := int(opt.Calibrate / frameDur)
	for i := 0; i < calFrames; i++ {
		rms, err := read()
		if err != nil {
			return nil, err
		}
		ambient += rms
	}
	if calFrames > 0 {
		ambient /= float64(calFrames)
	}

	seg := newSegmenter(opt, Threshold(ambient, opt.MinRMS))
	log.Debug("Listening", "ambient", ambient, "threshold", seg.threshold)

	for {
		rms, err := read()
		if err != nil {
			return nil, err
		}

		switch seg.push(buf, rms) {
		case segTimeout:
			return nil, ErrWaitTimeout
		case segDone:
			return seg.samples(), nil
		}
	}
}
