package audio

import "time"

type segState int

const (
	segWaiting segState = iota
	segRecording
	segDone
	segTimeout
)

// preRoll frames are kept while waiting so the first syllable is not cut.
const preRoll = 300 * time.Millisecond

// segmenter decides where a phrase starts and ends from per-frame energy.
type segmenter struct {
	threshold float64

	onsetFrames   int
	limitFrames   int
	silenceFrames int
	preFrames     int

	waited int
	spoken int
	quiet  int
	state  segState

	pre [][]float32
	out []float32
}

func newSegmenter(opt ListenOptions, threshold float64) *segmenter {
	frames := func(d time.Duration) int {
		n := int(d / frameDur)
		if n < 1 {
			n = 1
		}
		return n
	}

	return &segmenter{
		threshold:     threshold,
		onsetFrames:   frames(opt.Timeout),
		limitFrames:   frames(opt.PhraseLimit),
		silenceFrames: frames(opt.Silence),
		preFrames:     frames(preRoll),
		out:           make([]float32, 0, SampleRate*3),
	}
}

// push feeds one frame. The frame is copied.
func (s *segmenter) push(frame []float32, rms float64) segState {
	loud := rms > s.threshold

	switch s.state {
	case segWaiting:
		if !loud {
			s.waited++
			s.pre = append(s.pre, append([]float32(nil), frame...))
			if len(s.pre) > s.preFrames {
				s.pre = s.pre[1:]
			}
			if s.waited >= s.onsetFrames {
				s.state = segTimeout
			}
			return s.state
		}

		for _, p := range s.pre {
			s.out = append(s.out, p...)
		}
		s.pre = nil
		s.state = segRecording
		s.out = append(s.out, frame...)
		s.spoken = 1

	case segRecording:
		s.out = append(s.out, frame...)
		s.spoken++
		if loud {
			s.quiet = 0
		} else {
			s.quiet++
		}
		if s.quiet >= s.silenceFrames || s.spoken >= s.limitFrames {
			s.state = segDone
		}
	}

	return s.state
}

func (s *segmenter) samples() []float32 {
	return s.out
}
