package audioconv

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

func decodeWAV(r io.ReadSeeker) (raw, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return raw{}, errors.New("invalid wav")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return raw{}, err
	}
	if buf == nil || len(buf.Data) == 0 {
		return raw{}, errors.New("empty wav")
	}

	depth := int(dec.BitDepth)
	if depth == 0 {
		depth = 16
	}

	a := raw{Samples: intsToFloat32(buf.Data, depth), Rate: int(dec.SampleRate), Channels: int(dec.NumChans)}
	if buf.Format != nil {
		if buf.Format.SampleRate > 0 {
			a.Rate = buf.Format.SampleRate
		}
		if buf.Format.NumChannels > 0 {
			a.Channels = buf.Format.NumChannels
		}
	}
	if a.Rate <= 0 {
		a.Rate = 44100
	}
	return a, nil
}

// go-mp3 always yields 16-bit stereo.
func decodeMP3(r io.ReadSeeker) (raw, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return raw{}, err
	}

	var pcm bytes.Buffer
	if _, err := io.Copy(&pcm, dec); err != nil {
		return raw{}, err
	}

	ints := make([]int16, pcm.Len()/2)
	if err := binary.Read(&pcm, binary.LittleEndian, ints); err != nil {
		return raw{}, err
	}

	rate := dec.SampleRate()
	if rate <= 0 {
		rate = 44100
	}
	return raw{Samples: int16sToFloat32(ints), Rate: rate, Channels: 2}, nil
}

func decodeVorbis(r io.ReadSeeker) (raw, error) {
	pcm, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return raw{}, err
	}
	if format == nil || format.Channels <= 0 || format.SampleRate <= 0 {
		return raw{}, errors.New("invalid ogg/vorbis stream")
	}
	return raw{Samples: pcm, Rate: format.SampleRate, Channels: format.Channels}, nil
}
