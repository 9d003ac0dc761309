// Package audioconv decodes recorded audio files into the mono 16 kHz float32
// samples speech recognizers expect.
package audioconv

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const TargetRate = 16000

type Options struct {
	MaxSamples int // 0 = no limit
}

// raw is decoded audio before downmixing and resampling. Samples are
// interleaved when Channels > 1.
type raw struct {
	Samples  []float32
	Rate     int
	Channels int
}

type decoder func(r io.ReadSeeker) (raw, error)

var byExt = map[string][]decoder{
	".wav":  {decodeWAV},
	".mp3":  {decodeMP3},
	".ogg":  {decodeVorbis, decodeOpus},
	".oga":  {decodeVorbis, decodeOpus},
	".opus": {decodeOpus},
}

var byMagic = map[string][]decoder{
	"RIFF":    {decodeWAV},
	"OggS":    {decodeVorbis, decodeOpus},
	"ID3\x03": {decodeMP3},
	"ID3\x04": {decodeMP3},
}

func ConvertFileToPCM16k(ctx context.Context, path string, opt Options) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decs, ok := byExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		magic, _ := bufio.NewReader(f).Peek(4)
		if decs, ok = byMagic[string(magic)]; !ok {
			return nil, fmt.Errorf("unsupported format: %s (supported: wav, mp3, ogg vorbis/opus)", path)
		}
	}

	return Convert(ctx, f, decs, opt)
}

// Convert tries each decoder in turn, rewinding between attempts.
func Convert(ctx context.Context, r io.ReadSeeker, decs []decoder, opt Options) ([]float32, error) {
	var errs []error
	for _, dec := range decs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}

		a, err := dec(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return finish(a, opt), nil
	}
	return nil, fmt.Errorf("decode: %w", errors.Join(errs...))
}

func finish(a raw, opt Options) []float32 {
	x := downmix(a.Samples, a.Channels)
	x = resampleLinear(x, a.Rate, TargetRate)
	if opt.MaxSamples > 0 && len(x) > opt.MaxSamples {
		x = x[:opt.MaxSamples]
	}
	return x
}
