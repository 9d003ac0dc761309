//go:build !cgo

package audio

import (
	"context"
	"errors"
)

var errNoCgo = errors.New("microphone capture not compiled in (build with CGO_ENABLED=1)")

type Recorder struct{}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Init() error { return errNoCgo }

func (r *Recorder) Close() {}

func (r *Recorder) Listen(context.Context, ListenOptions) ([]float32, error) {
	return nil, errNoCgo
}
