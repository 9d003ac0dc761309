//go:build !cgo

package tts

import "errors"

var errNoCgo = errors.New("espeak not compiled in (build with CGO_ENABLED=1)")

type Espeak struct{}

func NewEspeak(string, int) (*Espeak, error) { return nil, errNoCgo }

func (e *Espeak) Speak(string) error { return errNoCgo }

func (e *Espeak) Stop() {}

func (e *Espeak) Close() error { return nil }
