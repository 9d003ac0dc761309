//go:build !cgo

package stt

import "errors"

var errNoCgo = errors.New("speech recognition not compiled in (build with CGO_ENABLED=1)")

func NewWhisper(string, WhisperOptions) (Recognizer, error) { return nil, errNoCgo }

func NewVosk(string) (Recognizer, error) { return nil, errNoCgo }
