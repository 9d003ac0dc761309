//go:build !cgo

package notify

import "errors"

func playChime(string) error {
	return errors.New("audio playback not compiled in (build with CGO_ENABLED=1)")
}
