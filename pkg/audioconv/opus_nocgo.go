//go:build !cgo

package audioconv

import (
	"errors"
	"io"
)

func decodeOpus(io.ReadSeeker) (raw, error) {
	return raw{}, errors.New("opus decoding not compiled in (build with CGO_ENABLED=1)")
}
