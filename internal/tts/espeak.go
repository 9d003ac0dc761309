//go:build cgo

package tts

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <espeak-ng/speak_lib.h>

static int
guardian_espeak_init(void)
{
	return espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0);
}

static int
guardian_espeak_say(const char *text, const char *voice, int rate)
{
	if (!text)
	{ return -1; }

	espeak_VOICE specs = { 0 };
	specs.languages = voice;
	if (espeak_SetVoiceByProperties(&specs) != EE_OK)
	{ return -2; }

	espeak_SetParameter(espeakRATE, rate, 0);

	if (espeak_Synth(text, 0, 0, POS_CHARACTER, 0, espeakCHARS_AUTO, NULL, NULL) != EE_OK)
	{ return -3; }

	return espeak_Synchronize() == EE_OK ? 0 : -4;
}

static void
guardian_espeak_cancel(void)
{
	espeak_Cancel();
}

static void
guardian_espeak_terminate(void)
{
	espeak_Terminate();
}
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"
)

// Espeak drives espeak-ng in synchronous playback mode.
type Espeak struct {
	mu    sync.Mutex
	voice string
	rate  int
}

func NewEspeak(voice string, rate int) (*Espeak, error) {
	if voice == "" {
		voice = DefaultVoice
	}
	if rate <= 0 {
		rate = DefaultRate
	}

	if rc := C.guardian_espeak_init(); rc < 0 {
		return nil, fmt.Errorf("espeak_Initialize failed: %d", int(rc))
	}

	return &Espeak{voice: voice, rate: rate}, nil
}

func (e *Espeak) Speak(text string) error {
	if text == "" {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))
	cvoice := C.CString(e.voice)
	defer C.free(unsafe.Pointer(cvoice))

	rc := C.guardian_espeak_say(ctext, cvoice, C.int(e.rate))
	if rc != 0 {
		return fmt.Errorf("espeak say failed: %d", int(rc))
	}

	return nil
}

// Stop cuts off speech in progress.
func (e *Espeak) Stop() {
	C.guardian_espeak_cancel()
}

func (e *Espeak) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	C.guardian_espeak_terminate()
	return nil
}
