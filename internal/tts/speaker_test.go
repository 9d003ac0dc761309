package tts

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordEngine struct {
	mu     sync.Mutex
	spoken []string
	fail   string
}

func (r *recordEngine) Speak(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if text == r.fail {
		return errors.New("device busy")
	}
	r.spoken = append(r.spoken, text)
	return nil
}

func TestSpeakerSpeaksInOrder(t *testing.T) {
	eng := &recordEngine{fail: "broken"}
	var out strings.Builder

	s := NewSpeaker(eng, "Guardian", &out)
	s.Say("Guardian online.")
	s.Say("")
	s.Say("broken")
	s.Say("Yes?")
	s.Close()

	assert.Equal(t, []string{"Guardian online.", "Yes?"}, eng.spoken)
	assert.Equal(t, "Guardian: Guardian online.\nGuardian: broken\nGuardian: Yes?\n", out.String())
}

func TestSpeakerAfterClose(t *testing.T) {
	eng := &recordEngine{}
	s := NewSpeaker(eng, "Guardian", nil)
	s.Close()
	s.Close()

	s.Say("late")
	assert.Empty(t, eng.spoken)
}

func TestMute(t *testing.T) {
	assert.NoError(t, Mute{}.Speak("anything"))
}
