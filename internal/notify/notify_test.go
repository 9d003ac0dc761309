package notify

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	chimes []string
	notes  []string
}

func newTestNotifier(cfg Config) (*Notifier, *recorder) {
	r := &recorder{}
	n := New(cfg)
	n.chime = func(path string) error {
		r.chimes = append(r.chimes, path)
		return errors.New("no audio device")
	}
	n.notify = func(title, message string) error {
		r.notes = append(r.notes, title+": "+message)
		return nil
	}
	return n, r
}

func TestListening(t *testing.T) {
	n, r := newTestNotifier(Config{Chime: "beep.mp3", Desktop: true})
	n.Listening()

	assert.Equal(t, []string{"beep.mp3"}, r.chimes)
	assert.Equal(t, []string{"Guardian: Listening..."}, r.notes)
}

func TestDisabled(t *testing.T) {
	n, r := newTestNotifier(Config{})
	n.Listening()
	n.Reply("hello")

	assert.Empty(t, r.chimes)
	assert.Empty(t, r.notes)
}

func TestReplyTruncates(t *testing.T) {
	n, r := newTestNotifier(Config{Desktop: true, AppName: "G"})
	n.Reply(strings.Repeat("a", 150))

	assert.Equal(t, "G: "+strings.Repeat("a", 100)+"...", r.notes[0])
}

func TestReplyTruncatesOnRunes(t *testing.T) {
	n, r := newTestNotifier(Config{Desktop: true, AppName: "G"})
	n.Reply(strings.Repeat("é", 99) + "ñandú")

	got := strings.TrimPrefix(r.notes[0], "G: ")
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 99)+"ñ...", got)

	n.Reply(strings.Repeat("ж", 100))
	assert.Equal(t, "G: "+strings.Repeat("ж", 100), r.notes[1])
}
