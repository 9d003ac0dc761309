// Package notify tells the user Guardian is listening: a chime and a desktop
// notification. Failures are logged and never stop the assistant.
package notify

import (
	log "log/slog"
	"unicode/utf8"

	"github.com/gen2brain/beeep"
)

const replyLimit = 100 // runes

type Config struct {
	AppName string
	Chime   string // mp3 played on wake, "" to disable
	Desktop bool
}

type Notifier struct {
	cfg Config

	// swapped in tests
	chime  func(path string) error
	notify func(title, message string) error
}

func New(cfg Config) *Notifier {
	if cfg.AppName == "" {
		cfg.AppName = "Guardian"
	}
	return &Notifier{
		cfg:   cfg,
		chime: playChime,
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// Listening signals that a command is expected.
func (n *Notifier) Listening() {
	if n.cfg.Chime != "" {
		if err := n.chime(n.cfg.Chime); err != nil {
			log.Warn("Failed to play chime", "path", n.cfg.Chime, "err", err)
		}
	}
	n.desktop("Listening...")
}

// Reply shows the spoken answer as a notification.
func (n *Notifier) Reply(text string) {
	if utf8.RuneCountInString(text) > replyLimit {
		text = string([]rune(text)[:replyLimit]) + "..."
	}
	n.desktop(text)
}

func (n *Notifier) desktop(message string) {
	if !n.cfg.Desktop || message == "" {
		return
	}
	if err := n.notify(n.cfg.AppName, message); err != nil {
		log.Debug("Desktop notification failed", "err", err)
	}
}
