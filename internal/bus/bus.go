// Package bus mirrors what Guardian hears and says to an external websocket hub.
package bus

import (
	"encoding/json"
	"fmt"
	log "log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const From = "guardian"

type Event struct {
	From    string    `json:"from"`
	Kind    string    `json:"kind"`
	ID      string    `json:"id"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

type Bus struct {
	url string

	mu   sync.Mutex
	conn *websocket.Conn
}

func Dial(wsURL string) (*Bus, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, err
	}

	b := &Bus{url: u.String()}
	if err := b.dial(); err != nil {
		return nil, err
	}

	log.Info("Connected to bus", "url", b.url)
	return b, nil
}

func (b *Bus) dial() error {
	conn, _, err := websocket.DefaultDialer.Dial(b.url, nil)
	if err != nil {
		return fmt.Errorf("dial bus: %w", err)
	}
	b.conn = conn
	return nil
}

// Publish sends one event, redialing once if the hub dropped the connection.
func (b *Bus) Publish(kind, id, content string) error {
	data, err := json.Marshal(Event{
		From:    From,
		Kind:    kind,
		ID:      id,
		Content: content,
		At:      time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn != nil {
		if err = b.conn.WriteMessage(websocket.TextMessage, data); err == nil {
			return nil
		}
		log.Warn("Bus write failed, reconnecting", "err", err)
		b.conn.Close()
		b.conn = nil
	}

	if err := b.dial(); err != nil {
		return err
	}
	return b.conn.WriteMessage(websocket.TextMessage, data)
}

func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		return nil
	}
	_ = b.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	err := b.conn.Close()
	b.conn = nil
	return err
}
