package assistant

import (
	"sync"

	"guardian/internal/llm"
)

type entry struct {
	seq uint64
	msg llm.Message
}

// History keeps the most recent conversation turns. Only the last max
// messages are ever sent to a model, so older ones are dropped on insert.
type History struct {
	mu   sync.Mutex
	max  int
	seq  uint64
	msgs []entry
}

func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultMaxHistory
	}
	return &History{max: max}
}

// Add appends a message and returns a handle usable with Remove.
func (h *History) Add(role llm.Role, content string) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	h.msgs = append(h.msgs, entry{seq: h.seq, msg: llm.Message{Role: role, Content: content}})
	if over := len(h.msgs) - h.max; over > 0 {
		h.msgs = append(h.msgs[:0:0], h.msgs[over:]...)
	}
	return h.seq
}

func (h *History) Remove(seq uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, e := range h.msgs {
		if e.seq == seq {
			h.msgs = append(h.msgs[:i:i], h.msgs[i+1:]...)
			return
		}
	}
}

// Window returns a copy of the retained messages, oldest first.
func (h *History) Window() []llm.Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]llm.Message, len(h.msgs))
	for i, e := range h.msgs {
		out[i] = e.msg
	}
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.msgs)
}

func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = nil
}
