package components

import (
	"sync"
)

// Memory Manages the transcript of a single run.
// threadsafe
type Memory struct {
	//	history is a list of messages representing the chat history.
	history []Message
	//	turnID is the ID of the current turn.
	turnID string
	// maxMessages is the maximum number of messages to keep in history.
	// When exceeded, oldest messages are removed first.
	maxMessages int
	// mtx sync lock
	mtx *sync.RWMutex
}

// NewMemory initializes the Memory with an empty history and optional constraints.
func NewMemory(maxMessages int) *Memory {
	return &Memory{
		maxMessages: maxMessages,
		history:     make([]Message, 0, maxMessages+1),
		mtx:         new(sync.RWMutex),
	}
}

// NewTurn initializes a new turn by generating a random turn ID.
func (m *Memory) NewTurn() string {
	turnID := NewTurnID()
	m.mtx.Lock()
	m.turnID = turnID
	m.mtx.Unlock()
	return turnID
}

// Append adds messages to the history and manages overflow.
// Messages without a turn ID are stamped with the current one.
func (m *Memory) Append(msgs ...Message) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	for _, msg := range msgs {
		if msg.turnID == "" {
			msg.turnID = m.turnID
		}
		m.history = append(m.history, msg)
	}
	if l := len(m.history); m.maxMessages > 0 && l > m.maxMessages {
		m.history = m.history[l-m.maxMessages:]
	}
}

// History returns a copy of the chat history.
func (m *Memory) History() []Message {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	ret := make([]Message, len(m.history))
	copy(ret, m.history)
	return ret
}

// Since returns a copy of the messages appended after the first offset ones.
func (m *Memory) Since(offset int) []Message {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	if offset >= len(m.history) {
		return nil
	}
	ret := make([]Message, len(m.history)-offset)
	copy(ret, m.history[offset:])
	return ret
}

// MessageCount returns the number of messages in the chat history.
func (m *Memory) MessageCount() int {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return len(m.history)
}
