package transcript

import (
	"errors"
	"fmt"
	"sync"

	"missionchat/internal/logging"
)

var (
	// ErrEmptyID is returned when a message without an ID is appended.
	ErrEmptyID = errors.New("transcript: message id is empty")
	// ErrDuplicateID is returned when a message reuses an ID already in the store.
	ErrDuplicateID = errors.New("transcript: duplicate message id")
)

// DefaultGreeting is the assistant message every session starts with.
const DefaultGreeting = "🚀 Greetings from Mission Control! I'm your space exploration assistant. How can I help you explore the cosmos today?"

// Store is an append-only, insertion-ordered message log.
// Messages are never mutated or removed once appended.
type Store struct {
	mu        sync.RWMutex
	messages  []Message
	ids       map[string]struct{}
	observers []func(Message)
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		ids: make(map[string]struct{}),
	}
}

// NewSession returns a store seeded with a single assistant greeting.
// An empty greeting falls back to DefaultGreeting.
func NewSession(greeting string) *Store {
	if greeting == "" {
		greeting = DefaultGreeting
	}
	s := NewStore()
	// A fresh store cannot collide.
	_ = s.Append(NewAssistantMessage(greeting))
	return s
}

// Append adds msg to the end of the transcript and notifies observers.
func (s *Store) Append(msg Message) error {
	if msg.ID == "" {
		return ErrEmptyID
	}

	s.mu.Lock()
	if _, exists := s.ids[msg.ID]; exists {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateID, msg.ID)
	}
	s.ids[msg.ID] = struct{}{}
	s.messages = append(s.messages, msg)
	observers := make([]func(Message), len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, fn := range observers {
		notify(fn, msg)
	}
	return nil
}

// notify runs one observer. A panicking observer is logged and skipped; the
// message is already in the store.
func notify(fn func(Message), msg Message) {
	defer func() {
		if r := recover(); r != nil {
			logging.Get(logging.CategorySession).Error("observer panicked on %s: %v", msg.ID, r)
		}
	}()
	fn(msg)
}

// Messages returns a copy of the transcript in insertion order.
func (s *Store) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Last returns the most recent message, if any.
func (s *Store) Last() (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// Subscribe registers fn to be called after every successful append.
// Observers run on the appending goroutine, outside the store lock. A panic
// in one observer does not reach the appender or the other observers.
func (s *Store) Subscribe(fn func(Message)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}
