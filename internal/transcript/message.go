// Package transcript holds the ordered, append-only message log of a chat session.
package transcript

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// String returns the wire name of the sender.
func (s Sender) String() string { return string(s) }

// Message is a single entry in the transcript.
type Message struct {
	ID        string    // Unique within a session, time-ordered
	Text      string    // Assistant text may contain markdown
	Sender    Sender    // user or assistant
	Timestamp time.Time // Display only, ordering is insertion order
}

// IsUser reports whether the message was typed by the user.
func (m Message) IsUser() bool { return m.Sender == SenderUser }

// NewID returns a fresh message identifier.
// UUIDv7 values sort by creation time and stay monotonic within a process.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// NewUserMessage builds a user message stamped with the current time.
func NewUserMessage(text string) Message {
	return Message{
		ID:        NewID(),
		Text:      text,
		Sender:    SenderUser,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage builds an assistant message stamped with the current time.
func NewAssistantMessage(text string) Message {
	return Message{
		ID:        NewID(),
		Text:      text,
		Sender:    SenderAssistant,
		Timestamp: time.Now(),
	}
}
