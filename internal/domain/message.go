package domain

import (
	"context"
	"time"
)

// Message is a chat message in an event room. Immutable once created;
// creation order defines display order.
// swagger:model Message
type Message struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessage returns a new Message with the given fields. ID is typically set by the repository on create.
func NewMessage(eventID, senderID, content string, createdAt time.Time) *Message {
	return &Message{
		EventID:   eventID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: createdAt,
	}
}

// MessageWithSender pairs a message with the display initial of its author.
type MessageWithSender struct {
	Message       *Message `json:"message"`
	SenderInitial string   `json:"sender_initial"`
}

// MessageRepository defines the interface for message storage
type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	// ListByEventID returns the room history in creation order, each entry
	// carrying the sender's display initial.
	ListByEventID(ctx context.Context, eventID string) ([]*MessageWithSender, error)
}
