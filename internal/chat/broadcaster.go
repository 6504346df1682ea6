// Package chat owns the per-event room registry and message fan-out. Room
// membership is transport-session-scoped: it lives only as long as the
// connection and is never persisted.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"eventlivechat/internal/domain"
)

// Connection is one attached chat participant. Deliver must not block the
// caller indefinitely; transports buffer writes.
type Connection interface {
	ID() string
	Deliver(event OutboundEvent)
}

// OutboundEvent is the tagged payload pushed to connections.
type OutboundEvent struct {
	Type          string `json:"type"` // "joined", "message", "denied", "error"
	EventID       string `json:"event_id,omitempty"`
	Content       string `json:"content,omitempty"`
	SenderInitial string `json:"sender_initial,omitempty"`
}

// Broadcaster tracks which connections are in which event room and fans
// messages out to them. One mutex serializes all membership mutations and
// per-room delivery; store I/O happens outside it.
type Broadcaster struct {
	authorizer  domain.Authorizer
	messageRepo domain.MessageRepository
	logger      *slog.Logger

	mu    sync.Mutex
	rooms map[string]map[string]Connection // eventID -> connID -> conn
}

// NewBroadcaster creates a Broadcaster gated by the given authorizer.
func NewBroadcaster(authorizer domain.Authorizer, messageRepo domain.MessageRepository, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		authorizer:  authorizer,
		messageRepo: messageRepo,
		logger:      logger,
		rooms:       make(map[string]map[string]Connection),
	}
}

// Join adds the connection to the event room after re-deriving authorization.
// A denied connection never enters any room set.
func (b *Broadcaster) Join(ctx context.Context, conn Connection, eventID, code string) error {
	if _, err := b.authorizer.Authorize(ctx, eventID, code); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	room, ok := b.rooms[eventID]
	if !ok {
		room = make(map[string]Connection)
		b.rooms[eventID] = room
	}
	room[conn.ID()] = conn
	return nil
}

// Send authorizes again (a successful Join is not a standing grant), persists
// the message, and delivers it to every connection currently in the room,
// including the sender. On denial nothing reaches the store or the room; the
// caller is expected to notify only the requesting connection.
func (b *Broadcaster) Send(ctx context.Context, conn Connection, eventID, code, content string) error {
	subscriber, err := b.authorizer.Authorize(ctx, eventID, code)
	if err != nil {
		return err
	}
	if content == "" {
		return fmt.Errorf("%w: message content is required", domain.ErrInvalidInput)
	}

	message := domain.NewMessage(eventID, subscriber.ID, content, time.Now())
	if err := b.messageRepo.Create(ctx, message); err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}

	out := OutboundEvent{
		Type:          "message",
		EventID:       eventID,
		Content:       content,
		SenderInitial: subscriber.Initial(),
	}
	// Fan-out under the lock: the recipient set is exactly the room at the
	// moment the send is accepted, and per-room delivery order is serialized.
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, member := range b.rooms[eventID] {
		member.Deliver(out)
	}
	return nil
}

// Disconnect removes the connection from every room it joined. Called for
// normal and abnormal disconnects alike.
func (b *Broadcaster) Disconnect(conn Connection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for eventID, room := range b.rooms {
		delete(room, conn.ID())
		if len(room) == 0 {
			delete(b.rooms, eventID)
		}
	}
}

// RoomSize reports the current number of connections in the event room.
func (b *Broadcaster) RoomSize(eventID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.rooms[eventID])
}

// IsDenied reports whether err is the uniform authorization denial.
func IsDenied(err error) bool {
	return errors.Is(err, domain.ErrAccessDenied)
}
