package domain

import (
	"context"
	"errors"
	"time"
)

// Shared sentinel errors returned by repositories and services.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Event represents an event with a live chat room
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(title, description string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:       title,
		Description: description,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetByTitle(ctx context.Context, title string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	// UpsertByTitle creates the event or, when an event with the same title
	// already exists, updates its description in place. Events are never
	// duplicated by title and never deleted.
	UpsertByTitle(ctx context.Context, event *Event) error
}
