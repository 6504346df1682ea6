package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for subscription operations.
var (
	ErrAlreadySubscribed = errors.New("already subscribed to this event")
	ErrInvalidEmail      = errors.New("invalid email format")
)

// Subscription links a subscriber to an event. The pair is unique; a second
// subscribe attempt for the same pair is rejected, not merged.
// swagger:model Subscription
type Subscription struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	SubscriberID string    `json:"subscriber_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewSubscription returns a new Subscription with the given fields. ID is typically set by the repository on create.
func NewSubscription(eventID, subscriberID string, createdAt time.Time) *Subscription {
	return &Subscription{
		EventID:      eventID,
		SubscriberID: subscriberID,
		CreatedAt:    createdAt,
	}
}

// SubscriptionRepository defines the interface for subscription storage
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *Subscription) error
	Exists(ctx context.Context, eventID, subscriberID string) (bool, error)
}

// SubscriptionService handles event registration.
type SubscriptionService interface {
	Subscribe(ctx context.Context, email, fullName, eventID string) (*Subscription, error)
}
