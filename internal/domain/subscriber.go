package domain

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"
)

// Sentinel errors for subscriber operations.
var (
	ErrDuplicateEmail      = errors.New("email already in use")
	ErrDuplicateAccessCode = errors.New("access code already in use")
	// ErrAccessDenied is the uniform denial for confirmation and chat
	// actions. Callers must not learn which part of the check failed.
	ErrAccessDenied = errors.New("access denied")
	// ErrCodeSpaceExhausted means access code generation kept colliding
	// until the retry budget ran out.
	ErrCodeSpaceExhausted = errors.New("access code space exhausted")
)

// Subscriber represents a person who registered interest in at least one event.
// AccessCode is assigned exactly once, on first subscription, and doubles as
// the credential for the event chat. Confirmed flips true at most once.
// swagger:model Subscriber
type Subscriber struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Confirmed  bool      `json:"confirmed"`
	AccessCode string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewSubscriber returns a new Subscriber with the given fields. ID is typically set by the repository on create.
func NewSubscriber(email, fullName string, createdAt, updatedAt time.Time) *Subscriber {
	return &Subscriber{
		Email:     email,
		FullName:  fullName,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// Initial returns the first rune of the subscriber's full name. Chat messages
// expose only this, never the email.
func (s *Subscriber) Initial() string {
	if s.FullName == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(s.FullName)
	return string(r)
}

// SubscriberRepository defines the interface for subscriber storage
type SubscriberRepository interface {
	Create(ctx context.Context, subscriber *Subscriber) error
	GetByID(ctx context.Context, id string) (*Subscriber, error)
	GetByEmail(ctx context.Context, email string) (*Subscriber, error)
	GetByAccessCode(ctx context.Context, code string) (*Subscriber, error)
	// SetAccessCode assigns the code only when none is set yet. Returns
	// assigned=false when the subscriber already holds a code.
	SetAccessCode(ctx context.Context, subscriberID, code string) (assigned bool, err error)
	// MarkConfirmed flips the confirmed flag to true. Idempotent; the flag
	// never reverts.
	MarkConfirmed(ctx context.Context, subscriberID string) error
}

// AccessCodeIssuer assigns the per-subscriber chat access code.
type AccessCodeIssuer interface {
	Issue(ctx context.Context, subscriber *Subscriber) (string, error)
}

// SessionTokenIssuer issues a client-side session token scoped to an access code.
type SessionTokenIssuer interface {
	Issue(subscriberID, accessCode string, expiry time.Duration) (string, error)
}

// SessionTokenVerifier verifies a session token and returns the access code it carries.
type SessionTokenVerifier interface {
	Verify(token string) (accessCode string, err error)
}

// ConfirmationService is the one-way Unconfirmed -> Confirmed state machine.
// It is the only writer of the confirmed flag.
type ConfirmationService interface {
	Confirm(ctx context.Context, subscriberID, eventID, code string) (sessionToken string, err error)
}

// Authorizer is the three-part chat gate: the presented code identifies a
// subscriber, that subscriber is confirmed, and holds a subscription to the
// event. Every privileged surface (HTTP chat entry and each realtime action)
// must call this same predicate; results are never cached per connection.
type Authorizer interface {
	Authorize(ctx context.Context, eventID, code string) (*Subscriber, error)
}
