package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventlivechat/internal/domain"
)

// Confirmed subscribers keep chat access for a fixed window per session token.
const sessionValidity = 7 * 24 * time.Hour

type confirmationService struct {
	subscriberRepo domain.SubscriberRepository
	tokenIssuer    domain.SessionTokenIssuer
}

// NewConfirmationService creates the gate that flips subscribers from
// unconfirmed to confirmed. Nothing else may write the confirmed flag.
func NewConfirmationService(subscriberRepo domain.SubscriberRepository, tokenIssuer domain.SessionTokenIssuer) domain.ConfirmationService {
	return &confirmationService{
		subscriberRepo: subscriberRepo,
		tokenIssuer:    tokenIssuer,
	}
}

// Confirm validates the emailed (subscriberID, code) pair, marks the
// subscriber confirmed, and returns a session token scoped to the code.
// Every failure is the same ErrAccessDenied: the caller must not learn
// whether the subscriber is unknown or the code wrong.
func (s *confirmationService) Confirm(ctx context.Context, subscriberID, eventID, code string) (string, error) {
	if subscriberID == "" || code == "" {
		return "", domain.ErrAccessDenied
	}
	subscriber, err := s.subscriberRepo.GetByID(ctx, subscriberID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrAccessDenied
		}
		return "", fmt.Errorf("failed to get subscriber: %w", err)
	}
	if subscriber.AccessCode == "" || subscriber.AccessCode != code {
		return "", domain.ErrAccessDenied
	}
	// Idempotent for already-confirmed subscribers; the flag never reverts.
	if err := s.subscriberRepo.MarkConfirmed(ctx, subscriber.ID); err != nil {
		return "", fmt.Errorf("failed to mark confirmed: %w", err)
	}
	token, err := s.tokenIssuer.Issue(subscriber.ID, subscriber.AccessCode, sessionValidity)
	if err != nil {
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}
	return token, nil
}
