package services

import (
	"context"
	"errors"
	"fmt"

	"eventlivechat/internal/domain"
)

type authorizeService struct {
	subscriberRepo   domain.SubscriberRepository
	subscriptionRepo domain.SubscriptionRepository
}

// NewAuthorizeService creates the single chat authorization predicate. The
// HTTP chat entry and every realtime join/send go through this one code path
// so the two surfaces cannot drift apart.
func NewAuthorizeService(subscriberRepo domain.SubscriberRepository, subscriptionRepo domain.SubscriptionRepository) domain.Authorizer {
	return &authorizeService{
		subscriberRepo:   subscriberRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

// Authorize grants access iff the code identifies a subscriber, that
// subscriber is confirmed, and holds a subscription to the event. All three
// failures collapse into the same ErrAccessDenied.
func (s *authorizeService) Authorize(ctx context.Context, eventID, code string) (*domain.Subscriber, error) {
	if eventID == "" || code == "" {
		return nil, domain.ErrAccessDenied
	}
	subscriber, err := s.subscriberRepo.GetByAccessCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAccessDenied
		}
		return nil, fmt.Errorf("failed to get subscriber by access code: %w", err)
	}
	if !subscriber.Confirmed {
		return nil, domain.ErrAccessDenied
	}
	subscribed, err := s.subscriptionRepo.Exists(ctx, eventID, subscriber.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check subscription: %w", err)
	}
	if !subscribed {
		return nil, domain.ErrAccessDenied
	}
	return subscriber, nil
}
