package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"eventlivechat/internal/domain"
)

const (
	emailSendAttempts = 3
	emailRetryBackoff = 2 * time.Second
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type subscriptionService struct {
	eventRepo        domain.EventRepository
	subscriberRepo   domain.SubscriberRepository
	subscriptionRepo domain.SubscriptionRepository
	codeIssuer       domain.AccessCodeIssuer
	emailService     domain.EmailService
	baseURL          string
	logger           *slog.Logger
}

// NewSubscriptionService creates a SubscriptionService with the given
// repositories, code issuer, and email collaborator. baseURL is the public
// origin embedded in confirmation links.
func NewSubscriptionService(
	eventRepo domain.EventRepository,
	subscriberRepo domain.SubscriberRepository,
	subscriptionRepo domain.SubscriptionRepository,
	codeIssuer domain.AccessCodeIssuer,
	emailService domain.EmailService,
	baseURL string,
	logger *slog.Logger,
) domain.SubscriptionService {
	return &subscriptionService{
		eventRepo:        eventRepo,
		subscriberRepo:   subscriberRepo,
		subscriptionRepo: subscriptionRepo,
		codeIssuer:       codeIssuer,
		emailService:     emailService,
		baseURL:          strings.TrimSuffix(baseURL, "/"),
		logger:           logger,
	}
}

func (s *subscriptionService) Subscribe(ctx context.Context, email, fullName, eventID string) (*domain.Subscription, error) {
	email = strings.TrimSpace(email)
	fullName = strings.TrimSpace(fullName)
	if !emailRegexp.MatchString(email) {
		return nil, domain.ErrInvalidEmail
	}
	if fullName == "" {
		return nil, fmt.Errorf("%w: full name is required", domain.ErrInvalidInput)
	}
	if eventID == "" {
		return nil, fmt.Errorf("%w: event id is required", domain.ErrInvalidInput)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	subscriber, err := s.getOrCreateSubscriber(ctx, email, fullName)
	if err != nil {
		return nil, err
	}

	code, err := s.codeIssuer.Issue(ctx, subscriber)
	if err != nil {
		return nil, err
	}

	if exists, err := s.subscriptionRepo.Exists(ctx, event.ID, subscriber.ID); err != nil {
		return nil, fmt.Errorf("failed to check subscription: %w", err)
	} else if exists {
		return nil, domain.ErrAlreadySubscribed
	}

	sub := domain.NewSubscription(event.ID, subscriber.ID, time.Now())
	if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
		if errors.Is(err, domain.ErrAlreadySubscribed) {
			return nil, domain.ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	// Email delivery never blocks or fails the subscribe call; it retries in
	// the background and logs the final outcome.
	go s.sendConfirmation(subscriber, event, code)

	return sub, nil
}

func (s *subscriptionService) getOrCreateSubscriber(ctx context.Context, email, fullName string) (*domain.Subscriber, error) {
	subscriber, err := s.subscriberRepo.GetByEmail(ctx, email)
	if err == nil {
		return subscriber, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to get subscriber: %w", err)
	}
	now := time.Now()
	subscriber = domain.NewSubscriber(email, fullName, now, now)
	if err := s.subscriberRepo.Create(ctx, subscriber); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			// Concurrent subscribe created the row first; reuse it.
			existing, gerr := s.subscriberRepo.GetByEmail(ctx, email)
			if gerr != nil {
				return nil, fmt.Errorf("failed to reload subscriber: %w", gerr)
			}
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create subscriber: %w", err)
	}
	return subscriber, nil
}

func (s *subscriptionService) sendConfirmation(subscriber *domain.Subscriber, event *domain.Event, code string) {
	data := &domain.ConfirmationEmailData{
		Email:            subscriber.Email,
		FullName:         subscriber.FullName,
		EventTitle:       event.Title,
		ConfirmationLink: s.confirmationLink(subscriber.ID, event.ID, code),
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var err error
	for attempt := 1; attempt <= emailSendAttempts; attempt++ {
		if err = s.emailService.SendConfirmation(ctx, data); err == nil {
			return
		}
		s.logger.Warn("confirmation email attempt failed",
			"email", subscriber.Email, "attempt", attempt, "err", err)
		if attempt < emailSendAttempts {
			time.Sleep(time.Duration(attempt) * emailRetryBackoff)
		}
	}
	s.logger.Error("confirmation email failed after retries",
		"email", subscriber.Email, "event_id", event.ID, "err", err)
}

func (s *subscriptionService) confirmationLink(subscriberID, eventID, code string) string {
	return fmt.Sprintf("%s/confirm/%s/%s?access_code=%s",
		s.baseURL, subscriberID, eventID, url.QueryEscape(code))
}
