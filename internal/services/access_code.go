package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"eventlivechat/internal/domain"
)

const (
	accessCodeLength = 6
	// Collisions in the 36^6 code space are rare but real; retry a few
	// times before giving up on the whole subscribe call.
	maxCodeAttempts = 5
)

type accessCodeIssuer struct {
	subscriberRepo domain.SubscriberRepository
}

// NewAccessCodeIssuer creates the issuer that assigns each subscriber their
// one-time chat access code.
func NewAccessCodeIssuer(subscriberRepo domain.SubscriberRepository) domain.AccessCodeIssuer {
	return &accessCodeIssuer{subscriberRepo: subscriberRepo}
}

// Issue returns the subscriber's access code, generating and storing one on
// first subscription. Idempotent: an existing code is returned unchanged and
// no write happens.
func (s *accessCodeIssuer) Issue(ctx context.Context, subscriber *domain.Subscriber) (string, error) {
	if subscriber.AccessCode != "" {
		return subscriber.AccessCode, nil
	}
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := generateAccessCode(accessCodeLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate access code: %w", err)
		}
		assigned, err := s.subscriberRepo.SetAccessCode(ctx, subscriber.ID, code)
		if err != nil {
			if errors.Is(err, domain.ErrDuplicateAccessCode) {
				continue
			}
			return "", fmt.Errorf("failed to store access code: %w", err)
		}
		if !assigned {
			// A concurrent subscribe won the assignment; reuse its code.
			stored, err := s.subscriberRepo.GetByID(ctx, subscriber.ID)
			if err != nil {
				return "", fmt.Errorf("failed to reload subscriber: %w", err)
			}
			subscriber.AccessCode = stored.AccessCode
			return stored.AccessCode, nil
		}
		subscriber.AccessCode = code
		return code, nil
	}
	return "", domain.ErrCodeSpaceExhausted
}

func generateAccessCode(length int) (string, error) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = alphabet[int(b[i])%len(alphabet)]
	}
	return string(b), nil
}
