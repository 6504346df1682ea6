package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventlivechat/internal/domain"
)

func TestAccessCodeIssuer_AssignsOnFirstSubscription(t *testing.T) {
	repo := newFakeSubscriberRepo()
	now := time.Now()
	sub := repo.add(domain.NewSubscriber("ann@example.com", "Ann", now, now))

	issuer := NewAccessCodeIssuer(repo)
	code, err := issuer.Issue(context.Background(), sub)

	require.NoError(t, err)
	require.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'), "unexpected character %q", c)
	}
	assert.Equal(t, code, sub.AccessCode)
}

func TestAccessCodeIssuer_IdempotentForExistingCode(t *testing.T) {
	repo := newFakeSubscriberRepo()
	now := time.Now()
	sub := domain.NewSubscriber("ann@example.com", "Ann", now, now)
	sub.AccessCode = "XYZ789"
	repo.add(sub)

	issuer := NewAccessCodeIssuer(repo)
	code, err := issuer.Issue(context.Background(), sub)

	require.NoError(t, err)
	assert.Equal(t, "XYZ789", code)
	assert.Zero(t, repo.setCodeCalls, "existing code must not trigger a write")
}

func TestAccessCodeIssuer_RetriesOnCollision(t *testing.T) {
	repo := newFakeSubscriberRepo()
	now := time.Now()
	sub := repo.add(domain.NewSubscriber("ann@example.com", "Ann", now, now))
	repo.setCodeErrs = []error{domain.ErrDuplicateAccessCode, domain.ErrDuplicateAccessCode, nil}

	issuer := NewAccessCodeIssuer(repo)
	code, err := issuer.Issue(context.Background(), sub)

	require.NoError(t, err)
	require.Len(t, code, 6)
	assert.Equal(t, 3, repo.setCodeCalls)
}

func TestAccessCodeIssuer_ExhaustedAfterBoundedRetries(t *testing.T) {
	repo := newFakeSubscriberRepo()
	now := time.Now()
	sub := repo.add(domain.NewSubscriber("ann@example.com", "Ann", now, now))
	for i := 0; i < maxCodeAttempts; i++ {
		repo.setCodeErrs = append(repo.setCodeErrs, domain.ErrDuplicateAccessCode)
	}

	issuer := NewAccessCodeIssuer(repo)
	_, err := issuer.Issue(context.Background(), sub)

	require.ErrorIs(t, err, domain.ErrCodeSpaceExhausted)
	assert.Equal(t, maxCodeAttempts, repo.setCodeCalls)
}

func TestAccessCodeIssuer_ReusesCodeFromLostRace(t *testing.T) {
	repo := newFakeSubscriberRepo()
	now := time.Now()
	sub := repo.add(domain.NewSubscriber("ann@example.com", "Ann", now, now))

	// Another issuer assigned a code between our read and our write.
	repo.byID[sub.ID].AccessCode = "RACE01"
	staleView := *sub
	staleView.AccessCode = ""

	issuer := NewAccessCodeIssuer(repo)
	code, err := issuer.Issue(context.Background(), &staleView)

	require.NoError(t, err)
	assert.Equal(t, "RACE01", code)
}
