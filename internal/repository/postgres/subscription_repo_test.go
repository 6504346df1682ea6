package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"eventlivechat/internal/domain"
)

func TestSubscriptionRepository_Create(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO subscriptions`).
		WithArgs("event-1", "sub-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("subsc-uuid-1"))

	repo := NewSubscriptionRepository(db)
	sub := domain.NewSubscription("event-1", "sub-1", time.Now())

	require.NoError(t, repo.Create(ctx, sub))
	require.Equal(t, "subsc-uuid-1", sub.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepository_Create_DuplicatePair(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO subscriptions`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "subscriptions_event_id_subscriber_id_key"})

	repo := NewSubscriptionRepository(db)
	sub := domain.NewSubscription("event-1", "sub-1", time.Now())

	require.ErrorIs(t, repo.Create(ctx, sub), domain.ErrAlreadySubscribed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepository_Exists(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		mock func(mock sqlmock.Sqlmock)
		want bool
	}{
		{
			name: "exists",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id FROM subscriptions`).
					WithArgs("event-1", "sub-1").
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("subsc-uuid-1"))
			},
			want: true,
		},
		{
			name: "missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id FROM subscriptions`).
					WithArgs("event-1", "sub-1").
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)

			repo := NewSubscriptionRepository(db)
			got, err := repo.Exists(ctx, "event-1", "sub-1")

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
