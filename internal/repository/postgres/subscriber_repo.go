package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventlivechat/internal/domain"
)

const uniqueViolation = "23505"

type subscriberRepository struct {
	DB *sql.DB
}

func NewSubscriberRepository(db *sql.DB) domain.SubscriberRepository {
	return &subscriberRepository{DB: db}
}

func (r *subscriberRepository) Create(ctx context.Context, s *domain.Subscriber) error {
	query := `
		INSERT INTO subscribers (email, full_name, confirmed, access_code, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, s.Email, s.FullName, s.Confirmed, s.AccessCode, s.CreatedAt, s.UpdatedAt).Scan(&s.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			if pqErr.Constraint == "subscribers_access_code_key" {
				return domain.ErrDuplicateAccessCode
			}
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *subscriberRepository) GetByID(ctx context.Context, id string) (*domain.Subscriber, error) {
	query := `
		SELECT id, email, full_name, confirmed, COALESCE(access_code, ''), created_at, updated_at
		FROM subscribers
		WHERE id = $1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *subscriberRepository) GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	query := `
		SELECT id, email, full_name, confirmed, COALESCE(access_code, ''), created_at, updated_at
		FROM subscribers
		WHERE email = $1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

func (r *subscriberRepository) GetByAccessCode(ctx context.Context, code string) (*domain.Subscriber, error) {
	query := `
		SELECT id, email, full_name, confirmed, COALESCE(access_code, ''), created_at, updated_at
		FROM subscribers
		WHERE access_code = $1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, code))
}

func (r *subscriberRepository) SetAccessCode(ctx context.Context, subscriberID, code string) (bool, error) {
	// The access_code IS NULL guard keeps assignment one-shot: a concurrent
	// issuer that lost the race affects zero rows and re-reads instead.
	query := `
		UPDATE subscribers
		SET access_code = $1, updated_at = NOW()
		WHERE id = $2 AND access_code IS NULL
	`
	res, err := r.DB.ExecContext(ctx, query, code, subscriberID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return false, domain.ErrDuplicateAccessCode
		}
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *subscriberRepository) MarkConfirmed(ctx context.Context, subscriberID string) error {
	// Monotonic: only ever sets true, repeat calls are no-ops.
	query := `
		UPDATE subscribers
		SET confirmed = TRUE, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, subscriberID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *subscriberRepository) scanOne(row *sql.Row) (*domain.Subscriber, error) {
	s := &domain.Subscriber{}
	err := row.Scan(&s.ID, &s.Email, &s.FullName, &s.Confirmed, &s.AccessCode, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}
