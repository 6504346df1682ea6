package postgres

import (
	"context"
	"database/sql"

	"eventlivechat/internal/domain"
)

type messageRepository struct {
	DB *sql.DB
}

func NewMessageRepository(db *sql.DB) domain.MessageRepository {
	return &messageRepository{
		DB: db,
	}
}

func (r *messageRepository) Create(ctx context.Context, m *domain.Message) error {
	query := `
		INSERT INTO messages (event_id, sender_id, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, m.EventID, m.SenderID, m.Content, m.CreatedAt).Scan(&m.ID)
}

func (r *messageRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.MessageWithSender, error) {
	// LEFT(full_name, 1) keeps the email out of the history payload.
	query := `
		SELECT m.id, m.event_id, m.sender_id, m.content, m.created_at, LEFT(s.full_name, 1)
		FROM messages m
		JOIN subscribers s ON s.id = m.sender_id
		WHERE m.event_id = $1
		ORDER BY m.created_at, m.id
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.MessageWithSender
	for rows.Next() {
		m := &domain.Message{}
		var initial string
		if err := rows.Scan(&m.ID, &m.EventID, &m.SenderID, &m.Content, &m.CreatedAt, &initial); err != nil {
			return nil, err
		}
		messages = append(messages, &domain.MessageWithSender{Message: m, SenderInitial: initial})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*domain.MessageWithSender{}
	}
	return messages, nil
}
