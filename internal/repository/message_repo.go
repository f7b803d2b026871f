package repository

import (
	"context"

	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/models"
)

type MessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(
	ctx context.Context,
	senderID int64,
	receiverID int64,
	text string,
) (*models.DirectMessage, error) {
	query := `
		INSERT INTO messages (sender_id, receiver_id, text, is_read)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, sender_id, receiver_id, text, is_read, created_at
	`

	var message models.DirectMessage
	err := r.db.QueryRow(ctx, query, senderID, receiverID, text).Scan(
		&message.ID,
		&message.SenderID,
		&message.ReceiverID,
		&message.Text,
		&message.Read,
		&message.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &message, nil
}

// ListForUser returns every message the user sent or received, newest first.
// The conversation aggregation is computed from this in the service layer.
func (r *MessageRepository) ListForUser(ctx context.Context, userID int64) ([]models.DirectMessage, error) {
	return r.list(ctx, `
		SELECT id, sender_id, receiver_id, text, is_read, created_at
		FROM messages
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
}

// ListBetween returns the full exchange between two users in chronological
// order.
func (r *MessageRepository) ListBetween(ctx context.Context, userID, otherID int64) ([]models.DirectMessage, error) {
	return r.list(ctx, `
		SELECT id, sender_id, receiver_id, text, is_read, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC, id ASC
	`, userID, otherID)
}

// MarkRead flips every unread message from senderID to readerID to read.
// Re-running it is a no-op.
func (r *MessageRepository) MarkRead(ctx context.Context, senderID, readerID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE messages
		SET is_read = TRUE
		WHERE sender_id = $1
		  AND receiver_id = $2
		  AND is_read = FALSE
	`, senderID, readerID)
	return err
}

func (r *MessageRepository) list(ctx context.Context, query string, args ...any) ([]models.DirectMessage, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.DirectMessage, 0)
	for rows.Next() {
		var message models.DirectMessage
		if err := rows.Scan(
			&message.ID,
			&message.SenderID,
			&message.ReceiverID,
			&message.Text,
			&message.Read,
			&message.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}
