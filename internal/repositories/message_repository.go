package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"exchange-campus/internal/models"
)

const messageColumns = `id, sender_id, receiver_id, content, is_read, created_at`

// MessageRepository is the message store: append-only records whose only
// mutable field is is_read, flipped false to true by MarkRead.
type MessageRepository interface {
	Create(ctx context.Context, senderID, receiverID int, content string) (models.Message, error)
	ListBetween(ctx context.Context, userA, userB, page, limit int) ([]models.Message, error)
	CountBetween(ctx context.Context, userA, userB int) (int, error)
	MarkRead(ctx context.Context, receiverID, senderID int) (int64, error)
	ListInvolving(ctx context.Context, userID int) ([]models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Create stores a new unread message and returns it with its assigned id and timestamp.
func (r *MessageRepo) Create(ctx context.Context, senderID, receiverID int, content string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (sender_id, receiver_id, content) VALUES ($1, $2, $3) RETURNING `+messageColumns, senderID, receiverID, content).
		Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &msg.IsRead, &msg.CreatedAt)
	return msg, err
}

// ListBetween returns one page of the messages exchanged between two users in
// either direction, oldest first. Equal timestamps fall back to insertion order.
func (r *MessageRepo) ListBetween(ctx context.Context, userA, userB, page, limit int) ([]models.Message, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	query := `SELECT ` + messageColumns + ` FROM messages
        WHERE (sender_id=$1 AND receiver_id=$2) OR (sender_id=$2 AND receiver_id=$1)
        ORDER BY created_at ASC, id ASC
        LIMIT $3 OFFSET $4`
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, query, userA, userB, limit, offset)
	return msgs, err
}

// CountBetween returns the total number of messages exchanged between two users.
func (r *MessageRepo) CountBetween(ctx context.Context, userA, userB int) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM messages
        WHERE (sender_id=$1 AND receiver_id=$2) OR (sender_id=$2 AND receiver_id=$1)`, userA, userB)
	return total, err
}

// MarkRead flips every unread message from sender to receiver to read and
// reports how many rows changed. Safe to repeat: a second sweep with no new
// messages touches nothing.
func (r *MessageRepo) MarkRead(ctx context.Context, receiverID, senderID int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET is_read = TRUE
        WHERE receiver_id=$1 AND sender_id=$2 AND is_read = FALSE`, receiverID, senderID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListInvolving returns every message the user sent or received, oldest first.
func (r *MessageRepo) ListInvolving(ctx context.Context, userID int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, `SELECT `+messageColumns+` FROM messages
        WHERE sender_id=$1 OR receiver_id=$1
        ORDER BY created_at ASC, id ASC`, userID)
	return msgs, err
}
