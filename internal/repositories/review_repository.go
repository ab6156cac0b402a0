package repositories

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"exchange-campus/internal/models"
)

const reviewColumns = `id, reviewer_id, recipient_id, product_id, rating, comment, created_at`

// ReviewRepository abstracts review persistence.
type ReviewRepository interface {
	Create(ctx context.Context, reviewerID, recipientID int, productID *int, rating int, comment string) (models.Review, error)
	ListForRecipient(ctx context.Context, recipientID, page, limit int) ([]models.Review, error)
	CountForRecipient(ctx context.Context, recipientID int) (int, error)
}

// ReviewRepo is a sqlx implementation of ReviewRepository.
type ReviewRepo struct {
	db *sqlx.DB
}

// NewReviewRepo constructs a ReviewRepo.
func NewReviewRepo(db *sqlx.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

// Create inserts a review, optionally tied to a product.
func (r *ReviewRepo) Create(ctx context.Context, reviewerID, recipientID int, productID *int, rating int, comment string) (models.Review, error) {
	product := sql.NullInt64{}
	if productID != nil {
		product = sql.NullInt64{Int64: int64(*productID), Valid: true}
	}

	var review models.Review
	err := r.db.QueryRowxContext(ctx, `INSERT INTO reviews (reviewer_id, recipient_id, product_id, rating, comment)
        VALUES ($1, $2, $3, $4, $5) RETURNING `+reviewColumns, reviewerID, recipientID, product, rating, comment).
		StructScan(&review)
	return review, err
}

// ListForRecipient returns one page of reviews about a user, newest first.
func (r *ReviewRepo) ListForRecipient(ctx context.Context, recipientID, page, limit int) ([]models.Review, error) {
	if page < 1 {
		page = 1
	}
	var reviews []models.Review
	err := r.db.SelectContext(ctx, &reviews, `SELECT `+reviewColumns+` FROM reviews
        WHERE recipient_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		recipientID, limit, (page-1)*limit)
	return reviews, err
}

// CountForRecipient returns the total number of reviews about a user.
func (r *ReviewRepo) CountForRecipient(ctx context.Context, recipientID int) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM reviews WHERE recipient_id=$1`, recipientID)
	return total, err
}
