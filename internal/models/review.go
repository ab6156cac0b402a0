package models

import (
	"database/sql"
	"time"
)

// Review is feedback left by one user about another, optionally tied to a product.
type Review struct {
	ID          int           `db:"id" json:"id"`
	ReviewerID  int           `db:"reviewer_id" json:"reviewerId"`
	RecipientID int           `db:"recipient_id" json:"recipientId"`
	ProductID   sql.NullInt64 `db:"product_id" json:"-"`
	Rating      int           `db:"rating" json:"rating"`
	Comment     string        `db:"comment" json:"comment"`
	CreatedAt   time.Time     `db:"created_at" json:"createdAt"`
}

// ReviewView is a review with reviewer and product fields attached.
type ReviewView struct {
	Review
	Reviewer UserRef     `json:"reviewer"`
	Product  *ProductRef `json:"product,omitempty"`
}
