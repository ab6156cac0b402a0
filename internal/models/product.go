package models

import (
	"time"

	"github.com/lib/pq"
)

// Product condition values accepted on create and update.
const (
	ConditionNew        = "new"
	ConditionLikeNew    = "like-new"
	ConditionGood       = "good"
	ConditionAcceptable = "acceptable"
)

// ValidCondition reports whether s is one of the accepted condition values.
func ValidCondition(s string) bool {
	switch s {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionAcceptable:
		return true
	}
	return false
}

// Product is a marketplace listing (textbooks, course materials).
type Product struct {
	ID          int            `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	Price       float64        `db:"price" json:"price"`
	Category    string         `db:"category" json:"category"`
	Condition   string         `db:"condition" json:"condition"`
	Images      pq.StringArray `db:"images" json:"images"`
	University  string         `db:"university" json:"university"`
	Course      string         `db:"course" json:"course,omitempty"`
	SellerID    int            `db:"seller_id" json:"sellerId"`
	IsAvailable bool           `db:"is_available" json:"isAvailable"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
}

// ProductRef is the minimal product projection attached to reviews.
type ProductRef struct {
	ID     int            `json:"id"`
	Title  string         `json:"title"`
	Price  float64        `json:"price"`
	Images pq.StringArray `json:"images"`
}

// Ref projects the populate fields of a product.
func (p Product) Ref() ProductRef {
	return ProductRef{ID: p.ID, Title: p.Title, Price: p.Price, Images: p.Images}
}

// ProductView is a product with the seller's profile fields attached.
type ProductView struct {
	Product
	Seller UserRef `json:"seller"`
}
