package models

import "time"

// User is a registered student account.
type User struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	University   string    `db:"university" json:"university"`
	ProfileImage string    `db:"profile_image" json:"profileImage,omitempty"`
	Bio          string    `db:"bio" json:"bio,omitempty"`
	IsVerified   bool      `db:"is_verified" json:"isVerified"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// UserRef is the minimal profile attached to populated responses.
type UserRef struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Ref projects the populate fields of a user.
func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}
