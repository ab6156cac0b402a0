package models

import "time"

// Message is one point-to-point message between two users. Everything except
// IsRead is immutable once stored; IsRead only ever flips false to true.
type Message struct {
	ID         int       `db:"id" json:"id"`
	SenderID   int       `db:"sender_id" json:"senderId"`
	ReceiverID int       `db:"receiver_id" json:"receiverId"`
	Content    string    `db:"content" json:"content"`
	IsRead     bool      `db:"is_read" json:"isRead"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// MessageView is a message with both parties' profile fields attached.
type MessageView struct {
	Message
	Sender   UserRef `json:"sender"`
	Receiver UserRef `json:"receiver"`
}
