package models

import "time"

// DirectMessage is one entry in the append-only message log between two
// users. Immutable after insert except for Read, which only ever flips
// false -> true.
type DirectMessage struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"senderId"`
	ReceiverID int64     `json:"receiverId"`
	Text       string    `json:"text"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ConversationSummary is the derived per-peer view built on demand from the
// message log; it is never stored.
type ConversationSummary struct {
	UserID      int64     `json:"userId"`
	Username    string    `json:"username"`
	LastMessage string    `json:"lastMessage"`
	LastDate    time.Time `json:"lastDate"`
	UnreadCount int       `json:"unreadCount"`
}
