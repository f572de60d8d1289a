package models

import "time"

// Conversation is owned by the user that created it. The configuration
// label describes the participant topology, e.g. "1:1" or "2:1".
// A conversation with IsActive=false is logically deleted and must never
// show up in listings or reads.
type Conversation struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Username      string    `json:"username,omitempty"` // owner's username, joined in
	Configuration string    `json:"configuration"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	IsActive      bool      `json:"is_active"`
	MessageCount  int       `json:"message_count"`

	Messages     []Message     `json:"messages,omitempty"`
	Participants []Participant `json:"participants,omitempty"`
}
