package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Participant links a conversation to a user other than the owner and
// records who added them. The (conversation, user) pair is unique; the
// owner is never stored as a participant row.
type Participant struct {
	ID             int64         `json:"id"`
	ConversationID int64         `json:"conversation_id"`
	UserID         int64         `json:"user_id"`
	Username       string        `json:"username,omitempty"`  // joined in for display
	UserType       string        `json:"user_type,omitempty"` // joined in for display
	AddedAt        time.Time     `json:"added_at"`
	AddedBy        sql.NullInt64 `json:"-"`
}

func (p Participant) MarshalJSON() ([]byte, error) {
	type alias Participant
	out := struct {
		alias
		AddedBy *int64 `json:"added_by"`
	}{alias: alias(p)}
	if p.AddedBy.Valid {
		out.AddedBy = &p.AddedBy.Int64
	}
	return json.Marshal(out)
}
