package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Notification types.
const (
	NotificationParticipantAdded   = "participant_added"
	NotificationParticipantRemoved = "participant_removed"
	NotificationConversationAdded  = "conversation_added"
)

// Notification is a per-user inbox entry, optionally linked to a
// conversation.
type Notification struct {
	ID             int64         `json:"id"`
	UserID         int64         `json:"user_id"`
	Type           string        `json:"type"`
	Title          string        `json:"title"`
	Message        string        `json:"message"`
	ConversationID sql.NullInt64 `json:"-"`
	IsRead         bool          `json:"is_read"`
	CreatedAt      time.Time     `json:"created_at"`
	ReadAt         sql.NullTime  `json:"-"`
}

func (n Notification) MarshalJSON() ([]byte, error) {
	type alias Notification
	out := struct {
		alias
		ConversationID *int64     `json:"conversation_id"`
		ReadAt         *time.Time `json:"read_at"`
	}{alias: alias(n)}
	if n.ConversationID.Valid {
		out.ConversationID = &n.ConversationID.Int64
	}
	if n.ReadAt.Valid {
		t := n.ReadAt.Time
		out.ReadAt = &t
	}
	return json.Marshal(out)
}
