package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Sender types. The set is closed; the only place the tag changes behavior
// is TTS voice selection (speech.VoiceForSender).
const (
	SenderTypeUser      = "user"
	SenderTypeCaregiver = "caregiver"
)

// Message belongs to exactly one conversation and is immutable once
// created. Messages are always retrieved in non-decreasing created_at
// order, ties broken by id.
type Message struct {
	ID             int64          `json:"id"`
	ConversationID int64          `json:"conversation_id"`
	Sender         string         `json:"sender"`
	SenderType     string         `json:"sender_type"`
	SenderGender   sql.NullString `json:"-"` // voice selection hint, not interpreted here
	Body           string         `json:"message"`
	HasAudio       bool           `json:"has_audio"`
	AudioURL       sql.NullString `json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
}

// MarshalJSON flattens the nullable columns so clients see plain values or
// null, matching the wire shape the mobile app expects.
func (m Message) MarshalJSON() ([]byte, error) {
	type alias Message
	out := struct {
		alias
		SenderGender *string `json:"sender_gender"`
		AudioURL     *string `json:"audio_url"`
	}{alias: alias(m)}
	if m.SenderGender.Valid {
		out.SenderGender = &m.SenderGender.String
	}
	if m.AudioURL.Valid {
		out.AudioURL = &m.AudioURL.String
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON so cached messages survive a
// round trip through Redis.
func (m *Message) UnmarshalJSON(data []byte) error {
	type alias Message
	in := struct {
		*alias
		SenderGender *string `json:"sender_gender"`
		AudioURL     *string `json:"audio_url"`
	}{alias: (*alias)(m)}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.SenderGender != nil {
		m.SenderGender = sql.NullString{String: *in.SenderGender, Valid: true}
	}
	if in.AudioURL != nil {
		m.AudioURL = sql.NullString{String: *in.AudioURL, Valid: true}
	}
	return nil
}
