package models

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMessageJSONShape(t *testing.T) {
	msg := Message{
		ID:             5,
		ConversationID: 2,
		Sender:         "alice",
		SenderType:     SenderTypeCaregiver,
		SenderGender:   sql.NullString{String: "female", Valid: true},
		Body:           "how are you",
		HasAudio:       true,
		AudioURL:       sql.NullString{String: "https://cdn.example.com/a.mp3", Valid: true},
		CreatedAt:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Equal(t, "how are you", raw["message"])
	require.Equal(t, "female", raw["sender_gender"])
	require.Equal(t, "https://cdn.example.com/a.mp3", raw["audio_url"])
}

func TestMessageJSONNullFields(t *testing.T) {
	msg := Message{ID: 1, Sender: "bob", SenderType: SenderTypeUser, Body: "hi"}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Nil(t, raw["sender_gender"])
	require.Nil(t, raw["audio_url"])
}

// Cached messages pass through marshal and unmarshal; nothing may be lost.
func TestMessageJSONRoundTrip(t *testing.T) {
	original := Message{
		ID:             9,
		ConversationID: 4,
		Sender:         "carol",
		SenderType:     SenderTypeUser,
		SenderGender:   sql.NullString{String: "other", Valid: true},
		Body:           "  spaced  body  ",
		HasAudio:       false,
		CreatedAt:      time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC),
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, original, decoded)
}
