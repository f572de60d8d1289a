// internal/db/participant_ops.go
package db

import (
	"database/sql"
	"errors"
	"log"

	"github.com/lib/pq"

	"github.com/meer-matthew/STT-Proto/internal/apperr"
	"github.com/meer-matthew/STT-Proto/internal/models"
)

// AddParticipant links an active user to a conversation. The caller must
// already hold the owner check. Fails with NotFound when the subject user
// does not exist or is inactive, with Validation when the subject is the
// conversation owner (the owner is never stored as a participant row), and
// with Conflict when the pair already exists
// (unique_conversation_participant constraint).
func AddParticipant(conversationID, userID, addedBy int64) (*models.Participant, error) {
	var ownerID int64
	err := DB.QueryRow(`SELECT user_id FROM conversations WHERE id = $1 AND is_active = TRUE`,
		conversationID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "Conversation not found")
	}
	if err != nil {
		log.Printf("AddParticipant: conversation lookup failed for conversation %d: %v", conversationID, err)
		return nil, apperr.Wrap(apperr.KindStorage, "failed to add participant", err)
	}
	if ownerID == userID {
		return nil, apperr.New(apperr.KindValidation, "Conversation owner is already a member")
	}

	var username, userType string
	err = DB.QueryRow(`SELECT username, user_type FROM users WHERE id = $1 AND is_active = TRUE`,
		userID).Scan(&username, &userType)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "User not found")
	}
	if err != nil {
		log.Printf("AddParticipant: user lookup failed for user %d: %v", userID, err)
		return nil, apperr.Wrap(apperr.KindStorage, "failed to add participant", err)
	}

	p := models.Participant{
		ConversationID: conversationID,
		UserID:         userID,
		Username:       username,
		UserType:       userType,
		AddedBy:        sql.NullInt64{Int64: addedBy, Valid: true},
	}
	err = DB.QueryRow(`
        INSERT INTO conversation_participants (conversation_id, user_id, added_at, added_by)
        VALUES ($1, $2, NOW(), $3)
        RETURNING id, added_at`,
		conversationID, userID, addedBy).Scan(&p.ID, &p.AddedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, apperr.New(apperr.KindConflict, "User is already a participant")
		}
		log.Printf("AddParticipant: insert failed (conv %d, user %d): %v", conversationID, userID, err)
		return nil, apperr.Wrap(apperr.KindStorage, "failed to add participant", err)
	}
	return &p, nil
}

// RemoveParticipant deletes the participant row. Takes effect immediately:
// the next access check for this pair returns false.
func RemoveParticipant(conversationID, userID int64) error {
	result, err := DB.Exec(
		`DELETE FROM conversation_participants WHERE conversation_id = $1 AND user_id = $2`,
		conversationID, userID)
	if err != nil {
		log.Printf("RemoveParticipant: delete failed (conv %d, user %d): %v", conversationID, userID, err)
		return apperr.Wrap(apperr.KindStorage, "failed to remove participant", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return apperr.New(apperr.KindNotFound, "Participant not found")
	}
	return nil
}

// ListParticipants returns the participants of a conversation with their
// usernames and user types joined in.
func ListParticipants(conversationID int64) ([]models.Participant, error) {
	rows, err := DB.Query(`
        SELECT cp.id, cp.conversation_id, cp.user_id, u.username, u.user_type, cp.added_at, cp.added_by
        FROM conversation_participants cp
        JOIN users u ON u.id = cp.user_id
        WHERE cp.conversation_id = $1
        ORDER BY cp.added_at ASC`, conversationID)
	if err != nil {
		log.Printf("ListParticipants: query failed for conversation %d: %v", conversationID, err)
		return nil, apperr.Wrap(apperr.KindStorage, "failed to list participants", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.ConversationID, &p.UserID, &p.Username, &p.UserType,
			&p.AddedAt, &p.AddedBy); err != nil {
			log.Printf("ListParticipants: scan failed for conversation %d: %v", conversationID, err)
			return nil, apperr.Wrap(apperr.KindStorage, "failed to list participants", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, "failed to list participants", err)
	}
	return participants, nil
}
