// internal/db/message_ops.go
package db

import (
	"database/sql"
	"log"
	"strings"

	"github.com/meer-matthew/STT-Proto/internal/apperr"
	"github.com/meer-matthew/STT-Proto/internal/models"
)

// AddMessage inserts a message and bumps the conversation's updated_at to
// the insertion time inside one transaction. The conversation row is locked
// FOR UPDATE first, so two concurrent writers to the same conversation are
// serialized and neither the timestamp nor a message can be lost.
func AddMessage(conversationID int64, sender, senderType, senderGender, body string, hasAudio bool, audioURL string) (msg *models.Message, err error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperr.New(apperr.KindValidation, "message is required")
	}
	if sender == "" {
		return nil, apperr.New(apperr.KindValidation, "sender is required")
	}

	tx, err := DB.Begin()
	if err != nil {
		log.Printf("AddMessage: begin failed for conversation %d: %v", conversationID, err)
		return nil, apperr.Wrap(apperr.KindStorage, "failed to store message", err)
	}
	defer tx.Rollback()

	var lockedID int64
	err = tx.QueryRow(`SELECT id FROM conversations WHERE id = $1 AND is_active = TRUE FOR UPDATE`,
		conversationID).Scan(&lockedID)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "Conversation not found")
	}
	if err != nil {
		log.Printf("AddMessage: lock failed for conversation %d: %v", conversationID, err)
		return nil, apperr.Wrap(apperr.KindStorage, "failed to store message", err)
	}

	m := models.Message{
		ConversationID: conversationID,
		Sender:         sender,
		SenderType:     senderType,
		HasAudio:       hasAudio,
	}
	if senderGender != "" {
		m.SenderGender = sql.NullString{String: senderGender, Valid: true}
	}
	if audioURL != "" {
		m.AudioURL = sql.NullString{String: audioURL, Valid: true}
	}

	err = tx.QueryRow(`
        INSERT INTO messages (conversation_id, sender, sender_type, sender_gender, message, has_audio, audio_url, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
        RETURNING id, message, created_at`,
		conversationID, sender, senderType, m.SenderGender, body, hasAudio, m.AudioURL).Scan(
		&m.ID, &m.Body, &m.CreatedAt)
	if err != nil {
		log.Printf("AddMessage: insert failed for conversation %d: %v", conversationID, err)
		return nil, apperr.Wrap(apperr.KindStorage, "failed to store message", err)
	}

	if _, err = tx.Exec(`UPDATE conversations SET updated_at = $1 WHERE id = $2`, m.CreatedAt, conversationID); err != nil {
		log.Printf("AddMessage: updated_at bump failed for conversation %d: %v", conversationID, err)
		return nil, apperr.Wrap(apperr.KindStorage, "failed to store message", err)
	}

	if err = tx.Commit(); err != nil {
		log.Printf("AddMessage: commit failed for conversation %d: %v", conversationID, err)
		return nil, apperr.Wrap(apperr.KindStorage, "failed to store message", err)
	}
	return &m, nil
}

// ListMessages returns the conversation's messages ordered by created_at
// ascending, ties broken by id so insertion order is stable.
func ListMessages(conversationID int64) ([]models.Message, error) {
	rows, err := DB.Query(`
        SELECT id, conversation_id, sender, sender_type, sender_gender, message, has_audio, audio_url, created_at
        FROM messages
        WHERE conversation_id = $1
        ORDER BY created_at ASC, id ASC`, conversationID)
	if err != nil {
		log.Printf("ListMessages: query failed for conversation %d: %v", conversationID, err)
		return nil, apperr.Wrap(apperr.KindStorage, "failed to list messages", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Sender, &m.SenderType, &m.SenderGender,
			&m.Body, &m.HasAudio, &m.AudioURL, &m.CreatedAt); err != nil {
			log.Printf("ListMessages: scan failed for conversation %d: %v", conversationID, err)
			return nil, apperr.Wrap(apperr.KindStorage, "failed to list messages", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, "failed to list messages", err)
	}
	return messages, nil
}
