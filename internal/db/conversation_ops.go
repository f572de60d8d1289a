// internal/db/conversation_ops.go
package db

import (
	"log"

	"github.com/meer-matthew/STT-Proto/internal/apperr"
	"github.com/meer-matthew/STT-Proto/internal/models"
)

// CreateConversation inserts a new active conversation owned by ownerID.
func CreateConversation(ownerID int64, configuration string) (*models.Conversation, error) {
	var conv models.Conversation
	err := DB.QueryRow(`
        INSERT INTO conversations (user_id, configuration, created_at, updated_at, is_active)
        VALUES ($1, $2, NOW(), NOW(), TRUE)
        RETURNING id, user_id, configuration, created_at, updated_at, is_active`,
		ownerID, configuration).Scan(
		&conv.ID, &conv.UserID, &conv.Configuration, &conv.CreatedAt, &conv.UpdatedAt, &conv.IsActive)
	if err != nil {
		log.Printf("CreateConversation: insert failed for owner %d: %v", ownerID, err)
		return nil, apperr.Wrap(apperr.KindStorage, "failed to create conversation", err)
	}
	return &conv, nil
}

// ListConversationsForUser returns the active conversations the user owns
// together with the ones they participate in, deduplicated by id and
// sorted by updated_at descending.
func ListConversationsForUser(userID int64) ([]models.Conversation, error) {
	rows, err := DB.Query(`
        SELECT DISTINCT c.id, c.user_id, u.username, c.configuration, c.created_at, c.updated_at, c.is_active,
               (SELECT COUNT(*) FROM messages m WHERE m.conversation_id = c.id) AS message_count
        FROM conversations c
        JOIN users u ON u.id = c.user_id
        LEFT JOIN conversation_participants cp ON cp.conversation_id = c.id
        WHERE c.is_active = TRUE AND (c.user_id = $1 OR cp.user_id = $1)
        ORDER BY c.updated_at DESC`, userID)
	if err != nil {
		log.Printf("ListConversationsForUser: query failed for user %d: %v", userID, err)
		return nil, apperr.Wrap(apperr.KindStorage, "failed to list conversations", err)
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		var conv models.Conversation
		if err := rows.Scan(&conv.ID, &conv.UserID, &conv.Username, &conv.Configuration,
			&conv.CreatedAt, &conv.UpdatedAt, &conv.IsActive, &conv.MessageCount); err != nil {
			log.Printf("ListConversationsForUser: scan failed for user %d: %v", userID, err)
			return nil, apperr.Wrap(apperr.KindStorage, "failed to list conversations", err)
		}
		conversations = append(conversations, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, "failed to list conversations", err)
	}
	return conversations, nil
}

// DeactivateConversation soft-deletes a conversation. Messages and
// participant rows stay in place but every read path filters on is_active.
func DeactivateConversation(conversationID int64) error {
	result, err := DB.Exec(
		`UPDATE conversations SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND is_active = TRUE`,
		conversationID)
	if err != nil {
		log.Printf("DeactivateConversation: update failed for conversation %d: %v", conversationID, err)
		return apperr.Wrap(apperr.KindStorage, "failed to delete conversation", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return apperr.New(apperr.KindNotFound, "Conversation not found")
	}
	return nil
}
