// internal/db/access_ops.go
package db

import (
	"database/sql"
	"log"

	"github.com/meer-matthew/STT-Proto/internal/apperr"
	"github.com/meer-matthew/STT-Proto/internal/models"
)

// CheckConversationAccess reports whether userID may read and write the
// conversation. Access is granted to the owner and to every participant.
// It fails closed: a missing or inactive conversation yields (false, nil).
// Every conversation, message and participant operation goes through this
// predicate, so authorization cannot drift between endpoints.
func CheckConversationAccess(userID, conversationID int64) (bool, *models.Conversation, error) {
	conv, err := getActiveConversation(conversationID)
	if err != nil {
		return false, nil, err
	}
	if conv == nil {
		return false, nil, nil
	}
	if conv.UserID == userID {
		return true, conv, nil
	}

	var exists bool
	err = DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM conversation_participants WHERE conversation_id = $1 AND user_id = $2)`,
		conversationID, userID).Scan(&exists)
	if err != nil {
		log.Printf("CheckConversationAccess: participant lookup failed (conv %d, user %d): %v", conversationID, userID, err)
		return false, nil, apperr.Wrap(apperr.KindStorage, "access check failed", err)
	}
	if !exists {
		return false, nil, nil
	}
	return true, conv, nil
}

// CheckConversationOwner reports whether userID owns the active
// conversation. Used for owner-only operations (participant management,
// conversation deletion).
func CheckConversationOwner(userID, conversationID int64) (bool, *models.Conversation, error) {
	conv, err := getActiveConversation(conversationID)
	if err != nil {
		return false, nil, err
	}
	if conv == nil || conv.UserID != userID {
		return false, nil, nil
	}
	return true, conv, nil
}

func getActiveConversation(conversationID int64) (*models.Conversation, error) {
	var conv models.Conversation
	err := DB.QueryRow(`
        SELECT c.id, c.user_id, u.username, c.configuration, c.created_at, c.updated_at, c.is_active,
               (SELECT COUNT(*) FROM messages m WHERE m.conversation_id = c.id)
        FROM conversations c
        JOIN users u ON u.id = c.user_id
        WHERE c.id = $1 AND c.is_active = TRUE`, conversationID).Scan(
		&conv.ID, &conv.UserID, &conv.Username, &conv.Configuration,
		&conv.CreatedAt, &conv.UpdatedAt, &conv.IsActive, &conv.MessageCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		log.Printf("getActiveConversation: lookup failed for conversation %d: %v", conversationID, err)
		return nil, apperr.Wrap(apperr.KindStorage, "conversation lookup failed", err)
	}
	return &conv, nil
}
