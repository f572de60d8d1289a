// internal/db/notification_ops.go
package db

import (
	"database/sql"
	"log"

	"github.com/meer-matthew/STT-Proto/internal/apperr"
	"github.com/meer-matthew/STT-Proto/internal/models"
)

// CreateNotification inserts a notification for a user. conversationID may
// be zero for notifications not tied to a conversation.
func CreateNotification(userID int64, ntype, title, message string, conversationID int64) (*models.Notification, error) {
	n := models.Notification{
		UserID:  userID,
		Type:    ntype,
		Title:   title,
		Message: message,
	}
	if conversationID != 0 {
		n.ConversationID = sql.NullInt64{Int64: conversationID, Valid: true}
	}
	err := DB.QueryRow(`
        INSERT INTO notifications (user_id, type, title, message, conversation_id, is_read, created_at)
        VALUES ($1, $2, $3, $4, $5, FALSE, NOW())
        RETURNING id, is_read, created_at`,
		userID, ntype, title, message, n.ConversationID).Scan(&n.ID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		log.Printf("CreateNotification: insert failed for user %d: %v", userID, err)
		return nil, apperr.Wrap(apperr.KindStorage, "failed to create notification", err)
	}
	return &n, nil
}

// ListNotifications returns a user's notifications, newest first.
func ListNotifications(userID int64, unreadOnly bool, limit int) ([]models.Notification, error) {
	query := `
        SELECT id, user_id, type, title, message, conversation_id, is_read, created_at, read_at
        FROM notifications
        WHERE user_id = $1`
	if unreadOnly {
		query += ` AND is_read = FALSE`
	}
	query += ` ORDER BY created_at DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := DB.Query(query, args...)
	if err != nil {
		log.Printf("ListNotifications: query failed for user %d: %v", userID, err)
		return nil, apperr.Wrap(apperr.KindStorage, "failed to list notifications", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
			&n.ConversationID, &n.IsRead, &n.CreatedAt, &n.ReadAt); err != nil {
			log.Printf("ListNotifications: scan failed for user %d: %v", userID, err)
			return nil, apperr.Wrap(apperr.KindStorage, "failed to list notifications", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, "failed to list notifications", err)
	}
	return notifications, nil
}

// CountUnreadNotifications returns the number of unread notifications.
func CountUnreadNotifications(userID int64) (int, error) {
	var count int
	err := DB.QueryRow(`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`,
		userID).Scan(&count)
	if err != nil {
		log.Printf("CountUnreadNotifications: query failed for user %d: %v", userID, err)
		return 0, apperr.Wrap(apperr.KindStorage, "failed to count notifications", err)
	}
	return count, nil
}

// MarkNotificationRead marks one of the user's notifications as read and
// returns it. Marking an already-read notification is a no-op.
func MarkNotificationRead(userID, notificationID int64) (*models.Notification, error) {
	var n models.Notification
	err := DB.QueryRow(`
        UPDATE notifications
        SET is_read = TRUE, read_at = COALESCE(read_at, NOW())
        WHERE id = $1 AND user_id = $2
        RETURNING id, user_id, type, title, message, conversation_id, is_read, created_at, read_at`,
		notificationID, userID).Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
		&n.ConversationID, &n.IsRead, &n.CreatedAt, &n.ReadAt)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "Notification not found")
	}
	if err != nil {
		log.Printf("MarkNotificationRead: update failed (user %d, id %d): %v", userID, notificationID, err)
		return nil, apperr.Wrap(apperr.KindStorage, "failed to mark notification", err)
	}
	return &n, nil
}

// MarkAllNotificationsRead marks every unread notification of the user as
// read and returns how many were affected.
func MarkAllNotificationsRead(userID int64) (int64, error) {
	result, err := DB.Exec(`
        UPDATE notifications SET is_read = TRUE, read_at = NOW()
        WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		log.Printf("MarkAllNotificationsRead: update failed for user %d: %v", userID, err)
		return 0, apperr.Wrap(apperr.KindStorage, "failed to mark notifications", err)
	}
	count, _ := result.RowsAffected()
	return count, nil
}

// DeleteNotification removes one of the user's notifications.
func DeleteNotification(userID, notificationID int64) error {
	result, err := DB.Exec(`DELETE FROM notifications WHERE id = $1 AND user_id = $2`,
		notificationID, userID)
	if err != nil {
		log.Printf("DeleteNotification: delete failed (user %d, id %d): %v", userID, notificationID, err)
		return apperr.Wrap(apperr.KindStorage, "failed to delete notification", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return apperr.New(apperr.KindNotFound, "Notification not found")
	}
	return nil
}
