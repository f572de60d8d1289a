// internal/api/notification_handlers.go
package api

import (
	"net/http"
	"strconv"

	"github.com/meer-matthew/STT-Proto/internal/db"
	"github.com/meer-matthew/STT-Proto/internal/models"
)

// ListNotificationsHandler returns the caller's notifications, newest
// first. ?unread_only=true narrows to unread, ?limit caps the page.
func (a *API) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	unreadOnly := r.URL.Query().Get("unread_only") == "true"
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	notifications, err := db.ListNotifications(user.ID, unreadOnly, limit)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"total":         len(notifications),
	})
}

// UnreadCountHandler returns just the unread badge count.
func (a *API) UnreadCountHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	count, err := db.CountUnreadNotifications(user.ID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread_count": count})
}

// MarkNotificationReadHandler marks one of the caller's notifications as
// read. Marking an already-read notification keeps its original read_at.
func (a *API) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	notificationID, err := idParam(r, "id")
	if err != nil {
		writeAppError(w, err)
		return
	}

	notification, err := db.MarkNotificationRead(user.ID, notificationID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notification)
}

// MarkAllNotificationsReadHandler marks every unread notification read.
func (a *API) MarkAllNotificationsReadHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	updated, err := db.MarkAllNotificationsRead(user.ID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}

// DeleteNotificationHandler removes one of the caller's notifications.
func (a *API) DeleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	notificationID, err := idParam(r, "id")
	if err != nil {
		writeAppError(w, err)
		return
	}

	if err := db.DeleteNotification(user.ID, notificationID); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Notification deleted"})
}
