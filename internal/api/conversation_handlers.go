// internal/api/conversation_handlers.go
package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/meer-matthew/STT-Proto/internal/cache"
	"github.com/meer-matthew/STT-Proto/internal/db"
	"github.com/meer-matthew/STT-Proto/internal/models"
)

type createConversationRequest struct {
	Configuration string `json:"configuration" validate:"required,max=20"`
}

type sendMessageRequest struct {
	Sender       string `json:"sender" validate:"omitempty,max=80"`
	SenderType   string `json:"sender_type" validate:"omitempty,oneof=user caregiver"`
	SenderGender string `json:"sender_gender" validate:"omitempty,oneof=male female other"`
	Message      string `json:"message" validate:"required"`
	HasAudio     bool   `json:"has_audio"`
	AudioURL     string `json:"audio_url" validate:"omitempty,url,max=500"`
}

type addParticipantRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

// requireAccess runs the access predicate and masks missing access as a
// plain not-found, so callers cannot probe for conversations they are not
// part of.
func requireAccess(w http.ResponseWriter, userID, conversationID int64) (*models.Conversation, bool) {
	allowed, conv, err := db.CheckConversationAccess(userID, conversationID)
	if err != nil {
		writeAppError(w, err)
		return nil, false
	}
	if !allowed {
		writeError(w, http.StatusNotFound, "Conversation not found")
		return nil, false
	}
	return conv, true
}

// requireOwner is requireAccess for owner-only operations.
func requireOwner(w http.ResponseWriter, userID, conversationID int64) (*models.Conversation, bool) {
	isOwner, conv, err := db.CheckConversationOwner(userID, conversationID)
	if err != nil {
		writeAppError(w, err)
		return nil, false
	}
	if !isOwner {
		writeError(w, http.StatusNotFound, "Conversation not found")
		return nil, false
	}
	return conv, true
}

// CreateConversationHandler creates a conversation owned by the caller.
func (a *API) CreateConversationHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req createConversationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	conv, err := db.CreateConversation(user.ID, req.Configuration)
	if err != nil {
		writeAppError(w, err)
		return
	}
	conv.Username = user.Username

	writeJSON(w, http.StatusCreated, conv)
}

// ListConversationsHandler returns the caller's conversations: owned ones
// plus the ones they participate in, newest activity first.
func (a *API) ListConversationsHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	conversations, err := db.ListConversationsForUser(user.ID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if conversations == nil {
		conversations = []models.Conversation{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"conversations": conversations,
		"total":         len(conversations),
	})
}

// GetConversationHandler returns one conversation, optionally with its
// ordered messages inlined (?include_messages=true).
func (a *API) GetConversationHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	conversationID, err := idParam(r, "id")
	if err != nil {
		writeAppError(w, err)
		return
	}

	conv, ok := requireAccess(w, user.ID, conversationID)
	if !ok {
		return
	}

	response := map[string]interface{}{"conversation": conv}
	if r.URL.Query().Get("include_messages") == "true" {
		messages, err := a.loadMessages(r, conversationID)
		if err != nil {
			writeAppError(w, err)
			return
		}
		response["messages"] = messages
	}
	writeJSON(w, http.StatusOK, response)
}

// DeleteConversationHandler soft-deletes an owned conversation. Messages
// and participants are excluded from every read path from then on.
func (a *API) DeleteConversationHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	conversationID, err := idParam(r, "id")
	if err != nil {
		writeAppError(w, err)
		return
	}

	if _, ok := requireOwner(w, user.ID, conversationID); !ok {
		return
	}

	if err := db.DeactivateConversation(conversationID); err != nil {
		writeAppError(w, err)
		return
	}
	cache.InvalidateMessages(r.Context(), conversationID)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Conversation deleted"})
}

// SendMessageHandler appends a message to a conversation the caller can
// write to.
func (a *API) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	conversationID, err := idParam(r, "id")
	if err != nil {
		writeAppError(w, err)
		return
	}

	if _, ok := requireAccess(w, user.ID, conversationID); !ok {
		return
	}

	var req sendMessageRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if req.Sender == "" {
		req.Sender = user.Username
	}
	if req.SenderType == "" {
		req.SenderType = models.SenderTypeUser
	}

	msg, err := db.AddMessage(conversationID, req.Sender, req.SenderType, req.SenderGender,
		req.Message, req.HasAudio, req.AudioURL)
	if err != nil {
		writeAppError(w, err)
		return
	}
	cache.InvalidateMessages(r.Context(), conversationID)

	writeJSON(w, http.StatusCreated, msg)
}

// ListMessagesHandler returns the conversation's messages in creation
// order.
func (a *API) ListMessagesHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	conversationID, err := idParam(r, "id")
	if err != nil {
		writeAppError(w, err)
		return
	}

	if _, ok := requireAccess(w, user.ID, conversationID); !ok {
		return
	}

	messages, err := a.loadMessages(r, conversationID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// loadMessages reads the ordered message list through the cache.
func (a *API) loadMessages(r *http.Request, conversationID int64) ([]models.Message, error) {
	if cached, ok := cache.GetMessages(r.Context(), conversationID); ok {
		return cached, nil
	}
	messages, err := db.ListMessages(conversationID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []models.Message{}
	}
	cache.SetMessages(r.Context(), conversationID, messages)
	return messages, nil
}

// AddParticipantHandler links another user to an owned conversation and
// notifies them.
func (a *API) AddParticipantHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	conversationID, err := idParam(r, "id")
	if err != nil {
		writeAppError(w, err)
		return
	}

	if _, ok := requireOwner(w, user.ID, conversationID); !ok {
		return
	}

	var req addParticipantRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	participant, err := db.AddParticipant(conversationID, req.UserID, user.ID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	_, err = db.CreateNotification(req.UserID, models.NotificationParticipantAdded,
		"Added to conversation",
		fmt.Sprintf("%s added you to a conversation", user.Username),
		conversationID)
	if err != nil {
		// The participant row is committed; the missing notification is
		// only logged.
		log.Printf("AddParticipantHandler: notification failed for user %d: %v", req.UserID, err)
	}

	writeJSON(w, http.StatusCreated, participant)
}

// RemoveParticipantHandler unlinks a participant. Their access ends the
// moment the delete commits.
func (a *API) RemoveParticipantHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	conversationID, err := idParam(r, "id")
	if err != nil {
		writeAppError(w, err)
		return
	}
	subjectID, err := idParam(r, "userID")
	if err != nil {
		writeAppError(w, err)
		return
	}

	if _, ok := requireOwner(w, user.ID, conversationID); !ok {
		return
	}

	if err := db.RemoveParticipant(conversationID, subjectID); err != nil {
		writeAppError(w, err)
		return
	}

	_, err = db.CreateNotification(subjectID, models.NotificationParticipantRemoved,
		"Removed from conversation",
		fmt.Sprintf("%s removed you from a conversation", user.Username),
		conversationID)
	if err != nil {
		log.Printf("RemoveParticipantHandler: notification failed for user %d: %v", subjectID, err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Participant removed"})
}

// ListParticipantsHandler returns the participant list. Any member may
// look, not just the owner.
func (a *API) ListParticipantsHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	conversationID, err := idParam(r, "id")
	if err != nil {
		writeAppError(w, err)
		return
	}

	if _, ok := requireAccess(w, user.ID, conversationID); !ok {
		return
	}

	participants, err := db.ListParticipants(conversationID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if participants == nil {
		participants = []models.Participant{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"participants": participants,
		"total":        len(participants),
	})
}
