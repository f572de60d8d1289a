// internal/api/stream_handlers.go
package api

import (
	"log"
	"net/http"

	"github.com/meer-matthew/STT-Proto/internal/cache"
	"github.com/meer-matthew/STT-Proto/internal/db"
	"github.com/meer-matthew/STT-Proto/internal/models"
	"github.com/meer-matthew/STT-Proto/internal/stream"
)

// StreamMessageHandler persists a message and then delivers it to the
// caller as an SSE stream: start, one chunk per body fragment, complete,
// [DONE]. Persistence happens before the first frame, so a client that
// disconnects mid-stream only truncates its view — never the write.
func (a *API) StreamMessageHandler(w http.ResponseWriter, r *http.Request) {
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
		// Nothing was streamed yet, so a plain JSON error is still possible.
		writeAppError(w, err)
		return
	}
	cache.InvalidateMessages(r.Context(), conversationID)

	if err := stream.WriteMessage(r.Context(), w, msg, a.cfg.StreamChunkDelay); err != nil {
		log.Printf("StreamMessageHandler: stream aborted for message %d: %v", msg.ID, err)
	}
}
