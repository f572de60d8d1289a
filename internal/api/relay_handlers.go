// internal/api/relay_handlers.go
package api

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/meer-matthew/STT-Proto/internal/speech"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Auth happens in the middleware; browsers cannot set custom headers on
	// websocket requests, so origin is left to the CORS layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsSink serializes writes to one websocket connection. gorilla/websocket
// allows only one concurrent writer.
type wsSink struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *wsSink) Emit(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

// relayFrame is the inbound websocket frame. A frame with Type "stop"
// ends the session; anything else is treated as an audio chunk.
type relayFrame struct {
	Type     string `json:"type,omitempty"`
	Audio    string `json:"audio"`
	IsFinal  bool   `json:"is_final"`
	Language string `json:"language,omitempty"`
}

// RelayHandler upgrades the connection and drives a live transcription
// session over it: handshake, then one inbound frame per audio chunk,
// transcript and error events flowing back.
func (a *API) RelayHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS STT] upgrade failed for user %s: %v", user.Username, err)
		return
	}
	defer conn.Close()

	session := speech.NewRelaySession(a.transcriber, &wsSink{conn: conn}, a.cfg.RelayChunkTimeout)
	a.sessions.Register(session)
	defer func() {
		a.sessions.Unregister(session.ID)
		session.Close()
	}()

	log.Printf("[WS STT] session %s opened by user %s", session.ID, user.Username)

	if err := session.Handshake(); err != nil {
		return
	}

	for {
		var frame relayFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[WS STT] session %s: read error: %v", session.ID, err)
			}
			return
		}

		if frame.Type == "stop" {
			return
		}

		err := session.HandleChunk(r.Context(), speech.AudioChunkMessage{
			Audio:    frame.Audio,
			IsFinal:  frame.IsFinal,
			Language: frame.Language,
		})
		if err != nil {
			// Emit failed, meaning the connection itself is gone.
			log.Printf("[WS STT] session %s: emit failed: %v", session.ID, err)
			return
		}
	}
}
