// Package stream turns a freshly persisted message into the ordered SSE
// frame sequence delivered to a subscribing client: one start event, one
// chunk event per body fragment, one complete event, then the [DONE]
// sentinel. Streaming is a presentation layer on top of the store; the
// message is already durable before the first frame goes out.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/meer-matthew/STT-Proto/internal/models"
)

// Event types carried in the SSE JSON payload.
const (
	EventStart    = "start"
	EventChunk    = "chunk"
	EventComplete = "complete"
)

// DoneSentinel terminates every stream.
const DoneSentinel = "[DONE]"

// Event is the JSON payload of one SSE frame.
type Event struct {
	Type       string          `json:"type"`
	MessageID  int64           `json:"message_id,omitempty"`
	Text       string          `json:"text,omitempty"`
	Cumulative string          `json:"cumulative,omitempty"`
	Message    *models.Message `json:"message,omitempty"`
}

// SplitBody splits a message body into whitespace-delimited fragments, each
// carrying its trailing separator, so that concatenating all fragments in
// order reproduces the body byte for byte. Leading whitespace becomes its
// own first fragment. The separators are ASCII, so slicing the string by
// byte offset never cuts a multibyte rune and the round trip holds for any
// byte content.
func SplitBody(body string) []string {
	if body == "" {
		return nil
	}
	var fragments []string
	i := 0
	if isSpace(body[0]) {
		j := 0
		for j < len(body) && isSpace(body[j]) {
			j++
		}
		fragments = append(fragments, body[:j])
		i = j
	}
	for i < len(body) {
		j := i
		for j < len(body) && !isSpace(body[j]) {
			j++
		}
		for j < len(body) && isSpace(body[j]) {
			j++
		}
		fragments = append(fragments, body[i:j])
		i = j
	}
	return fragments
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// WriteMessage emits the full event sequence for msg to w. The pacing
// delay between chunk events makes incremental delivery observable and may
// be zero. When ctx is canceled (client went away) emission stops
// immediately; the message is already persisted, so only the view is
// truncated.
func WriteMessage(ctx context.Context, w http.ResponseWriter, msg *models.Message, delay time.Duration) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("response writer does not support streaming")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	if err := writeEvent(w, flusher, Event{Type: EventStart, MessageID: msg.ID}); err != nil {
		return err
	}

	cumulative := ""
	for _, fragment := range SplitBody(msg.Body) {
		if delay > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
		} else if ctx.Err() != nil {
			return nil
		}

		cumulative += fragment
		err := writeEvent(w, flusher, Event{Type: EventChunk, Text: fragment, Cumulative: cumulative})
		if err != nil {
			return err
		}
	}

	if ctx.Err() != nil {
		return nil
	}
	if err := writeEvent(w, flusher, Event{Type: EventComplete, Message: msg}); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", DoneSentinel); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
