// internal/speech/relay.go
package speech

import (
	"context"
	"encoding/base64"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meer-matthew/STT-Proto/internal/apperr"
)

// RelayState is the lifecycle of one live audio connection.
type RelayState int

const (
	StateConnecting RelayState = iota
	StateReady
	StateStreaming
	StateClosed
)

func (s RelayState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateStreaming:
		return "streaming"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// AudioChunkMessage is the client-to-server relay frame.
type AudioChunkMessage struct {
	Audio    string `json:"audio"` // base64 encoded payload
	IsFinal  bool   `json:"is_final"`
	Language string `json:"language,omitempty"`
}

// TranscriptEvent is the server-to-client frame for a recognized fragment.
type TranscriptEvent struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
	IsFinal    bool    `json:"is_final"`
}

// ErrorEvent is the server-to-client frame for a failure. Per-chunk errors
// are non-fatal; the session keeps accepting audio.
type ErrorEvent struct {
	Error string `json:"error"`
}

// ReadyEvent signals a completed handshake.
type ReadyEvent struct {
	Status string `json:"status"`
}

// EventSink delivers server-to-client events for one connection.
type EventSink interface {
	Emit(v interface{}) error
}

// RelaySession forwards live audio chunks to the transcription engine and
// relays transcript events back through the sink. Each session belongs to
// exactly one connection and shares no state with other sessions.
type RelaySession struct {
	ID string

	transcriber  Transcriber
	sink         EventSink
	chunkTimeout time.Duration

	mu    sync.Mutex
	state RelayState
}

func NewRelaySession(transcriber Transcriber, sink EventSink, chunkTimeout time.Duration) *RelaySession {
	if chunkTimeout <= 0 {
		chunkTimeout = 5 * time.Second
	}
	return &RelaySession{
		ID:           uuid.NewString(),
		transcriber:  transcriber,
		sink:         sink,
		chunkTimeout: chunkTimeout,
		state:        StateConnecting,
	}
}

// State returns the current lifecycle state.
func (s *RelaySession) State() RelayState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Handshake moves Connecting to Ready, provided the engine is configured.
// A misconfigured engine is fatal: the client gets one error event and the
// session closes.
func (s *RelaySession) Handshake() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateConnecting {
		return apperr.New(apperr.KindValidation, "handshake already performed")
	}

	type configured interface{ Configured() bool }
	if c, ok := s.transcriber.(configured); ok && !c.Configured() {
		log.Printf("[WS STT] session %s: transcription engine not configured", s.ID)
		_ = s.sink.Emit(ErrorEvent{Error: "Transcription engine not configured"})
		s.state = StateClosed
		return apperr.New(apperr.KindUpstream, "Transcription engine not configured")
	}

	s.state = StateReady
	return s.sink.Emit(ReadyEvent{Status: "ready"})
}

// HandleChunk decodes and forwards one audio chunk. Malformed payloads and
// engine failures are reported as non-fatal error events: the session stays
// in Streaming and keeps accepting subsequent chunks. Silence (an empty
// transcript) emits nothing.
func (s *RelaySession) HandleChunk(ctx context.Context, msg AudioChunkMessage) error {
	s.mu.Lock()
	if s.state == StateClosed || s.state == StateConnecting {
		state := s.state
		s.mu.Unlock()
		return apperr.New(apperr.KindValidation, "session is "+state.String())
	}
	s.state = StateStreaming
	s.mu.Unlock()

	audio, err := base64.StdEncoding.DecodeString(msg.Audio)
	if err != nil || len(audio) == 0 {
		log.Printf("[WS STT] session %s: malformed audio chunk: %v", s.ID, err)
		return s.sink.Emit(ErrorEvent{Error: "Invalid base64 audio"})
	}

	language := msg.Language
	if language == "" {
		language = "en"
	}

	chunkCtx, cancel := context.WithTimeout(ctx, s.chunkTimeout)
	defer cancel()

	result, err := s.transcriber.TranscribeChunk(chunkCtx, audio, language)
	if err != nil {
		log.Printf("[WS STT] session %s: chunk transcription failed: %v", s.ID, err)
		return s.sink.Emit(ErrorEvent{Error: apperr.MessageOf(err)})
	}

	if result.Transcript == "" {
		// No speech detected. Stay quiet instead of flooding the client
		// with empty transcripts.
		return nil
	}

	return s.sink.Emit(TranscriptEvent{
		Transcript: result.Transcript,
		Confidence: result.Confidence,
		IsFinal:    msg.IsFinal,
	})
}

// Close moves the session to Closed. Safe to call more than once. No
// further chunks are accepted afterwards.
func (s *RelaySession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateClosed {
		log.Printf("[WS STT] session %s closed", s.ID)
		s.state = StateClosed
	}
}
