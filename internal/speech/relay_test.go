package speech

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meer-matthew/STT-Proto/internal/apperr"
)

// fakeTranscriber maps audio payloads to canned results.
type fakeTranscriber struct {
	configured bool
	results    map[string]TranscriptResult
	errs       map[string]error
	block      map[string]bool // payloads that hang until the context expires
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte, language string) (TranscriptResult, error) {
	return f.TranscribeChunk(ctx, audio, language)
}

func (f *fakeTranscriber) TranscribeChunk(ctx context.Context, audio []byte, language string) (TranscriptResult, error) {
	key := string(audio)
	if f.block[key] {
		<-ctx.Done()
		return TranscriptResult{}, apperr.Wrap(apperr.KindUpstream, "Transcription timed out", ctx.Err())
	}
	if err, ok := f.errs[key]; ok {
		return TranscriptResult{}, err
	}
	return f.results[key], nil
}

func (f *fakeTranscriber) Configured() bool { return f.configured }

// sliceSink records every emitted event in order.
type sliceSink struct {
	events []interface{}
}

func (s *sliceSink) Emit(v interface{}) error {
	s.events = append(s.events, v)
	return nil
}

func chunk(payload string) AudioChunkMessage {
	return AudioChunkMessage{Audio: base64.StdEncoding.EncodeToString([]byte(payload))}
}

func TestHandshakeReady(t *testing.T) {
	sink := &sliceSink{}
	s := NewRelaySession(&fakeTranscriber{configured: true}, sink, time.Second)

	require.Equal(t, StateConnecting, s.State())
	require.NoError(t, s.Handshake())
	require.Equal(t, StateReady, s.State())

	require.Len(t, sink.events, 1)
	require.Equal(t, ReadyEvent{Status: "ready"}, sink.events[0])
}

func TestHandshakeUnconfiguredEngine(t *testing.T) {
	sink := &sliceSink{}
	s := NewRelaySession(&fakeTranscriber{configured: false}, sink, time.Second)

	err := s.Handshake()
	require.Error(t, err)
	require.True(t, apperr.Is(err, apperr.KindUpstream))
	require.Equal(t, StateClosed, s.State())

	require.Len(t, sink.events, 1)
	_, isErrorEvent := sink.events[0].(ErrorEvent)
	require.True(t, isErrorEvent)
}

func TestHandleChunkBeforeHandshake(t *testing.T) {
	s := NewRelaySession(&fakeTranscriber{configured: true}, &sliceSink{}, time.Second)

	err := s.HandleChunk(context.Background(), chunk("audio"))
	require.Error(t, err)
}

func TestChunkErrorsAreNonFatal(t *testing.T) {
	engine := &fakeTranscriber{
		configured: true,
		results: map[string]TranscriptResult{
			"first": {Transcript: "hello", Confidence: 0.9},
			"third": {Transcript: "world", Confidence: 0.8},
		},
		block: map[string]bool{"second": true},
	}
	sink := &sliceSink{}
	s := NewRelaySession(engine, sink, 20*time.Millisecond)
	require.NoError(t, s.Handshake())

	require.NoError(t, s.HandleChunk(context.Background(), chunk("first")))
	require.NoError(t, s.HandleChunk(context.Background(), chunk("second")))
	require.NoError(t, s.HandleChunk(context.Background(), chunk("third")))

	require.Equal(t, StateStreaming, s.State(), "a chunk failure must not close the session")

	require.Len(t, sink.events, 4) // ready + transcript + error + transcript
	require.Equal(t, TranscriptEvent{Transcript: "hello", Confidence: 0.9}, sink.events[1])
	_, isErrorEvent := sink.events[2].(ErrorEvent)
	require.True(t, isErrorEvent)
	require.Equal(t, TranscriptEvent{Transcript: "world", Confidence: 0.8}, sink.events[3])
}

func TestMalformedAudioIsNonFatal(t *testing.T) {
	sink := &sliceSink{}
	s := NewRelaySession(&fakeTranscriber{configured: true}, sink, time.Second)
	require.NoError(t, s.Handshake())

	require.NoError(t, s.HandleChunk(context.Background(), AudioChunkMessage{Audio: "not base64!!!"}))
	require.Equal(t, StateStreaming, s.State())

	require.Len(t, sink.events, 2)
	_, isErrorEvent := sink.events[1].(ErrorEvent)
	require.True(t, isErrorEvent)
}

func TestSilenceEmitsNothing(t *testing.T) {
	engine := &fakeTranscriber{configured: true} // every payload transcribes to ""
	sink := &sliceSink{}
	s := NewRelaySession(engine, sink, time.Second)
	require.NoError(t, s.Handshake())

	require.NoError(t, s.HandleChunk(context.Background(), chunk("silence")))
	require.Len(t, sink.events, 1, "only the ready event")
}

func TestCloseIsIdempotentAndFinal(t *testing.T) {
	sink := &sliceSink{}
	s := NewRelaySession(&fakeTranscriber{configured: true}, sink, time.Second)
	require.NoError(t, s.Handshake())

	s.Close()
	s.Close()
	require.Equal(t, StateClosed, s.State())

	err := s.HandleChunk(context.Background(), chunk("late"))
	require.Error(t, err)
	require.Len(t, sink.events, 1, "no events after close")
}

func TestIsFinalFlagPropagates(t *testing.T) {
	engine := &fakeTranscriber{
		configured: true,
		results:    map[string]TranscriptResult{"bye": {Transcript: "goodbye", Confidence: 1}},
	}
	sink := &sliceSink{}
	s := NewRelaySession(engine, sink, time.Second)
	require.NoError(t, s.Handshake())

	msg := chunk("bye")
	msg.IsFinal = true
	require.NoError(t, s.HandleChunk(context.Background(), msg))

	ev, ok := sink.events[1].(TranscriptEvent)
	require.True(t, ok)
	require.True(t, ev.IsFinal)
	require.Equal(t, "goodbye", ev.Transcript)
}
