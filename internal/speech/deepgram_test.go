package speech

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meer-matthew/STT-Proto/internal/apperr"
)

const listenResponse = `{
	"results": {
		"channels": [
			{"alternatives": [{"transcript": "hello world", "confidence": 0.97}]}
		]
	}
}`

func TestTranscribe(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(listenResponse))
	}))
	defer srv.Close()

	c := NewDeepgramClient("dg-key", srv.URL)
	result, err := c.Transcribe(context.Background(), []byte("audio-bytes"), "en")
	require.NoError(t, err)
	require.Equal(t, "hello world", result.Transcript)
	require.InDelta(t, 0.97, result.Confidence, 1e-9)

	require.Equal(t, "Token dg-key", gotAuth)
	require.Contains(t, gotQuery, "model=nova-2")
	require.Contains(t, gotQuery, "language=en")
	require.NotContains(t, gotQuery, "encoding", "full recordings carry their own headers")
}

func TestTranscribeChunkParams(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(listenResponse))
	}))
	defer srv.Close()

	c := NewDeepgramClient("dg-key", srv.URL)
	_, err := c.TranscribeChunk(context.Background(), []byte("pcm"), "es")
	require.NoError(t, err)

	require.Contains(t, gotQuery, "encoding=linear16")
	require.Contains(t, gotQuery, "sample_rate=16000")
	require.Contains(t, gotQuery, "language=es")
}

func TestTranscribeUnconfigured(t *testing.T) {
	c := NewDeepgramClient("", "")
	require.False(t, c.Configured())

	_, err := c.Transcribe(context.Background(), []byte("audio"), "en")
	require.True(t, apperr.Is(err, apperr.KindUpstream))
}

func TestTranscribeUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewDeepgramClient("dg-key", srv.URL)
	_, err := c.Transcribe(context.Background(), []byte("audio"), "en")
	require.True(t, apperr.Is(err, apperr.KindUpstream))
}

func TestTranscribeSilence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":{"channels":[{"alternatives":[{"transcript":"","confidence":0}]}]}}`))
	}))
	defer srv.Close()

	c := NewDeepgramClient("dg-key", srv.URL)
	result, err := c.Transcribe(context.Background(), []byte("quiet"), "en")
	require.NoError(t, err, "an empty transcript is a successful result")
	require.Empty(t, result.Transcript)
}
