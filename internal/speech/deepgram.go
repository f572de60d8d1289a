// internal/speech/deepgram.go
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/meer-matthew/STT-Proto/internal/apperr"
)

// DeepgramClient calls the Deepgram pre-recorded listen API.
type DeepgramClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewDeepgramClient builds a client. An empty apiKey is allowed; calls will
// then fail with an Upstream error so the caller can report the
// misconfiguration.
func NewDeepgramClient(apiKey, baseURL string) *DeepgramClient {
	if baseURL == "" {
		baseURL = "https://api.deepgram.com/v1/listen"
	}
	return &DeepgramClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// Configured reports whether an API key is present.
func (c *DeepgramClient) Configured() bool { return c.apiKey != "" }

func (c *DeepgramClient) Transcribe(ctx context.Context, audio []byte, language string) (TranscriptResult, error) {
	params := url.Values{}
	params.Set("model", "nova-2")
	params.Set("language", language)
	return c.listen(ctx, audio, params)
}

func (c *DeepgramClient) TranscribeChunk(ctx context.Context, audio []byte, language string) (TranscriptResult, error) {
	// Live chunks arrive as raw PCM without headers, so the exact encoding
	// and sample rate must be spelled out.
	params := url.Values{}
	params.Set("model", "nova-2")
	params.Set("language", language)
	params.Set("encoding", "linear16")
	params.Set("sample_rate", "16000")
	return c.listen(ctx, audio, params)
}

// deepgramResponse mirrors the part of the listen response we read.
type deepgramResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

func (c *DeepgramClient) listen(ctx context.Context, audio []byte, params url.Values) (TranscriptResult, error) {
	if !c.Configured() {
		return TranscriptResult{}, apperr.New(apperr.KindUpstream, "Deepgram API key not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"?"+params.Encode(), bytes.NewReader(audio))
	if err != nil {
		return TranscriptResult{}, apperr.Wrap(apperr.KindUpstream, "failed to build transcription request", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return TranscriptResult{}, apperr.Wrap(apperr.KindUpstream, "Transcription request timed out", err)
		}
		log.Printf("[STT] Deepgram request failed: %v", err)
		return TranscriptResult{}, apperr.Wrap(apperr.KindUpstream, "Transcription request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("[STT] Deepgram returned %d: %s", resp.StatusCode, body)
		return TranscriptResult{}, apperr.New(apperr.KindUpstream,
			fmt.Sprintf("Transcription failed with status %d", resp.StatusCode))
	}

	var parsed deepgramResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return TranscriptResult{}, apperr.Wrap(apperr.KindUpstream, "Unexpected transcription response format", err)
	}

	var result TranscriptResult
	if len(parsed.Results.Channels) > 0 && len(parsed.Results.Channels[0].Alternatives) > 0 {
		alt := parsed.Results.Channels[0].Alternatives[0]
		result.Transcript = alt.Transcript
		result.Confidence = alt.Confidence
	}
	return result, nil
}
