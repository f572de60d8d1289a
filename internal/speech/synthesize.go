// internal/speech/synthesize.go
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/meer-matthew/STT-Proto/internal/apperr"
)

const openAISpeechURL = "https://api.openai.com/v1/audio/speech"

// Synthesizer calls the OpenAI text-to-speech API and returns MP3 bytes.
type Synthesizer struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewSynthesizer(apiKey string) *Synthesizer {
	return &Synthesizer{
		apiKey:     apiKey,
		baseURL:    openAISpeechURL,
		httpClient: &http.Client{},
	}
}

// Configured reports whether an API key is present.
func (s *Synthesizer) Configured() bool { return s.apiKey != "" }

type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          Voice  `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

// Synthesize converts text to speech with the given voice.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, voice Voice) ([]byte, error) {
	if !s.Configured() {
		return nil, apperr.New(apperr.KindUpstream, "TTS service not configured. OpenAI API key is missing.")
	}

	payload, err := json.Marshal(speechRequest{
		Model:          "tts-1",
		Input:          text,
		Voice:          voice,
		ResponseFormat: "mp3",
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "failed to build synthesis request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "failed to build synthesis request", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperr.Wrap(apperr.KindUpstream, "Speech synthesis timed out", err)
		}
		log.Printf("[TTS] OpenAI request failed: %v", err)
		return nil, apperr.Wrap(apperr.KindUpstream, "Speech synthesis failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("[TTS] OpenAI returned %d: %s", resp.StatusCode, body)
		return nil, apperr.New(apperr.KindUpstream,
			fmt.Sprintf("Speech synthesis failed with status %d", resp.StatusCode))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "failed to read synthesized audio", err)
	}
	return audio, nil
}
