// internal/api/stt_handlers.go
package api

import (
	"context"
	"encoding/base64"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/meer-matthew/STT-Proto/internal/apperr"
)

// allowedAudioExtensions for the legacy multipart upload path.
var allowedAudioExtensions = []string{".m4a", ".mp3", ".webm", ".mp4", ".mpga", ".wav", ".mpeg"}

type transcribeRequest struct {
	AudioBase64 string `json:"audio_base64"`
	Language    string `json:"language"`
}

type streamChunkRequest struct {
	AudioBase64 string `json:"audio_base64"`
	Language    string `json:"language"`
	IsFinal     bool   `json:"is_final"`
	Timestamp   int64  `json:"timestamp"`
}

// TranscribeHandler runs one-shot transcription of a complete recording.
// It accepts either a JSON body with base64 audio or the legacy multipart
// form upload.
func (a *API) TranscribeHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	log.Printf("[STT] Transcription request from user: %s", user.Username)

	var audio []byte
	language := "en"

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req transcribeRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeAppError(w, err)
			return
		}
		if req.AudioBase64 == "" {
			writeError(w, http.StatusBadRequest, "No audio_base64 provided")
			return
		}
		if req.Language != "" {
			language = req.Language
		}

		decoded, err := decodeAudioBase64(req.AudioBase64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid base64 audio data")
			return
		}
		audio = decoded
	} else {
		var err error
		audio, language, err = a.readAudioForm(r)
		if err != nil {
			writeAppError(w, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), a.cfg.TranscribeTimeout)
	defer cancel()

	result, err := a.transcriber.Transcribe(ctx, audio, language)
	if err != nil {
		writeAppError(w, err)
		return
	}

	log.Printf("[STT] Transcription successful: %s", result.Transcript)
	writeJSON(w, http.StatusOK, map[string]string{
		"text":     result.Transcript,
		"language": language,
	})
}

// StreamChunkHandler relays one live audio chunk over plain HTTP, for
// clients that cannot hold a websocket open.
func (a *API) StreamChunkHandler(w http.ResponseWriter, r *http.Request) {
	var req streamChunkRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if req.AudioBase64 == "" {
		writeError(w, http.StatusBadRequest, "No audio_base64 provided")
		return
	}
	language := req.Language
	if language == "" {
		language = "en"
	}

	audio, err := base64.StdEncoding.DecodeString(req.AudioBase64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid base64 audio")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), a.cfg.RelayChunkTimeout)
	defer cancel()

	result, err := a.transcriber.TranscribeChunk(ctx, audio, language)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"transcript": result.Transcript,
		"confidence": result.Confidence,
		"is_final":   req.IsFinal,
		"language":   language,
		"timestamp":  req.Timestamp,
	})
}

// LanguagesHandler lists the supported transcription languages.
func (a *API) LanguagesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"languages": map[string]string{
			"en": "English",
			"es": "Spanish",
			"fr": "French",
			"de": "German",
			"it": "Italian",
			"pt": "Portuguese",
			"nl": "Dutch",
			"pl": "Polish",
			"ru": "Russian",
			"ja": "Japanese",
			"ko": "Korean",
			"zh": "Chinese",
			"ar": "Arabic",
			"hi": "Hindi",
			"tr": "Turkish",
			"vi": "Vietnamese",
		},
	})
}

// decodeAudioBase64 strips an optional data URI prefix and whitespace
// before decoding, since mobile recorders ship the payload in both shapes.
func decodeAudioBase64(encoded string) ([]byte, error) {
	if strings.HasPrefix(encoded, "data:") {
		if idx := strings.IndexByte(encoded, ','); idx >= 0 {
			encoded = encoded[idx+1:]
		}
	}
	encoded = strings.TrimSpace(encoded)
	encoded = strings.ReplaceAll(encoded, "\n", "")
	encoded = strings.ReplaceAll(encoded, "\r", "")
	return base64.StdEncoding.DecodeString(encoded)
}

// readAudioForm handles the legacy multipart upload: an "audio" file field
// plus an optional "language" field.
func (a *API) readAudioForm(r *http.Request) (audio []byte, language string, err error) {
	language = "en"

	if err := r.ParseMultipartForm(a.cfg.MaxAudioUploadSize); err != nil {
		return nil, "", apperr.Wrap(apperr.KindValidation, "No audio data provided", err)
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindValidation, "No audio data provided", err)
	}
	defer file.Close()

	if header.Filename == "" {
		return nil, "", apperr.New(apperr.KindValidation, "No file selected")
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !lo.Contains(allowedAudioExtensions, ext) {
		return nil, "", apperr.New(apperr.KindValidation,
			"File type not allowed. Allowed types: "+strings.Join(allowedAudioExtensions, ", "))
	}

	if lang := r.FormValue("language"); lang != "" {
		language = lang
	}

	audio, err = io.ReadAll(io.LimitReader(file, a.cfg.MaxAudioUploadSize))
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindValidation, "Failed to read audio file", err)
	}
	return audio, language, nil
}
