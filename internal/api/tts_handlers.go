// internal/api/tts_handlers.go
package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/meer-matthew/STT-Proto/internal/speech"
)

type synthesizeRequest struct {
	Text         string `json:"text" validate:"required,max=4096"`
	Voice        string `json:"voice" validate:"omitempty"`
	SenderType   string `json:"sender_type" validate:"omitempty,oneof=user caregiver"`
	SenderGender string `json:"sender_gender" validate:"omitempty,oneof=male female other"`
}

// SynthesizeHandler converts text to MP3 speech. The voice may be given
// explicitly; otherwise it is derived from the sender profile so each
// speaker keeps a consistent voice across a conversation.
func (a *API) SynthesizeHandler(w http.ResponseWriter, r *http.Request) {
	var req synthesizeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	voice := speech.Voice(req.Voice)
	if req.Voice == "" {
		voice = speech.VoiceForSender(req.SenderType, req.SenderGender)
	} else if !speech.ValidVoice(voice) {
		writeError(w, http.StatusBadRequest, "Unknown voice: "+req.Voice)
		return
	}

	log.Printf("[TTS] Synthesizing %d chars with voice %s", len(req.Text), voice)

	audio, err := a.synthesizer.Synthesize(r.Context(), req.Text, voice)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

// VoicesHandler lists the available voices and the default.
func (a *API) VoicesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"voices":  speech.AvailableVoices,
		"default": speech.DefaultVoice,
	})
}
