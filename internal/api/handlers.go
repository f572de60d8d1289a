// internal/api/handlers.go
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meer-matthew/STT-Proto/internal/apperr"
	"github.com/meer-matthew/STT-Proto/internal/config"
	"github.com/meer-matthew/STT-Proto/internal/speech"
)

// API carries the handler dependencies.
type API struct {
	cfg         *config.Config
	transcriber *speech.DeepgramClient
	synthesizer *speech.Synthesizer
	sessions    *speech.SessionRegistry
}

func New(cfg *config.Config, transcriber *speech.DeepgramClient, synthesizer *speech.Synthesizer) *API {
	return &API{
		cfg:         cfg,
		transcriber: transcriber,
		synthesizer: synthesizer,
		sessions:    speech.NewSessionRegistry(),
	}
}

// Shutdown closes every live relay session. Called after the HTTP server
// stops accepting connections.
func (a *API) Shutdown() {
	a.sessions.CloseAll()
}

var validate = validator.New()

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeAppError maps the error taxonomy onto HTTP status codes in one
// place. Forbidden is surfaced as 404 so the existence of conversations a
// user cannot see is not leaked.
func writeAppError(w http.ResponseWriter, err error) {
	message := apperr.MessageOf(err)
	switch apperr.KindOf(err) {
	case apperr.KindUnauthorized:
		writeError(w, http.StatusUnauthorized, message)
	case apperr.KindForbidden, apperr.KindNotFound:
		writeError(w, http.StatusNotFound, message)
	case apperr.KindValidation:
		writeError(w, http.StatusBadRequest, message)
	case apperr.KindConflict:
		writeError(w, http.StatusConflict, message)
	default: // storage, upstream, anything untyped
		writeError(w, http.StatusInternalServerError, message)
	}
}

// decodeAndValidate parses the JSON body into v and runs the validator
// against its tags.
func decodeAndValidate(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Wrap(apperr.KindValidation, "Invalid JSON body", err)
	}
	if err := validate.Struct(v); err != nil {
		return apperr.Wrap(apperr.KindValidation, "Missing or invalid fields", err)
	}
	return nil
}

// idParam parses a numeric chi URL parameter.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.New(apperr.KindValidation, "Invalid "+name)
	}
	return id, nil
}

// HealthHandler is the liveness probe.
func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "healthy",
		"message":         "STT Backend API is running",
		"active_sessions": a.sessions.Count(),
	})
}
