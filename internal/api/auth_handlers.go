// internal/api/auth_handlers.go
package api

import (
	"log"
	"net/http"

	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"

	"github.com/meer-matthew/STT-Proto/internal/apperr"
	"github.com/meer-matthew/STT-Proto/internal/db"
	"github.com/meer-matthew/STT-Proto/internal/models"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	UserType string `json:"user_type" validate:"omitempty,oneof=user caretaker"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token     string          `json:"token"`
	User      models.UserView `json:"user"`
	ExpiresIn int             `json:"expires_in"`
}

// RegisterHandler creates a new account and returns a token for it.
func (a *API) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if req.UserType == "" {
		req.UserType = models.UserTypeUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("RegisterHandler: bcrypt failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	user, err := db.CreateUser(req.Username, req.Email, string(hash), req.UserType)
	if err != nil {
		writeAppError(w, err)
		return
	}

	token, err := GenerateToken(a.cfg.JWTSecret, a.cfg.JWTExpiration, user)
	if err != nil {
		log.Printf("RegisterHandler: token generation failed for user %d: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Token:     token,
		User:      user.View(true),
		ExpiresIn: int(a.cfg.JWTExpiration.Seconds()),
	})
}

// LoginHandler authenticates by username and password.
func (a *API) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	user, err := db.GetUserByUsername(req.Username)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		writeAppError(w, err)
		return
	}
	if !user.IsActive {
		writeError(w, http.StatusUnauthorized, "Account is inactive")
		return
	}
	if !user.PasswordHash.Valid ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash.String), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	if err := db.TouchLastLogin(user.ID); err != nil {
		log.Printf("LoginHandler: could not record last login for user %d: %v", user.ID, err)
	}

	token, err := GenerateToken(a.cfg.JWTSecret, a.cfg.JWTExpiration, user)
	if err != nil {
		log.Printf("LoginHandler: token generation failed for user %d: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Token:     token,
		User:      user.View(true),
		ExpiresIn: int(a.cfg.JWTExpiration.Seconds()),
	})
}

// VerifyHandler confirms the presented token is still valid.
func (a *API) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid": true,
		"user":  user.View(true),
	})
}

// MeHandler returns the authenticated user.
func (a *API) MeHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user.View(true)})
}

// LogoutHandler exists for API symmetry; tokens are stateless and the
// client simply discards its copy.
func (a *API) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// ListUsersHandler returns active users, optionally filtered by user_type
// and excluding the caller.
func (a *API) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	userType := r.URL.Query().Get("user_type")
	if userType != "" && userType != models.UserTypeUser && userType != models.UserTypeCaretaker {
		userType = ""
	}
	includeSelf := r.URL.Query().Get("include_self") != "false"

	users, err := db.ListActiveUsers(userType)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if !includeSelf {
		users = lo.Filter(users, func(u models.User, _ int) bool { return u.ID != user.ID })
	}

	views := lo.Map(users, func(u models.User, _ int) models.UserView { return u.View(false) })
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": views})
}
