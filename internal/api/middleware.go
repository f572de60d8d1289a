// internal/api/middleware.go
package api

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/meer-matthew/STT-Proto/internal/db"
	"github.com/meer-matthew/STT-Proto/internal/models"
)

// UserContextKey stores the authenticated user in the request context.
var UserContextKey = &contextKey{"User"}

type contextKey struct {
	name string
}

// GenerateToken issues an HS256 JWT for the user.
func GenerateToken(secret string, expiration time.Duration, user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(expiration).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken validates a token and returns the user id it carries.
func ParseToken(secret, tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, jwt.ErrTokenInvalidClaims
	}
	rawID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, jwt.ErrTokenInvalidClaims
	}
	return int64(rawID), nil
}

// AuthMiddleware resolves the bearer token into a user and stores it in the
// request context. The token is read from the Authorization header, or from
// the token query parameter for websocket upgrades (browsers cannot set
// headers there).
func (a *API) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			writeError(w, http.StatusUnauthorized, "Token is missing")
			return
		}

		userID, err := ParseToken(a.cfg.JWTSecret, tokenString)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		user, err := db.GetUserByID(userID)
		if err != nil || !user.IsActive {
			log.Printf("AuthMiddleware: no active user for id %d: %v", userID, err)
			writeError(w, http.StatusUnauthorized, "Invalid or inactive user")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, *user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// currentUser returns the authenticated user placed by AuthMiddleware.
func currentUser(r *http.Request) models.User {
	user, _ := r.Context().Value(UserContextKey).(models.User)
	return user
}
