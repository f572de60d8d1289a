package models

import (
	"database/sql"
	"time"
)

// User types. A caretaker manages conversations on behalf of users.
const (
	UserTypeUser      = "user"
	UserTypeCaretaker = "caretaker"
)

// User represents an authenticated principal.
type User struct {
	ID           int64          `json:"id"`
	Username     string         `json:"username"`
	Email        sql.NullString `json:"-"`
	PasswordHash sql.NullString `json:"-"`
	UserType     string         `json:"user_type"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	IsActive     bool           `json:"is_active"`
	LastLogin    sql.NullTime   `json:"-"`
}

// UserView is the JSON shape returned over the API: no password hash,
// email only for the user themselves.
type UserView struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	UserType  string     `json:"user_type"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	IsActive  bool       `json:"is_active"`
	Email     string     `json:"email,omitempty"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// View converts a User to its public JSON representation.
func (u User) View(includeEmail bool) UserView {
	v := UserView{
		ID:        u.ID,
		Username:  u.Username,
		UserType:  u.UserType,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		IsActive:  u.IsActive,
	}
	if includeEmail && u.Email.Valid {
		v.Email = u.Email.String
	}
	if u.LastLogin.Valid {
		t := u.LastLogin.Time
		v.LastLogin = &t
	}
	return v
}
