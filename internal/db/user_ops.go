// internal/db/user_ops.go
package db

import (
	"database/sql"
	"errors"
	"log"

	"github.com/lib/pq"

	"github.com/meer-matthew/STT-Proto/internal/apperr"
	"github.com/meer-matthew/STT-Proto/internal/models"
)

const userColumns = `id, username, email, password_hash, user_type, created_at, updated_at, is_active, last_login`

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.UserType,
		&u.CreatedAt, &u.UpdatedAt, &u.IsActive, &u.LastLogin)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new active user. Username and email collisions are
// reported as Conflict.
func CreateUser(username, email, passwordHash, userType string) (*models.User, error) {
	row := DB.QueryRow(`
        INSERT INTO users (username, email, password_hash, user_type, created_at, updated_at, is_active)
        VALUES ($1, $2, $3, $4, NOW(), NOW(), TRUE)
        RETURNING `+userColumns,
		username, email, passwordHash, userType)
	u, err := scanUser(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, apperr.New(apperr.KindConflict, "Username or email already exists")
		}
		log.Printf("CreateUser: insert failed for username %q: %v", username, err)
		return nil, apperr.Wrap(apperr.KindStorage, "failed to create user", err)
	}
	return u, nil
}

// GetUserByID returns the user or NotFound.
func GetUserByID(id int64) (*models.User, error) {
	u, err := scanUser(DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "User not found")
	}
	if err != nil {
		log.Printf("GetUserByID: lookup failed for user %d: %v", id, err)
		return nil, apperr.Wrap(apperr.KindStorage, "failed to load user", err)
	}
	return u, nil
}

// GetUserByUsername returns the user or NotFound.
func GetUserByUsername(username string) (*models.User, error) {
	u, err := scanUser(DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "User not found")
	}
	if err != nil {
		log.Printf("GetUserByUsername: lookup failed for %q: %v", username, err)
		return nil, apperr.Wrap(apperr.KindStorage, "failed to load user", err)
	}
	return u, nil
}

// ListActiveUsers returns active users, optionally filtered by user type.
func ListActiveUsers(userType string) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_active = TRUE`
	args := []interface{}{}
	if userType != "" {
		query += ` AND user_type = $1`
		args = append(args, userType)
	}
	query += ` ORDER BY username ASC`

	rows, err := DB.Query(query, args...)
	if err != nil {
		log.Printf("ListActiveUsers: query failed: %v", err)
		return nil, apperr.Wrap(apperr.KindStorage, "failed to list users", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.UserType,
			&u.CreatedAt, &u.UpdatedAt, &u.IsActive, &u.LastLogin); err != nil {
			log.Printf("ListActiveUsers: scan failed: %v", err)
			return nil, apperr.Wrap(apperr.KindStorage, "failed to list users", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, "failed to list users", err)
	}
	return users, nil
}

// TouchLastLogin records a successful login.
func TouchLastLogin(userID int64) error {
	if _, err := DB.Exec(`UPDATE users SET last_login = NOW() WHERE id = $1`, userID); err != nil {
		log.Printf("TouchLastLogin: update failed for user %d: %v", userID, err)
		return apperr.Wrap(apperr.KindStorage, "failed to update last login", err)
	}
	return nil
}
