package db

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/meer-matthew/STT-Proto/internal/apperr"
)

var (
	conversationOwnerSQL = regexp.QuoteMeta(
		`SELECT user_id FROM conversations WHERE id = $1 AND is_active = TRUE`)
	activeUserSQL = regexp.QuoteMeta(
		`SELECT username, user_type FROM users WHERE id = $1 AND is_active = TRUE`)
	insertParticipantSQL = regexp.QuoteMeta(`INSERT INTO conversation_participants`)
	deleteParticipantSQL = regexp.QuoteMeta(
		`DELETE FROM conversation_participants WHERE conversation_id = $1 AND user_id = $2`)
)

func TestAddParticipant(t *testing.T) {
	mock := newMockDB(t)
	added := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(conversationOwnerSQL).WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(10))
	mock.ExpectQuery(activeUserSQL).WithArgs(int64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"username", "user_type"}).AddRow("bob", "caretaker"))
	mock.ExpectQuery(insertParticipantSQL).WithArgs(int64(5), int64(20), int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "added_at"}).AddRow(7, added))

	p, err := AddParticipant(5, 20, 10)
	require.NoError(t, err)
	require.Equal(t, int64(7), p.ID)
	require.Equal(t, "bob", p.Username)
	require.Equal(t, "caretaker", p.UserType)
	require.True(t, p.AddedBy.Valid)
	require.Equal(t, int64(10), p.AddedBy.Int64)
}

func TestAddParticipantRejectsOwner(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(conversationOwnerSQL).WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(10))
	// No user lookup and no insert: the owner is never stored as a
	// participant row.

	_, err := AddParticipant(5, 10, 10)
	require.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestAddParticipantMissingConversation(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(conversationOwnerSQL).WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := AddParticipant(99, 20, 10)
	require.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestAddParticipantMissingUser(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(conversationOwnerSQL).WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(10))
	mock.ExpectQuery(activeUserSQL).WithArgs(int64(20)).
		WillReturnError(sql.ErrNoRows)

	_, err := AddParticipant(5, 20, 10)
	require.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestAddParticipantDuplicate(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(conversationOwnerSQL).WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(10))
	mock.ExpectQuery(activeUserSQL).WithArgs(int64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"username", "user_type"}).AddRow("bob", "user"))
	mock.ExpectQuery(insertParticipantSQL).WithArgs(int64(5), int64(20), int64(10)).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := AddParticipant(5, 20, 10)
	require.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestRemoveParticipantRevokesAccess(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectExec(deleteParticipantSQL).WithArgs(int64(5), int64(20)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(activeConversationSQL).WithArgs(int64(5)).
		WillReturnRows(conversationRow(10))
	mock.ExpectQuery(participantExistsSQL).WithArgs(int64(5), int64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	require.NoError(t, RemoveParticipant(5, 20))

	allowed, _, err := CheckConversationAccess(20, 5)
	require.NoError(t, err)
	require.False(t, allowed, "removal takes effect on the very next access check")
}

func TestRemoveParticipantMissing(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectExec(deleteParticipantSQL).WithArgs(int64(5), int64(20)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := RemoveParticipant(5, 20)
	require.True(t, apperr.Is(err, apperr.KindNotFound))
}
