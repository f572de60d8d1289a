package db

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var (
	activeConversationSQL = regexp.QuoteMeta(`FROM conversations c`)
	participantExistsSQL  = regexp.QuoteMeta(
		`SELECT EXISTS(SELECT 1 FROM conversation_participants WHERE conversation_id = $1 AND user_id = $2)`)
)

func conversationRow(ownerID int64) *sqlmock.Rows {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "user_id", "username", "configuration", "created_at", "updated_at", "is_active", "message_count",
	}).AddRow(5, ownerID, "owner", "1:1", now, now, true, 2)
}

func TestCheckConversationAccessOwner(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(activeConversationSQL).WithArgs(int64(5)).
		WillReturnRows(conversationRow(10))
	// No participant lookup: ownership alone grants access.

	allowed, conv, err := CheckConversationAccess(10, 5)
	require.NoError(t, err)
	require.True(t, allowed)
	require.NotNil(t, conv)
	require.Equal(t, int64(10), conv.UserID)
}

func TestCheckConversationAccessParticipant(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(activeConversationSQL).WithArgs(int64(5)).
		WillReturnRows(conversationRow(10))
	mock.ExpectQuery(participantExistsSQL).WithArgs(int64(5), int64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	allowed, conv, err := CheckConversationAccess(20, 5)
	require.NoError(t, err)
	require.True(t, allowed)
	require.NotNil(t, conv)
}

func TestCheckConversationAccessStranger(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(activeConversationSQL).WithArgs(int64(5)).
		WillReturnRows(conversationRow(10))
	mock.ExpectQuery(participantExistsSQL).WithArgs(int64(5), int64(30)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	allowed, conv, err := CheckConversationAccess(30, 5)
	require.NoError(t, err)
	require.False(t, allowed)
	require.Nil(t, conv)
}

func TestCheckConversationAccessMissingConversation(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(activeConversationSQL).WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	allowed, conv, err := CheckConversationAccess(10, 99)
	require.NoError(t, err, "a missing conversation denies without error")
	require.False(t, allowed)
	require.Nil(t, conv)
}

func TestCheckConversationOwner(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(activeConversationSQL).WithArgs(int64(5)).
		WillReturnRows(conversationRow(10))

	isOwner, conv, err := CheckConversationOwner(10, 5)
	require.NoError(t, err)
	require.True(t, isOwner)
	require.NotNil(t, conv)
}

func TestCheckConversationOwnerDeniesParticipant(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(activeConversationSQL).WithArgs(int64(5)).
		WillReturnRows(conversationRow(10))
	// Participants never pass the owner check; no participant lookup happens.

	isOwner, conv, err := CheckConversationOwner(20, 5)
	require.NoError(t, err)
	require.False(t, isOwner)
	require.Nil(t, conv)
}
