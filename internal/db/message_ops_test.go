package db

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/meer-matthew/STT-Proto/internal/apperr"
)

var (
	lockConversationSQL = regexp.QuoteMeta(
		`SELECT id FROM conversations WHERE id = $1 AND is_active = TRUE FOR UPDATE`)
	insertMessageSQL = regexp.QuoteMeta(`INSERT INTO messages`)
	bumpUpdatedAtSQL = regexp.QuoteMeta(
		`UPDATE conversations SET updated_at = $1 WHERE id = $2`)
)

func TestAddMessageValidation(t *testing.T) {
	_, err := AddMessage(1, "alice", "user", "", "", false, "")
	require.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = AddMessage(1, "alice", "user", "", "   \t ", false, "")
	require.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = AddMessage(1, "", "user", "", "hello", false, "")
	require.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestAddMessageCommitsInsertAndBumpTogether(t *testing.T) {
	mock := newMockDB(t)
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(lockConversationSQL).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(insertMessageSQL).
		WithArgs(int64(3), "alice", "user", sqlmock.AnyArg(), "hello", false, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "message", "created_at"}).
			AddRow(9, "hello", created))
	// The bump must reuse the message's created_at, in the same transaction.
	mock.ExpectExec(bumpUpdatedAtSQL).WithArgs(created, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	msg, err := AddMessage(3, "alice", "user", "", "hello", false, "")
	require.NoError(t, err)
	require.Equal(t, int64(9), msg.ID)
	require.Equal(t, int64(3), msg.ConversationID)
	require.Equal(t, "hello", msg.Body)
	require.Equal(t, created, msg.CreatedAt)
}

func TestAddMessageMissingConversationRollsBack(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockConversationSQL).WithArgs(int64(3)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := AddMessage(3, "alice", "user", "", "hello", false, "")
	require.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestAddMessageInsertFailureRollsBack(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockConversationSQL).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(insertMessageSQL).
		WithArgs(int64(3), "alice", "user", sqlmock.AnyArg(), "hello", false, sqlmock.AnyArg()).
		WillReturnError(errors.New("disk full"))
	// No updated_at bump and no commit: the transaction rolls back whole.
	mock.ExpectRollback()

	_, err := AddMessage(3, "alice", "user", "", "hello", false, "")
	require.True(t, apperr.Is(err, apperr.KindStorage))
}
