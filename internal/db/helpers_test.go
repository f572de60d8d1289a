package db

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

// newMockDB swaps the package connection for a sqlmock one and restores it
// when the test ends, verifying every expectation was met.
func newMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	prev := DB
	DB = mockDB
	t.Cleanup(func() {
		DB = prev
		require.NoError(t, mock.ExpectationsWereMet())
		_ = mockDB.Close()
	})
	return mock
}
