package sqlite

import (
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DRepublic-io/gNFT/internal/errors"
	"github.com/DRepublic-io/gNFT/pkg/types"
)

func mockBackend(t *testing.T) (*Backend, sqlmock.Sqlmock, string) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dir := t.TempDir()
	b := &Backend{
		attached: true,
		config:   types.Config{Backend: types.BackendSQLite, DataDir: dir},
		db:       db,
		logger:   zap.NewNop().Sugar(),
	}
	return b, mock, dir
}

func TestSaveFailureLeavesJSONLUntouched(t *testing.T) {
	b, mock, dir := mockBackend(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM definitions").WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err := b.Save(sampleState())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clearing definitions")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveCommitFailure(t *testing.T) {
	b, mock, dir := mockBackend(t)

	mock.ExpectBegin()
	for _, m := range jsonlTableMapping {
		mock.ExpectExec("DELETE FROM " + m.table).WillReturnResult(sqlmock.NewResult(0, 0))
		if m.table == "settings" {
			// The ledger owner setting is always written.
			mock.ExpectPrepare("INSERT INTO settings").
				ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
		}
	}
	mock.ExpectCommit().WillReturnError(errors.New("database is locked"))

	err := b.Save(types.State{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "committing save transaction")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadQueryFailure(t *testing.T) {
	b, mock, _ := mockBackend(t)

	mock.ExpectQuery("SELECT behavior, attribute_id, name").WillReturnError(errors.New("no such table"))

	_, err := b.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading definitions")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadRejectsCorruptNumber(t *testing.T) {
	b, mock, _ := mockBackend(t)

	mock.ExpectQuery("SELECT behavior, attribute_id, name").WillReturnRows(
		sqlmock.NewRows([]string{"behavior", "attribute_id", "name", "description", "decimals", "max_level", "ladder_param", "stage_thresholds", "stage_values", "created_at"}).
			AddRow("generic", "not-a-number", "attack", "", "0", nil, nil, nil, nil, "2026-03-01T12:00:00Z"))

	_, err := b.Load()
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
