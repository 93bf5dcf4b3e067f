package migrations

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamesAreOrdered(t *testing.T) {
	names, err := Names()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"0001_directory.sql",
		"0002_sessions.sql",
		"0003_issues.sql",
		"0004_outbox.sql",
	}, names)
}

func TestApplySkipsRecordedMigrations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	names, err := Names()
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	for i, name := range names {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
			WithArgs(name).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(i < len(names)-1))
		if i < len(names)-1 {
			mock.ExpectRollback()
			continue
		}
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS outbox")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations")).
			WithArgs(name).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	applied, err := Apply(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, []string{"0004_outbox.sql"}, applied)
	require.NoError(t, mock.ExpectationsWereMet())
}
