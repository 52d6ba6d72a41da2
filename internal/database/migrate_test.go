package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Embedded(t *testing.T) {
	migrations, err := Migrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, "000001_create_survey_submissions", migrations[0].Version)
	assert.Contains(t, migrations[0].SQL, "CREATE TABLE survey_submissions")
	assert.Equal(t, "000002_index_survey_submissions_session", migrations[1].Version)
}

func TestRunMigrations_AppliesPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(createVersionTable)).
		WillReturnError(errors.New("ORA-00955: name is already used by an existing object"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT version FROM schema_migrations`)).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("000001_create_survey_submissions"))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE INDEX idx_survey_submissions_session`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO schema_migrations (version) VALUES (:1)`)).
		WithArgs("000002_index_survey_submissions_session").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ran, err := RunMigrations(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, []string{"000002_index_survey_submissions_session"}, ran)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_StopsOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(createVersionTable)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT version FROM schema_migrations`)).
		WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE survey_submissions`)).
		WillReturnError(errors.New("ORA-01031: insufficient privileges"))

	ran, err := RunMigrations(context.Background(), db)
	assert.Error(t, err)
	assert.Empty(t, ran)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_VersionTableFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(createVersionTable)).WillReturnError(errors.New("ORA-01031: insufficient privileges"))

	_, err = RunMigrations(context.Background(), db)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
