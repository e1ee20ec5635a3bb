package sqlite

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/generic"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS employees").WillReturnResult(sqlmock.NewResult(0, 0))
	store, err := NewFromDB(db)
	require.NoError(t, err)
	return store, mock
}

func TestUpsertSQL(t *testing.T) {
	q := attendanceTable.upsertSQL()
	assert.True(t, strings.HasPrefix(q, "INSERT INTO attendance (ecode, name, date, day,"))
	assert.Contains(t, q, "ON CONFLICT (ecode, date) DO UPDATE SET name = excluded.name")
	assert.NotContains(t, q, "ecode = excluded.ecode")
	assert.Equal(t, len(attendanceTable.columns), strings.Count(q, "?"))
}

func TestSaveEmployees_RollsBackOnFailure(t *testing.T) {
	// GIVEN: A batch of two employees where the second insert fails
	// THEN: The error surfaces and the transaction is rolled back

	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO employees").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO employees").WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err := store.SaveEmployees(context.Background(), []generic.Employee{
		{Code: "E001", Name: "Asha"},
		{Code: "E002", Name: "Ravi"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upsert employees")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPayroll_NotRun(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT 1 FROM payroll_runs").
		WithArgs(2026, 3).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	results, found, err := store.GetPayroll(context.Background(), generic.PayPeriod{Year: 2026, Month: time.March})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, results)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadRulesDocument_QueryError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT value FROM settings").
		WithArgs(rulesKey).
		WillReturnError(errors.New("database is locked"))

	_, err := store.LoadRulesDocument(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load rules")
}
