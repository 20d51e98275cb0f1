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

func newMockGateway(t *testing.T) (*Gateway, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewGateway(db), mock
}

func TestExecReturnsAffectedCount(t *testing.T) {
	gw, mock := newMockGateway(t)

	mock.ExpectExec("UPDATE orders").
		WithArgs("700AA").
		WillReturnResult(sqlmock.NewResult(0, 3))

	affected, err := gw.Exec(context.Background(), "UPDATE orders SET notes = '' WHERE team_code = $1", "700AA")
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecWrapsExecutionError(t *testing.T) {
	gw, mock := newMockGateway(t)

	mock.ExpectExec("UPDATE orders").
		WillReturnError(errors.New("deadlock"))

	_, err := gw.Exec(context.Background(), "UPDATE orders SET notes = ''")
	assert.ErrorIs(t, err, ErrExecution)
}

func TestExecInsertFetchesIdentityOnSameConn(t *testing.T) {
	gw, mock := newMockGateway(t)

	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT LASTVAL()")).
		WillReturnRows(sqlmock.NewRows([]string{"lastval"}).AddRow(42))

	affected, id, err := gw.ExecInsert(context.Background(), "INSERT INTO orders (team_code) VALUES ($1)", "700AA")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.Equal(t, int64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRowsPreservesColumnsAndConvertsBytes(t *testing.T) {
	gw, mock := newMockGateway(t)

	mock.ExpectQuery("SELECT id, name FROM suppliers").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), []byte("FORNECEDOR X")).
			AddRow(int64(2), []byte("FORNECEDOR Y")))

	rs, err := gw.Rows(context.Background(), "SELECT id, name FROM suppliers")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name"}, rs.Columns)
	require.Len(t, rs.Rows, 2)
	assert.Equal(t, "FORNECEDOR X", rs.Rows[0]["name"])
	assert.Equal(t, int64(2), rs.Rows[1]["id"])
}

func TestRowsEmptyResultIsNotAnError(t *testing.T) {
	gw, mock := newMockGateway(t)

	mock.ExpectQuery("SELECT id FROM suppliers").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rs, err := gw.Rows(context.Background(), "SELECT id FROM suppliers")
	require.NoError(t, err)
	assert.NotNil(t, rs.Rows)
	assert.Empty(t, rs.Rows)
}

func TestGetDistinguishesNoRowsFromFailure(t *testing.T) {
	gw, mock := newMockGateway(t)

	mock.ExpectQuery("SELECT total_workers FROM orders").
		WillReturnRows(sqlmock.NewRows([]string{"total_workers"}))

	var row struct {
		TotalWorkers int `db:"total_workers"`
	}
	err := gw.Get(context.Background(), &row, "SELECT total_workers FROM orders WHERE id = $1", 1)
	assert.ErrorIs(t, err, ErrNoRows)

	mock.ExpectQuery("SELECT total_workers FROM orders").
		WillReturnError(errors.New("connection reset"))

	err = gw.Get(context.Background(), &row, "SELECT total_workers FROM orders WHERE id = $1", 1)
	assert.ErrorIs(t, err, ErrExecution)
	assert.NotErrorIs(t, err, ErrNoRows)
}

func TestSelectScansStructs(t *testing.T) {
	gw, mock := newMockGateway(t)

	mock.ExpectQuery("SELECT id, team FROM org_chart").
		WillReturnRows(sqlmock.NewRows([]string{"id", "team"}).
			AddRow(int64(1), "700TA").
			AddRow(int64(2), "700TB"))

	var rows []struct {
		ID   int64  `db:"id"`
		Team string `db:"team"`
	}
	err := gw.Select(context.Background(), &rows, "SELECT id, team FROM org_chart")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "700TB", rows[1].Team)
}
