package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealorders/internal/database"
	"mealorders/internal/model"
)

var orderTestColumns = []string{
	"id", "withdrawal_date", "submitted_at", "project", "coordinator", "supervisor",
	"team_code", "leader_name", "farm", "meal_type", "service_city", "supplier",
	"unit_price", "worker_names", "total_workers", "to_hire", "card_holder",
	"card_number", "lodged", "hotel_name", "nightly_rate", "total_amount",
	"approved_by", "notes", "closing", "attestation_status", "withdrawal_temp",
	"consumption_temp", "withdrawal_time", "consumption_time", "attestation_notes",
	"withdrawal_photo", "consumption_photo",
}

func addOrderRow(rows *sqlmock.Rows, id int64, team, mealType string, day time.Time) {
	rows.AddRow(
		id, day, day, "700", "COORD", "SUPER",
		team, "MARIA", "FAZENDA SUL", mealType, "CURITIBA", "FORNECEDOR X",
		10.0, "", 3, 0, "",
		"", "NÃO", "", 0.0, 30.0,
		"", "", "", "PENDING", nil,
		nil, nil, nil, nil,
		nil, nil,
	)
}

func newMockRepo(t *testing.T) (*OrderRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewOrderRepository(database.NewGateway(db)), mock
}

func TestCreateReturnsGeneratedID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT LASTVAL()")).
		WillReturnRows(sqlmock.NewRows([]string{"lastval"}).AddRow(17))

	id, err := repo.Create(context.Background(), &model.Order{
		WithdrawalDate:    time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		TeamCode:          "700AA",
		MealType:          "MARMITEX",
		TotalWorkers:      3,
		UnitPrice:         10,
		TotalAmount:       30,
		AttestationStatus: model.AttestationPending,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAttestationGuardedByPendingStatus(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE orders").
		WithArgs(65.0, 60.0, nil, nil, "", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.UpdateAttestation(context.Background(), 9, model.AttestationUpdate{
		WithdrawalTemp:  65.0,
		ConsumptionTemp: 60.0,
	})
	require.NoError(t, err)
	// zero affected: unknown order or already COMPLETED
	assert.Equal(t, int64(0), affected)
}

func TestFindPendingFiltersByTeam(t *testing.T) {
	repo, mock := newMockRepo(t)
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(orderTestColumns)
	addOrderRow(rows, 3, "700AA", "MARMITEX", day)

	mock.ExpectQuery("FROM orders").
		WithArgs("700AA").
		WillReturnRows(rows)

	orders, err := repo.FindPending(context.Background(), "700AA")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(3), orders[0].ID)
	assert.Equal(t, model.AttestationPending, orders[0].AttestationStatus)
	assert.Nil(t, orders[0].WithdrawalTemp)
}

func TestFindPendingAllTeams(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM orders").
		WillReturnRows(sqlmock.NewRows(orderTestColumns))

	orders, err := repo.FindPending(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestFindByTeamAndDate(t *testing.T) {
	repo, mock := newMockRepo(t)
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(orderTestColumns)
	addOrderRow(rows, 11, "700AA", "ALMOÇO LOCAL", day)

	mock.ExpectQuery("FROM orders").
		WithArgs("700AA", "2026-08-30").
		WillReturnRows(rows)

	orders, err := repo.FindByTeamAndDate(context.Background(), "700AA", day)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(11), orders[0].ID)
}

func TestUpdatePhotoRefs(t *testing.T) {
	repo, mock := newMockRepo(t)
	url := "https://blob.example/photos/temp_x_retirada_pedido_4.jpg"

	mock.ExpectExec("UPDATE orders").
		WithArgs(url, nil, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.UpdatePhotoRefs(context.Background(), 4, &url, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestWithdrawalDateNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT withdrawal_date FROM orders").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"withdrawal_date"}))

	_, err := repo.WithdrawalDate(context.Background(), 404)
	assert.ErrorIs(t, err, database.ErrNoRows)
}
