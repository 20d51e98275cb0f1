package repository

import (
	"context"
	"fmt"
	"time"

	"mealorders/internal/database"
	"mealorders/internal/model"
)

const orderColumns = `
	id, withdrawal_date, submitted_at, project, coordinator, supervisor,
	team_code, leader_name, farm, meal_type, service_city, supplier,
	unit_price, worker_names, total_workers, to_hire, card_holder,
	card_number, lodged, hotel_name, nightly_rate, total_amount,
	approved_by, notes, closing, attestation_status, withdrawal_temp,
	consumption_temp, withdrawal_time, consumption_time, attestation_notes,
	withdrawal_photo, consumption_photo`

// OrderRepository is the domain-level read/write surface for orders,
// built on the persistence gateway.
type OrderRepository struct {
	gw *database.Gateway
}

func NewOrderRepository(gw *database.Gateway) *OrderRepository {
	return &OrderRepository{gw: gw}
}

// Create inserts the order and returns the store-assigned identifier.
// The attestation status and total amount are supplied by the caller.
func (r *OrderRepository) Create(ctx context.Context, o *model.Order) (int64, error) {
	_, id, err := r.gw.ExecInsert(ctx, `
		INSERT INTO orders (
			withdrawal_date, project, coordinator, supervisor, team_code,
			leader_name, farm, meal_type, service_city, supplier, unit_price,
			worker_names, total_workers, to_hire, card_holder, card_number,
			lodged, hotel_name, nightly_rate, total_amount, approved_by,
			notes, closing, attestation_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`,
		o.WithdrawalDate, o.Project, o.Coordinator, o.Supervisor, o.TeamCode,
		o.LeaderName, o.Farm, o.MealType, o.ServiceCity, o.Supplier, o.UnitPrice,
		o.WorkerNames, o.TotalWorkers, o.ToHire, o.CardHolder, o.CardNumber,
		o.Lodged, o.HotelName, o.NightlyRate, o.TotalAmount, o.ApprovedBy,
		o.Notes, o.Closing, o.AttestationStatus,
	)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	return id, nil
}

// FindByTeamAndDate returns the team's orders for one calendar day, most
// recent first. Used for "repeat yesterday's order".
func (r *OrderRepository) FindByTeamAndDate(ctx context.Context, teamCode string, day time.Time) ([]model.Order, error) {
	var orders []model.Order
	err := r.gw.Select(ctx, &orders, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE team_code = $1 AND withdrawal_date = $2
		ORDER BY submitted_at DESC, id DESC`,
		teamCode, day.Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("query orders by team and date: %w", err)
	}
	return orders, nil
}

// FindPending returns boxed-meal orders still awaiting attestation,
// newest submission first. An empty teamCode means all teams.
func (r *OrderRepository) FindPending(ctx context.Context, teamCode string) ([]model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE attestation_status = 'PENDING'
		  AND (meal_type ILIKE '%MARMITEX%' OR meal_type ILIKE '%MARMITA%')`
	args := []any{}
	if teamCode != "" {
		query += ` AND team_code = $1`
		args = append(args, teamCode)
	}
	query += ` ORDER BY submitted_at DESC`

	var orders []model.Order
	if err := r.gw.Select(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("query pending orders: %w", err)
	}
	return orders, nil
}

// UpdateAttestation writes the temperature fields and transitions the
// order to COMPLETED. The PENDING guard makes resubmission a no-op, so a
// zero affected count means "unknown order or already attested".
func (r *OrderRepository) UpdateAttestation(ctx context.Context, orderID int64, up model.AttestationUpdate) (int64, error) {
	affected, err := r.gw.Exec(ctx, `
		UPDATE orders
		SET withdrawal_temp = $1,
		    consumption_temp = $2,
		    withdrawal_time = $3,
		    consumption_time = $4,
		    attestation_notes = $5,
		    attestation_status = 'COMPLETED'
		WHERE id = $6 AND attestation_status = 'PENDING'`,
		up.WithdrawalTemp, up.ConsumptionTemp, up.WithdrawalTime,
		up.ConsumptionTime, up.Notes, orderID,
	)
	if err != nil {
		return 0, fmt.Errorf("update attestation: %w", err)
	}
	return affected, nil
}

// UpdatePhotoRefs records the uploaded photo references. Nil URLs leave
// the corresponding column untouched.
func (r *OrderRepository) UpdatePhotoRefs(ctx context.Context, orderID int64, withdrawalURL, consumptionURL *string) (int64, error) {
	affected, err := r.gw.Exec(ctx, `
		UPDATE orders
		SET withdrawal_photo = COALESCE($1, withdrawal_photo),
		    consumption_photo = COALESCE($2, consumption_photo)
		WHERE id = $3`,
		withdrawalURL, consumptionURL, orderID,
	)
	if err != nil {
		return 0, fmt.Errorf("update photo refs: %w", err)
	}
	return affected, nil
}

// WithdrawalDate fetches the order's withdrawal date, database.ErrNoRows
// when the order does not exist.
func (r *OrderRepository) WithdrawalDate(ctx context.Context, orderID int64) (time.Time, error) {
	var row struct {
		WithdrawalDate time.Time `db:"withdrawal_date"`
	}
	err := r.gw.Get(ctx, &row, `SELECT withdrawal_date FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return time.Time{}, err
	}
	return row.WithdrawalDate, nil
}
