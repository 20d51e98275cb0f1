package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mealorders/internal/model"
	"mealorders/internal/worker"
)

var (
	ErrInvalidSubmission = errors.New("invalid order submission")
	// ErrAttestationRejected covers both an unknown order id and an order
	// whose attestation was already recorded. Resubmission is rejected
	// rather than silently overwriting earlier readings.
	ErrAttestationRejected = errors.New("order not found or already attested")
)

// Meal types served on site: no temperature attestation needed. Anything
// else, boxed meals (MARMITEX/MARMITA) above all, starts PENDING.
var noAttestationMeals = map[string]struct{}{
	"CAFÉ":          {},
	"CAFE":          {},
	"CAFÉ DA MANHÃ": {},
	"CAFE DA MANHA": {},
	"ALMOÇO LOCAL":  {},
	"ALMOCO LOCAL":  {},
	"JANTA LOCAL":   {},
}

// RequirementFor computes the initial attestation status from the
// meal-type label. Pure function of the label; clients never set it.
func RequirementFor(mealType string) model.AttestationStatus {
	if _, ok := noAttestationMeals[strings.ToUpper(strings.TrimSpace(mealType))]; ok {
		return model.AttestationNotRequired
	}
	return model.AttestationPending
}

// OrderStore is the repository surface the lifecycle engine needs.
type OrderStore interface {
	Create(ctx context.Context, o *model.Order) (int64, error)
	FindByTeamAndDate(ctx context.Context, teamCode string, day time.Time) ([]model.Order, error)
	FindPending(ctx context.Context, teamCode string) ([]model.Order, error)
	UpdateAttestation(ctx context.Context, orderID int64, up model.AttestationUpdate) (int64, error)
	WithdrawalDate(ctx context.Context, orderID int64) (time.Time, error)
}

// Dispatcher queues a detached upload job. False means the job was
// dropped; the attestation itself is already committed either way.
type Dispatcher interface {
	Dispatch(job worker.Job) bool
}

// OrderService is the order lifecycle and attestation engine.
type OrderService struct {
	orders OrderStore
	pool   Dispatcher
	loc    *time.Location
	now    func() time.Time
}

func NewOrderService(orders OrderStore, pool Dispatcher) *OrderService {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.UTC
	}
	return &OrderService{orders: orders, pool: pool, loc: loc, now: time.Now}
}

type CreateResult struct {
	OrderID           int64
	AttestationStatus model.AttestationStatus
	TotalAmount       float64
}

// Create persists a new order. The total is unit price times the
// reported headcount; the lodging rate is informational and never part
// of the payable total.
func (s *OrderService) Create(ctx context.Context, sub model.OrderSubmission) (*CreateResult, error) {
	day, err := time.ParseInLocation("2006-01-02", sub.WithdrawalDate, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: bad data_retirada %q", ErrInvalidSubmission, sub.WithdrawalDate)
	}

	status := RequirementFor(sub.MealType)
	total := sub.UnitPrice * float64(sub.TotalWorkers)

	order := &model.Order{
		WithdrawalDate:    day,
		Project:           sub.Project,
		Coordinator:       sub.Coordinator,
		Supervisor:        sub.Supervisor,
		TeamCode:          sub.TeamCode,
		LeaderName:        sub.LeaderName,
		Farm:              strings.TrimSpace(sub.Farm),
		MealType:          sub.MealType,
		ServiceCity:       sub.ServiceCity,
		Supplier:          sub.Supplier,
		UnitPrice:         sub.UnitPrice,
		WorkerNames:       sub.WorkerNames,
		TotalWorkers:      sub.TotalWorkers,
		ToHire:            sub.ToHire,
		CardHolder:        sub.CardHolder,
		CardNumber:        sub.CardNumber,
		Lodged:            sub.Lodged,
		HotelName:         sub.HotelName,
		NightlyRate:       sub.NightlyRate,
		TotalAmount:       total,
		ApprovedBy:        sub.ApprovedBy,
		Notes:             sub.Notes,
		Closing:           sub.Closing,
		AttestationStatus: status,
	}

	id, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	slog.Info("order created", "id", id, "team", sub.TeamCode, "meal", sub.MealType, "status", status)
	return &CreateResult{OrderID: id, AttestationStatus: status, TotalAmount: total}, nil
}

type AttestationResult struct {
	OrderID         int64
	WithdrawalTemp  float64
	ConsumptionTemp float64
	PendingUpload   bool
	Warnings        []string
}

// SubmitAttestation records the temperature readings synchronously and,
// only after that write committed, queues the image upload as a detached
// job. The caller gets its response without waiting on any upload.
func (s *OrderService) SubmitAttestation(ctx context.Context, orderID int64, sub model.AttestationSubmission) (*AttestationResult, error) {
	var warnings []string

	// Times are HH:MM on the order's own withdrawal date. When the order
	// lookup fails we still accept the attestation and fall back to today.
	day, err := s.orders.WithdrawalDate(ctx, orderID)
	if err != nil {
		slog.Warn("withdrawal date lookup failed, using current date", "order", orderID, "error", err)
		day = s.now().In(s.loc)
	}

	withdrawalAt, warn := s.combineTime(day, sub.WithdrawalTime, "hora_retirada")
	if warn != "" {
		warnings = append(warnings, warn)
	}
	consumptionAt, warn := s.combineTime(day, sub.ConsumptionTime, "hora_consumo")
	if warn != "" {
		warnings = append(warnings, warn)
	}

	affected, err := s.orders.UpdateAttestation(ctx, orderID, model.AttestationUpdate{
		WithdrawalTemp:  *sub.WithdrawalTemp,
		ConsumptionTemp: *sub.ConsumptionTemp,
		WithdrawalTime:  withdrawalAt,
		ConsumptionTime: consumptionAt,
		Notes:           sub.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("record attestation: %w", err)
	}
	if affected == 0 {
		return nil, ErrAttestationRejected
	}

	pendingUpload := false
	if sub.WithdrawalImage != "" || sub.ConsumptionImage != "" {
		pendingUpload = s.pool.Dispatch(worker.Job{
			OrderID:          orderID,
			WithdrawalImage:  sub.WithdrawalImage,
			ConsumptionImage: sub.ConsumptionImage,
		})
	}

	slog.Info("attestation recorded", "order", orderID, "pending_upload", pendingUpload)
	return &AttestationResult{
		OrderID:         orderID,
		WithdrawalTemp:  *sub.WithdrawalTemp,
		ConsumptionTemp: *sub.ConsumptionTemp,
		PendingUpload:   pendingUpload,
		Warnings:        warnings,
	}, nil
}

// combineTime merges an optional HH:MM value with the given date. A
// malformed value is dropped with a warning instead of failing the
// submission.
func (s *OrderService) combineTime(day time.Time, value, field string) (*time.Time, string) {
	if value == "" {
		return nil, ""
	}
	t, err := time.Parse("15:04", value)
	if err != nil {
		return nil, fmt.Sprintf("invalid %s %q ignored", field, value)
	}
	combined := time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, s.loc)
	return &combined, ""
}

// PendingAttestations returns the attestation worklist, display-ready.
func (s *OrderService) PendingAttestations(ctx context.Context, teamCode string) ([]model.PendingItem, error) {
	orders, err := s.orders.FindPending(ctx, teamCode)
	if err != nil {
		return nil, fmt.Errorf("list pending attestations: %w", err)
	}

	items := make([]model.PendingItem, 0, len(orders))
	for _, o := range orders {
		items = append(items, model.PendingItem{
			ID:          o.ID,
			MealName:    o.MealType,
			Date:        o.WithdrawalDate.Format("02/01/2006"),
			Employees:   fmt.Sprintf("%d pessoas", o.TotalWorkers),
			Supplier:    o.Supplier,
			City:        o.ServiceCity,
			Requestor:   o.LeaderName,
			Farm:        o.Farm,
			Phase:       "Retirada",
			TotalAmount: o.TotalAmount,
		})
	}
	return items, nil
}

// LatestOrders returns yesterday's orders for the team, newest first,
// along with the reference day, for "repeat order" pre-fill.
func (s *OrderService) LatestOrders(ctx context.Context, teamCode string) ([]model.Order, time.Time, error) {
	yesterday := s.now().In(s.loc).AddDate(0, 0, -1)
	yesterday = time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, s.loc)

	orders, err := s.orders.FindByTeamAndDate(ctx, teamCode, yesterday)
	if err != nil {
		return nil, yesterday, fmt.Errorf("list latest orders: %w", err)
	}
	return orders, yesterday, nil
}
