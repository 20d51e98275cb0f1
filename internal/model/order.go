package model

import (
	"time"
)

// AttestationStatus tracks whether a meal order still needs its
// food-safety temperature check.
type AttestationStatus string

const (
	AttestationNotRequired AttestationStatus = "NOT_REQUIRED"
	AttestationPending     AttestationStatus = "PENDING"
	AttestationCompleted   AttestationStatus = "COMPLETED"
)

// Order is one meal-provisioning record for a field team on a date.
// The attestation status is set once at creation from the meal type and
// only ever transitions PENDING -> COMPLETED.
type Order struct {
	ID             int64     `db:"id"`
	WithdrawalDate time.Time `db:"withdrawal_date"`
	SubmittedAt    time.Time `db:"submitted_at"`
	Project        string    `db:"project"`
	Coordinator    string    `db:"coordinator"`
	Supervisor     string    `db:"supervisor"`
	TeamCode       string    `db:"team_code"`
	LeaderName     string    `db:"leader_name"`
	Farm           string    `db:"farm"`
	MealType       string    `db:"meal_type"`
	ServiceCity    string    `db:"service_city"`
	Supplier       string    `db:"supplier"`
	UnitPrice      float64   `db:"unit_price"`
	WorkerNames    string    `db:"worker_names"`
	TotalWorkers   int       `db:"total_workers"`
	ToHire         int       `db:"to_hire"`
	CardHolder     string    `db:"card_holder"`
	CardNumber     string    `db:"card_number"`
	Lodged         string    `db:"lodged"`
	HotelName      string    `db:"hotel_name"`
	NightlyRate    float64   `db:"nightly_rate"`
	TotalAmount    float64   `db:"total_amount"`
	ApprovedBy     string    `db:"approved_by"`
	Notes          string    `db:"notes"`
	Closing        string    `db:"closing"`

	AttestationStatus AttestationStatus `db:"attestation_status"`
	WithdrawalTemp    *float64          `db:"withdrawal_temp"`
	ConsumptionTemp   *float64          `db:"consumption_temp"`
	WithdrawalTime    *time.Time        `db:"withdrawal_time"`
	ConsumptionTime   *time.Time        `db:"consumption_time"`
	AttestationNotes  *string           `db:"attestation_notes"`
	WithdrawalPhoto   *string           `db:"withdrawal_photo"`
	ConsumptionPhoto  *string           `db:"consumption_photo"`
}

// AttestationUpdate carries the fields written by a temperature
// attestation. Times are nil when the submission omitted them or the
// values could not be parsed.
type AttestationUpdate struct {
	WithdrawalTemp  float64
	ConsumptionTemp float64
	WithdrawalTime  *time.Time
	ConsumptionTime *time.Time
	Notes           string
}

// PendingItem is a display-ready row of the attestation worklist.
type PendingItem struct {
	ID          int64   `json:"id"`
	MealName    string  `json:"mealName"`
	Date        string  `json:"date"`
	Employees   string  `json:"employees"`
	Supplier    string  `json:"supplier"`
	City        string  `json:"city"`
	Requestor   string  `json:"requestor"`
	Farm        string  `json:"farm"`
	Phase       string  `json:"phase"`
	TotalAmount float64 `json:"valor_total"`
}
