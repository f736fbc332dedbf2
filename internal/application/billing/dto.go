package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyhub/backend/internal/domain/billing"
)

// CreateMaintenanceInput describes a new charge
type CreateMaintenanceInput struct {
	FlatID  uuid.UUID
	Amount  decimal.Decimal
	DueDate time.Time
	Status  billing.Status
	Notes   string
}

// UpdateMaintenanceInput replaces the fields of a charge. Zero values keep
// the stored value.
type UpdateMaintenanceInput struct {
	Amount  decimal.Decimal
	DueDate time.Time
	Status  billing.Status
	Notes   *string
}

// ListFilter narrows listings to one billing cycle
type ListFilter struct {
	Year    int
	Month   int
	SortBy  string
	SortDir string
}

// MaintenanceResponse is the API view of a charge
type MaintenanceResponse struct {
	ID               uuid.UUID       `json:"id"`
	FlatID           uuid.UUID       `json:"flat_id"`
	Amount           decimal.Decimal `json:"amount"`
	DueDate          time.Time       `json:"due_date"`
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	Status           string          `json:"status"`
	Notes            string          `json:"notes,omitempty"`
	SlipNumber       string          `json:"slip_number,omitempty"`
	ReceiptGenerated bool            `json:"receipt_generated"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// SlipResponse is the API view of an issued receipt
type SlipResponse struct {
	ID            uuid.UUID       `json:"id"`
	SlipNumber    string          `json:"slip_number"`
	FlatID        uuid.UUID       `json:"flat_id"`
	OwnerID       uuid.UUID       `json:"owner_id"`
	MaintenanceID uuid.UUID       `json:"maintenance_id"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

// MonthlyReportResponse totals one month of charges
type MonthlyReportResponse struct {
	Year      int                   `json:"year"`
	Month     int                   `json:"month"`
	Total     decimal.Decimal       `json:"total"`
	Collected decimal.Decimal       `json:"collected"`
	Pending   decimal.Decimal       `json:"pending"`
	Records   []MaintenanceResponse `json:"records"`
}

// ToMaintenanceResponse converts a charge
func ToMaintenanceResponse(m *billing.Maintenance) MaintenanceResponse {
	return MaintenanceResponse{
		ID: m.ID, FlatID: m.FlatID, Amount: m.Amount, DueDate: m.DueDate,
		Year: m.CycleYear, Month: m.CycleMonth, Status: string(m.Status), Notes: m.Notes,
		SlipNumber: m.SlipNumber, ReceiptGenerated: m.ReceiptGenerated,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func toMaintenanceResponses(items []billing.Maintenance) []MaintenanceResponse {
	out := make([]MaintenanceResponse, len(items))
	for i := range items {
		out[i] = ToMaintenanceResponse(&items[i])
	}
	return out
}

func toSlipResponse(s *billing.Slip) SlipResponse {
	return SlipResponse{
		ID: s.ID, SlipNumber: s.SlipNumber, FlatID: s.FlatID, OwnerID: s.OwnerID,
		MaintenanceID: s.MaintenanceID, Month: s.Month, Year: s.Year, Amount: s.Amount, CreatedAt: s.CreatedAt,
	}
}
