package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyhub/backend/internal/domain/shared"
)

// Status of a maintenance charge
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusPaid
}

// Maintenance is a periodic charge against a flat
type Maintenance struct {
	ID               uuid.UUID
	FlatID           uuid.UUID
	Amount           decimal.Decimal
	DueDate          time.Time
	CycleYear        int
	CycleMonth       int
	Status           Status
	Notes            string
	SlipNumber       string
	ReceiptGenerated bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewMaintenance builds a charge; the billing cycle is derived from the due date
func NewMaintenance(flatID uuid.UUID, amount decimal.Decimal, due time.Time, notes string) (*Maintenance, error) {
	if flatID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Flat is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Amount must be greater than zero")
	}
	if due.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Please provide a valid due date")
	}
	now := time.Now()
	m := &Maintenance{
		ID:        uuid.New(),
		FlatID:    flatID,
		Amount:    amount,
		Status:    StatusPending,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.Reschedule(due)
	return m, nil
}

// Reschedule moves the due date and the billing cycle with it
func (m *Maintenance) Reschedule(due time.Time) {
	m.DueDate = due
	m.CycleYear = due.Year()
	m.CycleMonth = int(due.Month())
}

// NeedsSlip reports whether paying this charge must issue a new slip number.
// A charge that already carries one never asks the sequencer again.
func (m *Maintenance) NeedsSlip() bool {
	return m.SlipNumber == ""
}

// MarkPaid records payment and attaches the slip. Calling it on a charge that
// already has a slip keeps the original number.
func (m *Maintenance) MarkPaid(slip SlipNumber) {
	m.Status = StatusPaid
	if m.NeedsSlip() && !slip.IsZero() {
		m.SlipNumber = slip.String()
		m.ReceiptGenerated = true
	}
	m.UpdatedAt = time.Now()
}

// Slip is the registry entry written when a receipt is issued
type Slip struct {
	ID            uuid.UUID
	SocietyID     uuid.UUID
	FlatID        uuid.UUID
	OwnerID       uuid.UUID
	MaintenanceID uuid.UUID
	SlipNumber    string
	Month         int
	Year          int
	Amount        decimal.Decimal
	CreatedAt     time.Time
}

// NewSlip records the receipt for a paid charge
func NewSlip(societyID, ownerID uuid.UUID, m *Maintenance) *Slip {
	return &Slip{
		ID:            uuid.New(),
		SocietyID:     societyID,
		FlatID:        m.FlatID,
		OwnerID:       ownerID,
		MaintenanceID: m.ID,
		SlipNumber:    m.SlipNumber,
		Month:         m.CycleMonth,
		Year:          m.CycleYear,
		Amount:        m.Amount,
		CreatedAt:     time.Now(),
	}
}

// MonthlyReport aggregates the charges due in one month
type MonthlyReport struct {
	Year      int             `json:"year"`
	Month     int             `json:"month"`
	Total     decimal.Decimal `json:"total"`
	Collected decimal.Decimal `json:"collected"`
	Pending   decimal.Decimal `json:"pending"`
	Records   []Maintenance   `json:"records"`
}

// BuildMonthlyReport sums the given charges
func BuildMonthlyReport(year, month int, records []Maintenance) MonthlyReport {
	r := MonthlyReport{Year: year, Month: month, Total: decimal.Zero, Collected: decimal.Zero, Records: records}
	for _, m := range records {
		r.Total = r.Total.Add(m.Amount)
		if m.Status == StatusPaid {
			r.Collected = r.Collected.Add(m.Amount)
		}
	}
	r.Pending = r.Total.Sub(r.Collected)
	return r
}
