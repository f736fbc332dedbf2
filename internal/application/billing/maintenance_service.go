// Package billing issues maintenance charges and the receipt slips that
// record their payment.
package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/application/property"
	"github.com/societyhub/backend/internal/application/scope"
	"github.com/societyhub/backend/internal/domain/audit"
	"github.com/societyhub/backend/internal/domain/billing"
	"github.com/societyhub/backend/internal/domain/notification"
	"github.com/societyhub/backend/internal/domain/resident"
	"github.com/societyhub/backend/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const maintenanceCollection = "maintenance"

// Notifier fans an event out after the triggering write has committed
type Notifier interface {
	NotifyAfterCommit(ctx context.Context, event notification.Event, rules ...notification.Rule) int
}

// MaintenanceService handles maintenance charges
type MaintenanceService struct {
	sequencer billing.SlipSequencer
	notifier  Notifier
	printer   *message.Printer
	logger    *zap.Logger
}

// NewMaintenanceService creates a new MaintenanceService
func NewMaintenanceService(sequencer billing.SlipSequencer, notifier Notifier, logger *zap.Logger) *MaintenanceService {
	return &MaintenanceService{
		sequencer: sequencer,
		notifier:  notifier,
		printer:   message.NewPrinter(language.English),
		logger:    logger,
	}
}

// Create adds a charge for a flat. A charge created as paid gets its slip
// immediately.
func (s *MaintenanceService) Create(ctx context.Context, t scope.Tenant, actor scope.Actor, input CreateMaintenanceInput) (*MaintenanceResponse, error) {
	if input.Status != "" && !input.Status.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid status")
	}
	m, err := billing.NewMaintenance(input.FlatID, input.Amount, input.DueDate, input.Notes)
	if err != nil {
		return nil, err
	}
	flat, err := t.Store.Flats().FindByID(ctx, input.FlatID)
	if err != nil {
		return nil, err
	}

	var issued bool
	if input.Status == billing.StatusPaid {
		slip, err := s.issue(ctx, t, m)
		if err != nil {
			return nil, err
		}
		m.MarkPaid(slip)
		issued = true
	}

	err = t.Store.Execute(ctx, func(repos scope.Repositories) error {
		if err := repos.Maintenance().Create(ctx, m); err != nil {
			return err
		}
		if issued {
			if err := repos.Slips().Create(ctx, billing.NewSlip(t.ID(), slipOwner(flat), m)); err != nil {
				return err
			}
		}
		return repos.Audit().Record(ctx, audit.NewEntry(audit.ActionCreate, maintenanceCollection, m.ID, actor.UserID,
			map[string]any{"flat_id": flat.ID.String(), "amount": m.Amount.String(), "status": string(m.Status)}))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Maintenance created",
		zap.String("society_id", t.Key()),
		zap.String("maintenance_id", m.ID.String()),
		zap.String("slip_number", m.SlipNumber))
	s.notify(ctx, t, actor, flat, m)

	resp := ToMaintenanceResponse(m)
	return &resp, nil
}

// Update replaces the fields of a charge. Moving it to paid issues a slip
// only when the charge has none yet. The pending to paid move is claimed
// with a conditional write first, so concurrent payers of one charge ask
// the sequencer at most once between them.
func (s *MaintenanceService) Update(ctx context.Context, t scope.Tenant, actor scope.Actor, id uuid.UUID, input UpdateMaintenanceInput) (*MaintenanceResponse, error) {
	if input.Status != "" && !input.Status.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid status")
	}
	if input.Amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Amount must be greater than zero")
	}

	m, err := t.Store.Maintenance().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	flat, err := t.Store.Flats().FindByID(ctx, m.FlatID)
	if err != nil {
		return nil, err
	}

	wasPaid := m.Status == billing.StatusPaid
	if input.Amount.IsPositive() {
		m.Amount = input.Amount
	}
	if !input.DueDate.IsZero() {
		m.Reschedule(input.DueDate)
	}
	if input.Notes != nil {
		m.Notes = *input.Notes
	}
	m.UpdatedAt = time.Now()

	var claimed bool
	if input.Status == billing.StatusPaid && !wasPaid {
		if claimed, err = s.claim(ctx, t, m); err != nil {
			return nil, err
		}
	}

	var issued bool
	switch input.Status {
	case billing.StatusPaid:
		if claimed && m.NeedsSlip() {
			slip, err := s.issue(ctx, t, m)
			if err != nil {
				s.release(ctx, t, m.ID)
				return nil, err
			}
			m.MarkPaid(slip)
			issued = true
		} else {
			m.MarkPaid(billing.SlipNumber{})
		}
	case billing.StatusPending:
		// The slip stays attached so paying again reuses it.
		m.Status = billing.StatusPending
	}

	err = t.Store.Execute(ctx, func(repos scope.Repositories) error {
		if err := repos.Maintenance().Update(ctx, m); err != nil {
			return err
		}
		if issued {
			attached, err := repos.Maintenance().AttachSlip(ctx, m.ID, m.SlipNumber)
			if err != nil {
				return err
			}
			if !attached {
				stored, err := repos.Maintenance().FindByID(ctx, m.ID)
				if err != nil {
					return err
				}
				s.logger.Warn("Charge already carries a slip, discarding the new number",
					zap.String("society_id", t.Key()),
					zap.String("maintenance_id", m.ID.String()),
					zap.String("discarded", m.SlipNumber),
					zap.String("slip_number", stored.SlipNumber))
				m.SlipNumber, m.ReceiptGenerated = stored.SlipNumber, stored.ReceiptGenerated
				issued = false
			} else if err := repos.Slips().Create(ctx, billing.NewSlip(t.ID(), slipOwner(flat), m)); err != nil {
				return err
			}
		}
		return repos.Audit().Record(ctx, audit.NewEntry(audit.ActionUpdate, maintenanceCollection, m.ID, actor.UserID,
			map[string]any{"status": string(m.Status), "slip_number": m.SlipNumber}))
	})
	if err != nil {
		if claimed {
			s.release(ctx, t, m.ID)
		}
		return nil, err
	}

	if claimed {
		s.logger.Info("Maintenance paid",
			zap.String("society_id", t.Key()),
			zap.String("maintenance_id", m.ID.String()),
			zap.String("slip_number", m.SlipNumber),
			zap.Bool("slip_issued", issued))
		s.notify(ctx, t, actor, flat, m)
	}

	resp := ToMaintenanceResponse(m)
	return &resp, nil
}

// Pay marks a charge as paid
func (s *MaintenanceService) Pay(ctx context.Context, t scope.Tenant, actor scope.Actor, id uuid.UUID) (*MaintenanceResponse, error) {
	return s.Update(ctx, t, actor, id, UpdateMaintenanceInput{Status: billing.StatusPaid})
}

// claim moves m from pending to paid in the store and refreshes its slip
// from the stored row. It reports false when another request got there
// first, leaving m with that request's status and slip.
func (s *MaintenanceService) claim(ctx context.Context, t scope.Tenant, m *billing.Maintenance) (bool, error) {
	claimed, err := t.Store.Maintenance().TransitionStatus(ctx, m.ID, billing.StatusPending, billing.StatusPaid)
	if err != nil {
		return false, err
	}
	stored, err := t.Store.Maintenance().FindByID(ctx, m.ID)
	if err != nil {
		return false, err
	}
	m.SlipNumber, m.ReceiptGenerated = stored.SlipNumber, stored.ReceiptGenerated
	if !claimed {
		m.Status = stored.Status
	}
	return claimed, nil
}

// release hands a claimed charge back to pending after a failed payment
func (s *MaintenanceService) release(ctx context.Context, t scope.Tenant, id uuid.UUID) {
	if _, err := t.Store.Maintenance().TransitionStatus(ctx, id, billing.StatusPaid, billing.StatusPending); err != nil {
		s.logger.Error("Failed to release payment claim",
			zap.String("society_id", t.Key()),
			zap.String("maintenance_id", id.String()),
			zap.Error(err))
	}
}

// issue asks the sequencer for the next number of the charge's cycle year
func (s *MaintenanceService) issue(ctx context.Context, t scope.Tenant, m *billing.Maintenance) (billing.SlipNumber, error) {
	slip, err := s.sequencer.Next(ctx, t.Key(), m.CycleYear)
	if err != nil {
		s.logger.Error("Failed to issue slip number",
			zap.String("society_id", t.Key()),
			zap.String("maintenance_id", m.ID.String()),
			zap.Error(err))
		return billing.SlipNumber{}, err
	}
	return slip, nil
}

// Delete removes a charge. Issued slips stay in the registry.
func (s *MaintenanceService) Delete(ctx context.Context, t scope.Tenant, actor scope.Actor, id uuid.UUID) error {
	return t.Store.Execute(ctx, func(repos scope.Repositories) error {
		if err := repos.Maintenance().Delete(ctx, id); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.NewEntry(audit.ActionDelete, maintenanceCollection, id, actor.UserID, nil))
	})
}

// Get returns one charge the caller may see
func (s *MaintenanceService) Get(ctx context.Context, t scope.Tenant, actor scope.Actor, id uuid.UUID) (*MaintenanceResponse, error) {
	m, err := t.Store.Maintenance().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	flat, err := t.Store.Flats().FindByID(ctx, m.FlatID)
	if err != nil {
		return nil, err
	}
	if !property.CanSeeFlat(actor, flat) {
		return nil, shared.ErrForbidden
	}
	resp := ToMaintenanceResponse(m)
	return &resp, nil
}

// List returns charges scoped by role: admins see all, owners their flats,
// tenants the flats they rent.
func (s *MaintenanceService) List(ctx context.Context, t scope.Tenant, actor scope.Actor, filter ListFilter) ([]MaintenanceResponse, error) {
	ids, err := property.VisibleFlatIDs(ctx, t.Store, actor)
	if err != nil {
		return nil, err
	}
	items, err := t.Store.Maintenance().List(ctx, billing.MaintenanceFilter{
		FlatIDs: ids,
		Year:    filter.Year,
		Month:   filter.Month,
		SortBy:  filter.SortBy,
		SortDir: filter.SortDir,
	})
	if err != nil {
		return nil, err
	}
	return toMaintenanceResponses(items), nil
}

// ByFlat returns the charges of one flat
func (s *MaintenanceService) ByFlat(ctx context.Context, t scope.Tenant, actor scope.Actor, flatID uuid.UUID) ([]MaintenanceResponse, error) {
	flat, err := t.Store.Flats().FindByID(ctx, flatID)
	if err != nil {
		return nil, err
	}
	if !property.CanSeeFlat(actor, flat) {
		return nil, shared.ErrForbidden
	}
	items, err := t.Store.Maintenance().List(ctx, billing.MaintenanceFilter{FlatIDs: []uuid.UUID{flatID}})
	if err != nil {
		return nil, err
	}
	return toMaintenanceResponses(items), nil
}

// Slips lists issued receipts of the flats visible to the caller
func (s *MaintenanceService) Slips(ctx context.Context, t scope.Tenant, actor scope.Actor, filter ListFilter) ([]SlipResponse, error) {
	ids, err := property.VisibleFlatIDs(ctx, t.Store, actor)
	if err != nil {
		return nil, err
	}
	slips, err := t.Store.Slips().List(ctx, billing.SlipFilter{SocietyID: t.ID(), FlatIDs: ids, Year: filter.Year, Month: filter.Month})
	if err != nil {
		return nil, err
	}
	out := make([]SlipResponse, len(slips))
	for i := range slips {
		out[i] = toSlipResponse(&slips[i])
	}
	return out, nil
}

// MonthlyReport totals the charges of one billing cycle
func (s *MaintenanceService) MonthlyReport(ctx context.Context, t scope.Tenant, year, month int) (*MonthlyReportResponse, error) {
	if year <= 0 || month < 1 || month > 12 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Valid year and month are required")
	}
	items, err := t.Store.Maintenance().List(ctx, billing.MaintenanceFilter{Year: year, Month: month})
	if err != nil {
		return nil, err
	}
	r := billing.BuildMonthlyReport(year, month, items)
	return &MonthlyReportResponse{
		Year: r.Year, Month: r.Month, Total: r.Total, Collected: r.Collected, Pending: r.Pending,
		Records: toMaintenanceResponses(r.Records),
	}, nil
}

func (s *MaintenanceService) notify(ctx context.Context, t scope.Tenant, actor scope.Actor, flat *resident.Flat, m *billing.Maintenance) {
	if s.notifier == nil {
		return
	}
	id := m.ID
	event := notification.Event{
		Society:  t.Key(),
		Actor:    actor.UserID,
		Category: notification.CategoryMaintenance,
		Ref:      notification.Ref{MaintenanceID: &id},
	}
	amount := number.Decimal(m.Amount.InexactFloat64(), number.Scale(2))
	period := time.Month(m.CycleMonth).String()
	if m.Status == billing.StatusPaid {
		event.Title = "Maintenance payment received"
		event.Message = s.printer.Sprintf("Payment of %v for flat %s (%s %d) received. Slip %s.",
			amount, flat.FlatNumber, period, m.CycleYear, m.SlipNumber)
	} else {
		event.Title = "Maintenance due"
		event.Message = s.printer.Sprintf("Maintenance of %v for flat %s (%s %d) is due on %s.",
			amount, flat.FlatNumber, period, m.CycleYear, m.DueDate.Format("02 Jan 2006"))
	}
	s.notifier.NotifyAfterCommit(ctx, event, notification.FlatOccupants(flat.ID))
}

// slipOwner is the flat owner, else the tenant, else nobody
func slipOwner(flat *resident.Flat) uuid.UUID {
	switch {
	case flat.OwnerID != nil:
		return *flat.OwnerID
	case flat.TenantID != nil:
		return *flat.TenantID
	}
	return uuid.Nil
}
