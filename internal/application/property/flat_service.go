// Package property manages the flats of a society and the people in them.
package property

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/application/scope"
	"github.com/societyhub/backend/internal/domain/audit"
	"github.com/societyhub/backend/internal/domain/resident"
	"github.com/societyhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const flatCollection = "flats"

// FlatService handles flat operations
type FlatService struct {
	logger *zap.Logger
}

// NewFlatService creates a new FlatService
func NewFlatService(logger *zap.Logger) *FlatService {
	return &FlatService{logger: logger}
}

// Create adds a vacant flat
func (s *FlatService) Create(ctx context.Context, t scope.Tenant, actor scope.Actor, input CreateFlatInput) (*FlatResponse, error) {
	flat, err := resident.NewFlat(input.FlatNumber, input.AreaSqFt)
	if err != nil {
		return nil, err
	}
	flat.Tower, flat.Floor, flat.Block, flat.Notes = input.Tower, input.Floor, input.Block, input.Notes

	err = t.Store.Execute(ctx, func(repos scope.Repositories) error {
		if err := repos.Flats().Create(ctx, flat); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.NewEntry(audit.ActionCreate, flatCollection, flat.ID, actor.UserID,
			map[string]any{"flat_number": flat.FlatNumber}))
	})
	if err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Flat number already exists")
		}
		return nil, err
	}

	s.logger.Info("Flat created", zap.String("society_id", t.Key()), zap.String("flat_number", flat.FlatNumber))
	resp := ToFlatResponse(flat)
	return &resp, nil
}

// List returns flats visible to the caller: every flat for admins, the
// flats they own or rent for residents.
func (s *FlatService) List(ctx context.Context, t scope.Tenant, actor scope.Actor) ([]FlatResponse, error) {
	flats, err := VisibleFlats(ctx, t.Store, actor)
	if err != nil {
		return nil, err
	}
	out := make([]FlatResponse, len(flats))
	for i := range flats {
		out[i] = ToFlatResponse(&flats[i])
	}
	return out, nil
}

// Get returns one flat
func (s *FlatService) Get(ctx context.Context, t scope.Tenant, actor scope.Actor, id uuid.UUID) (*FlatResponse, error) {
	flat, err := t.Store.Flats().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanSeeFlat(actor, flat) {
		return nil, shared.ErrForbidden
	}
	resp := ToFlatResponse(flat)
	return &resp, nil
}

// Update replaces the descriptive fields of a flat
func (s *FlatService) Update(ctx context.Context, t scope.Tenant, actor scope.Actor, id uuid.UUID, input UpdateFlatInput) (*FlatResponse, error) {
	flat, err := t.Store.Flats().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if number := strings.TrimSpace(input.FlatNumber); number != "" {
		flat.FlatNumber = number
	}
	if input.AreaSqFt.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Area cannot be negative")
	}
	flat.AreaSqFt = input.AreaSqFt
	flat.Tower, flat.Floor, flat.Block, flat.Notes = input.Tower, input.Floor, input.Block, input.Notes
	flat.UpdatedAt = time.Now()

	err = t.Store.Execute(ctx, func(repos scope.Repositories) error {
		if err := repos.Flats().Update(ctx, flat); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.NewEntry(audit.ActionUpdate, flatCollection, flat.ID, actor.UserID,
			map[string]any{"flat_number": flat.FlatNumber}))
	})
	if err != nil {
		return nil, err
	}
	resp := ToFlatResponse(flat)
	return &resp, nil
}

// Delete removes a flat and its history
func (s *FlatService) Delete(ctx context.Context, t scope.Tenant, actor scope.Actor, id uuid.UUID) error {
	return t.Store.Execute(ctx, func(repos scope.Repositories) error {
		if err := repos.Flats().Delete(ctx, id); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.NewEntry(audit.ActionDelete, flatCollection, id, actor.UserID, nil))
	})
}

// TransferOwnership closes the current ownership period and opens one for the new owner
func (s *FlatService) TransferOwnership(ctx context.Context, t scope.Tenant, actor scope.Actor, flatID uuid.UUID, input TransferInput) (*FlatResponse, error) {
	return s.transfer(ctx, t, actor, flatID, resident.HistoryOwnership, resident.RoleOwner, input)
}

// ChangeTenant closes the current tenancy period and opens one for the new tenant
func (s *FlatService) ChangeTenant(ctx context.Context, t scope.Tenant, actor scope.Actor, flatID uuid.UUID, input TransferInput) (*FlatResponse, error) {
	return s.transfer(ctx, t, actor, flatID, resident.HistoryTenancy, resident.RoleTenant, input)
}

func (s *FlatService) transfer(ctx context.Context, t scope.Tenant, actor scope.Actor, flatID uuid.UUID, kind resident.HistoryKind, role resident.Role, input TransferInput) (*FlatResponse, error) {
	user, err := t.Store.Users().FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user.Role != role {
		return nil, shared.NewDomainError("INVALID_INPUT", "User must have the "+string(role)+" role")
	}

	addedBy := actor.UserID
	rec := &resident.OccupancyRecord{
		Kind:      kind,
		FlatID:    flatID,
		UserID:    user.ID,
		StartDate: time.Now(),
		Reason:    input.Reason,
		AddedBy:   &addedBy,
	}

	var flat *resident.Flat
	err = t.Store.Execute(ctx, func(repos scope.Repositories) error {
		if err := repos.Flats().Transfer(ctx, rec); err != nil {
			return err
		}
		user.FlatID = &flatID
		user.UpdatedAt = time.Now()
		if err := repos.Users().Update(ctx, user); err != nil {
			return err
		}
		if err := repos.Audit().Record(ctx, audit.NewEntry(audit.ActionUpdate, flatCollection, flatID, actor.UserID,
			map[string]any{"transfer": string(kind), "user_id": user.ID.String()})); err != nil {
			return err
		}
		flat, err = repos.Flats().FindByID(ctx, flatID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Flat occupancy changed",
		zap.String("society_id", t.Key()),
		zap.String("flat_id", flatID.String()),
		zap.String("kind", string(kind)))
	resp := ToFlatResponse(flat)
	return &resp, nil
}

// History lists occupancy periods of a flat, newest first
func (s *FlatService) History(ctx context.Context, t scope.Tenant, actor scope.Actor, flatID uuid.UUID, kind resident.HistoryKind) ([]HistoryResponse, error) {
	flat, err := t.Store.Flats().FindByID(ctx, flatID)
	if err != nil {
		return nil, err
	}
	if !CanSeeFlat(actor, flat) {
		return nil, shared.ErrForbidden
	}
	records, err := t.Store.Flats().History(ctx, flatID, kind)
	if err != nil {
		return nil, err
	}
	out := make([]HistoryResponse, len(records))
	for i := range records {
		out[i] = toHistoryResponse(&records[i])
	}
	return out, nil
}

// VisibleFlats returns the flats the caller may act on
func VisibleFlats(ctx context.Context, repos scope.Repositories, actor scope.Actor) ([]resident.Flat, error) {
	switch actor.Role {
	case resident.RoleAdmin:
		return repos.Flats().List(ctx)
	case resident.RoleOwner:
		return repos.Flats().ListByOwner(ctx, actor.UserID)
	case resident.RoleTenant:
		return repos.Flats().ListByTenant(ctx, actor.UserID)
	}
	return nil, shared.ErrForbidden
}

// VisibleFlatIDs is VisibleFlats reduced to ids. Admins get nil, meaning no restriction.
func VisibleFlatIDs(ctx context.Context, repos scope.Repositories, actor scope.Actor) ([]uuid.UUID, error) {
	if actor.IsAdmin() {
		return nil, nil
	}
	flats, err := VisibleFlats(ctx, repos, actor)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(flats))
	for i := range flats {
		ids[i] = flats[i].ID
	}
	return ids, nil
}

// CanSeeFlat reports whether the caller is an admin or occupies the flat
func CanSeeFlat(actor scope.Actor, flat *resident.Flat) bool {
	if actor.IsAdmin() {
		return true
	}
	for _, id := range flat.Occupants() {
		if id == actor.UserID {
			return true
		}
	}
	return actor.FlatID != nil && *actor.FlatID == flat.ID
}
