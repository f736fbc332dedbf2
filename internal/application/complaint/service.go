// Package complaint handles resident complaints and their comment threads.
package complaint

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/application/scope"
	"github.com/societyhub/backend/internal/domain/audit"
	"github.com/societyhub/backend/internal/domain/complaint"
	"github.com/societyhub/backend/internal/domain/notification"
	"github.com/societyhub/backend/internal/domain/resident"
	"github.com/societyhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const complaintCollection = "complaints"

// Notifier fans an event out after the triggering write has committed
type Notifier interface {
	NotifyAfterCommit(ctx context.Context, event notification.Event, rules ...notification.Rule) int
}

// Service handles complaint operations
type Service struct {
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates a new complaint Service
func NewService(notifier Notifier, logger *zap.Logger) *Service {
	return &Service{notifier: notifier, logger: logger}
}

// Create opens a complaint. Residents raise it for their own flat, admins
// for the flat they name.
func (s *Service) Create(ctx context.Context, t scope.Tenant, actor scope.Actor, input CreateComplaintInput) (*ComplaintResponse, error) {
	var flatID uuid.UUID
	switch {
	case actor.IsAdmin():
		if input.FlatID == nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Flat is required")
		}
		flatID = *input.FlatID
	case actor.FlatID != nil:
		flatID = *actor.FlatID
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "You are not assigned to a flat")
	}

	if _, err := t.Store.Flats().FindByID(ctx, flatID); err != nil {
		return nil, err
	}
	c, err := complaint.NewComplaint(input.Title, input.Description, actor.UserID, flatID, input.Category, input.Priority, input.IsPrivate)
	if err != nil {
		return nil, err
	}

	err = t.Store.Execute(ctx, func(repos scope.Repositories) error {
		if err := repos.Complaints().Create(ctx, c); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.NewEntry(audit.ActionCreate, complaintCollection, c.ID, actor.UserID,
			map[string]any{"flat_id": flatID.String(), "category": string(c.Category)}))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Complaint created",
		zap.String("society_id", t.Key()),
		zap.String("complaint_id", c.ID.String()))

	rules := []notification.Rule{notification.Admins()}
	if actor.IsAdmin() {
		rules = []notification.Rule{notification.FlatMembers(flatID), notification.Admins()}
	}
	s.notify(ctx, t, actor, c, notification.CategoryComplaintCreated, "New complaint", c.Title, rules...)

	resp := ToComplaintResponse(c)
	return &resp, nil
}

// List returns every complaint for admins. Other users see complaints they
// raised and those of their flat.
func (s *Service) List(ctx context.Context, t scope.Tenant, actor scope.Actor) ([]ComplaintResponse, error) {
	var filter *complaint.Filter
	if !actor.IsAdmin() {
		uid := actor.UserID
		filter = &complaint.Filter{CreatedBy: &uid, FlatID: actor.FlatID}
	}
	items, err := t.Store.Complaints().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]ComplaintResponse, 0, len(items))
	for i := range items {
		if canSee(actor, &items[i]) {
			out = append(out, ToComplaintResponse(&items[i]))
		}
	}
	return out, nil
}

// Get returns one complaint the caller may see
func (s *Service) Get(ctx context.Context, t scope.Tenant, actor scope.Actor, id uuid.UUID) (*ComplaintResponse, error) {
	c, err := s.load(ctx, t, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToComplaintResponse(c)
	return &resp, nil
}

// UpdateStatus moves a complaint to a new status. Only admins and users
// assigned as admins of the complaint may do so.
func (s *Service) UpdateStatus(ctx context.Context, t scope.Tenant, actor scope.Actor, id uuid.UUID, status complaint.Status) (*ComplaintResponse, error) {
	c, err := t.Store.Complaints().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !c.IsAssignedAdmin(actor.UserID) {
		return nil, shared.ErrForbidden
	}
	previous := c.Status
	if err := c.ChangeStatus(status, actor.UserID); err != nil {
		return nil, err
	}

	err = t.Store.Execute(ctx, func(repos scope.Repositories) error {
		if err := repos.Complaints().Update(ctx, c); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.NewEntry(audit.ActionUpdate, complaintCollection, c.ID, actor.UserID,
			map[string]any{"from": string(previous), "to": string(c.Status)}))
	})
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Your complaint %q is now %s", c.Title, c.Status.Label())
	s.notify(ctx, t, actor, c, notification.CategoryComplaintStatus, "Complaint status updated", msg,
		notification.Users("creator", c.CreatedBy), notification.FlatMembers(c.FlatID))

	resp := ToComplaintResponse(c)
	return &resp, nil
}

// Assign replaces the admins and users working on a complaint
func (s *Service) Assign(ctx context.Context, t scope.Tenant, actor scope.Actor, id uuid.UUID, input AssignInput) (*ComplaintResponse, error) {
	c, err := t.Store.Complaints().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	admins, users := uniq(input.Admins), uniq(input.Users)
	for _, uid := range admins {
		u, err := t.Store.Users().FindByID(ctx, uid)
		if err != nil {
			return nil, err
		}
		if u.Role != resident.RoleAdmin {
			return nil, shared.NewDomainError("INVALID_INPUT", "Assigned admins must have the admin role")
		}
	}
	for _, uid := range users {
		if _, err := t.Store.Users().FindByID(ctx, uid); err != nil {
			return nil, err
		}
	}
	c.Assign(admins, users, actor.UserID)

	err = t.Store.Execute(ctx, func(repos scope.Repositories) error {
		if err := repos.Complaints().Update(ctx, c); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.NewEntry(audit.ActionUpdate, complaintCollection, c.ID, actor.UserID,
			map[string]any{"assigned_admins": len(admins), "assigned_users": len(users)}))
	})
	if err != nil {
		return nil, err
	}
	resp := ToComplaintResponse(c)
	return &resp, nil
}

// Delete removes a complaint and its comments. Admins and the creator may delete.
func (s *Service) Delete(ctx context.Context, t scope.Tenant, actor scope.Actor, id uuid.UUID) error {
	c, err := t.Store.Complaints().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && c.CreatedBy != actor.UserID {
		return shared.ErrForbidden
	}
	return t.Store.Execute(ctx, func(repos scope.Repositories) error {
		if err := repos.Complaints().Delete(ctx, id); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.NewEntry(audit.ActionDelete, complaintCollection, id, actor.UserID, nil))
	})
}

// Comments lists the thread of a complaint, oldest first
func (s *Service) Comments(ctx context.Context, t scope.Tenant, actor scope.Actor, id uuid.UUID) ([]CommentResponse, error) {
	if _, err := s.load(ctx, t, actor, id); err != nil {
		return nil, err
	}
	items, err := t.Store.Complaints().Comments(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]CommentResponse, len(items))
	for i := range items {
		out[i] = toCommentResponse(&items[i])
	}
	return out, nil
}

// AddComment appends to the thread and tells the creator, and the admins
// when a resident wrote it.
func (s *Service) AddComment(ctx context.Context, t scope.Tenant, actor scope.Actor, id uuid.UUID, message string) (*CommentResponse, error) {
	c, err := s.load(ctx, t, actor, id)
	if err != nil {
		return nil, err
	}
	comment, err := complaint.NewComment(c.ID, actor.UserID, message)
	if err != nil {
		return nil, err
	}
	if err := t.Store.Complaints().AddComment(ctx, comment); err != nil {
		return nil, err
	}

	rules := []notification.Rule{notification.Users("creator", c.CreatedBy)}
	if !actor.IsAdmin() {
		rules = append(rules, notification.Admins())
	}
	s.notify(ctx, t, actor, c, notification.CategoryComplaintComment, "New comment on "+c.Title, comment.Preview(), rules...)

	resp := toCommentResponse(comment)
	return &resp, nil
}

func (s *Service) load(ctx context.Context, t scope.Tenant, actor scope.Actor, id uuid.UUID) (*complaint.Complaint, error) {
	c, err := t.Store.Complaints().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSee(actor, c) {
		return nil, shared.ErrForbidden
	}
	return c, nil
}

func (s *Service) notify(ctx context.Context, t scope.Tenant, actor scope.Actor, c *complaint.Complaint, category notification.Category, title, message string, rules ...notification.Rule) {
	if s.notifier == nil {
		return
	}
	id := c.ID
	s.notifier.NotifyAfterCommit(ctx, notification.Event{
		Society:  t.Key(),
		Actor:    actor.UserID,
		Category: category,
		Title:    title,
		Message:  message,
		Ref:      notification.Ref{ComplaintID: &id},
	}, rules...)
}

// canSee: admins, the creator and assignees always; flat members unless private
func canSee(actor scope.Actor, c *complaint.Complaint) bool {
	if actor.IsAdmin() || c.CreatedBy == actor.UserID || c.IsAssignedAdmin(actor.UserID) ||
		slices.Contains(c.AssignedUsers, actor.UserID) {
		return true
	}
	return !c.IsPrivate && actor.FlatID != nil && *actor.FlatID == c.FlatID
}

func uniq(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id != uuid.Nil && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
