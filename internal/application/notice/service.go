// Package notice sends admin notices to residents.
package notice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/application/scope"
	"github.com/societyhub/backend/internal/domain/audit"
	"github.com/societyhub/backend/internal/domain/notice"
	"github.com/societyhub/backend/internal/domain/notification"
	"github.com/societyhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const noticeCollection = "notices"

// Notifier fans an event out after the triggering write has committed
type Notifier interface {
	NotifyAfterCommit(ctx context.Context, event notification.Event, rules ...notification.Rule) int
}

// SendInput describes a notice. UserID is required for maintenance notices.
type SendInput struct {
	Title   string
	Message string
	Type    string
	UserID  *uuid.UUID
}

// NoticeResponse is one user's copy of a notice
type NoticeResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// DispatchResponse is one entry of the notice registry
type DispatchResponse struct {
	ID        uuid.UUID `json:"id"`
	SentBy    uuid.UUID `json:"sent_by"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	SentTo    int       `json:"sent_to_count"`
	CreatedAt time.Time `json:"created_at"`
}

func toDispatchResponse(d *notice.Dispatch) DispatchResponse {
	return DispatchResponse{
		ID: d.ID, SentBy: d.SentBy, Title: d.Title, Message: d.Message,
		Type: string(d.Type), SentTo: d.SentToCount(), CreatedAt: d.CreatedAt,
	}
}

// Service handles notices
type Service struct {
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates a new notice Service
func NewService(notifier Notifier, logger *zap.Logger) *Service {
	return &Service{notifier: notifier, logger: logger}
}

// Send writes the notice to every recipient and announces it. Meeting,
// general and event notices go to all active owners and tenants;
// maintenance notices go to one user.
func (s *Service) Send(ctx context.Context, t scope.Tenant, actor scope.Actor, input SendInput) (*DispatchResponse, error) {
	typ, title, msg, err := parseInput(input)
	if err != nil {
		return nil, err
	}
	recipients, err := s.recipients(ctx, t, typ, input.UserID)
	if err != nil {
		return nil, err
	}

	d := &notice.Dispatch{
		ID:         uuid.New(),
		SentBy:     actor.UserID,
		Title:      title,
		Message:    msg,
		Type:       typ,
		Recipients: recipients,
		CreatedAt:  time.Now(),
	}
	err = t.Store.Execute(ctx, func(repos scope.Repositories) error {
		if err := repos.Notices().Send(ctx, d); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.NewEntry(audit.ActionCreate, noticeCollection, d.ID, actor.UserID,
			map[string]any{"type": string(typ), "sent_to": len(recipients)}))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Notice sent",
		zap.String("society_id", t.Key()),
		zap.String("type", string(typ)),
		zap.Int("recipients", len(recipients)))
	s.announce(ctx, t, actor, typ.NotificationTitle(), d)

	resp := toDispatchResponse(d)
	return &resp, nil
}

// Update edits a dispatched notice and re-sends it. The old copies are
// removed and the recipients are resolved again from the new type, so a
// notice can move between a single user and every resident.
func (s *Service) Update(ctx context.Context, t scope.Tenant, actor scope.Actor, id uuid.UUID, input SendInput) (*DispatchResponse, error) {
	typ, title, msg, err := parseInput(input)
	if err != nil {
		return nil, err
	}
	d, err := t.Store.Notices().FindDispatch(ctx, id)
	if err != nil {
		return nil, err
	}
	recipients, err := s.recipients(ctx, t, typ, input.UserID)
	if err != nil {
		return nil, err
	}

	d.Title, d.Message, d.Type, d.Recipients = title, msg, typ, recipients
	err = t.Store.Execute(ctx, func(repos scope.Repositories) error {
		if err := repos.Notices().Resend(ctx, d); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.NewEntry(audit.ActionUpdate, noticeCollection, d.ID, actor.UserID,
			map[string]any{"type": string(typ), "sent_to": len(recipients)}))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Notice updated",
		zap.String("society_id", t.Key()),
		zap.String("notice_id", d.ID.String()),
		zap.String("type", string(typ)),
		zap.Int("recipients", len(recipients)))
	s.announce(ctx, t, actor, typ.UpdatedTitle(), d)

	resp := toDispatchResponse(d)
	return &resp, nil
}

func parseInput(input SendInput) (notice.Type, string, string, error) {
	typ, err := notice.ParseType(input.Type)
	if err != nil {
		return "", "", "", err
	}
	title, msg := strings.TrimSpace(input.Title), strings.TrimSpace(input.Message)
	if title == "" || msg == "" {
		return "", "", "", shared.NewDomainError("INVALID_INPUT", "Title and message are required")
	}
	if typ.IsTargeted() && input.UserID == nil {
		return "", "", "", shared.NewDomainError("INVALID_INPUT", "Select a user for a maintenance notice")
	}
	return typ, title, msg, nil
}

// recipients resolves who receives a notice of typ
func (s *Service) recipients(ctx context.Context, t scope.Tenant, typ notice.Type, userID *uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if typ.IsTargeted() {
		user, err := t.Store.Users().FindByID(ctx, *userID)
		if err != nil {
			return nil, err
		}
		ids = []uuid.UUID{user.ID}
	} else {
		var err error
		if ids, err = t.Store.Directory().ResidentIDs(ctx); err != nil {
			return nil, err
		}
	}
	if len(ids) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "No users to send the notice to")
	}
	return ids, nil
}

func (s *Service) announce(ctx context.Context, t scope.Tenant, actor scope.Actor, title string, d *notice.Dispatch) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyAfterCommit(ctx, notification.Event{
		Society:  t.Key(),
		Actor:    actor.UserID,
		Category: notification.CategoryAnnouncement,
		Title:    title,
		Message:  d.Title,
	}, notification.Users("notice_recipients", d.Recipients...))
}

// ListForUser returns the caller's notices, newest first
func (s *Service) ListForUser(ctx context.Context, t scope.Tenant, actor scope.Actor) ([]NoticeResponse, error) {
	items, err := t.Store.Notices().ListForUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return toNoticeResponses(items), nil
}

// ListAll returns every copy of every notice, newest first. One dispatch
// to many residents shows up once per recipient.
func (s *Service) ListAll(ctx context.Context, t scope.Tenant) ([]NoticeResponse, error) {
	items, err := t.Store.Notices().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toNoticeResponses(items), nil
}

func toNoticeResponses(items []notice.Notice) []NoticeResponse {
	out := make([]NoticeResponse, len(items))
	for i, n := range items {
		out[i] = NoticeResponse{ID: n.ID, UserID: n.UserID, Title: n.Title, Message: n.Message, Type: string(n.Type), CreatedAt: n.CreatedAt}
	}
	return out
}

// Registry lists every dispatched notice, newest first
func (s *Service) Registry(ctx context.Context, t scope.Tenant) ([]DispatchResponse, error) {
	items, err := t.Store.Notices().Registry(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DispatchResponse, len(items))
	for i := range items {
		out[i] = toDispatchResponse(&items[i])
	}
	return out, nil
}

// Delete removes a dispatched notice from the registry and every inbox
func (s *Service) Delete(ctx context.Context, t scope.Tenant, actor scope.Actor, id uuid.UUID) error {
	return t.Store.Execute(ctx, func(repos scope.Repositories) error {
		if err := repos.Notices().Delete(ctx, id); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.NewEntry(audit.ActionDelete, noticeCollection, id, actor.UserID, nil))
	})
}
