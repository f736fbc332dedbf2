// Package messaging publishes delivered notifications to NATS so realtime
// clients can pick them up without polling.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/societyhub/backend/internal/domain/notification"
	"github.com/societyhub/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// conn is the subset of *nats.Conn used by the publisher
type conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// Message is the payload published for one delivered notification
type Message struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Type          string     `json:"type"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	ComplaintID   *uuid.UUID `json:"complaint_id,omitempty"`
	MaintenanceID *uuid.UUID `json:"maintenance_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NATSPublisher publishes notifications on "<prefix>.<society>.notifications"
type NATSPublisher struct {
	conn   conn
	prefix string
	logger *zap.Logger
}

// NewNATSPublisher connects to the configured server
func NewNATSPublisher(cfg config.NATSConfig, logger *zap.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	nc, err := nats.Connect(cfg.URL,
		nats.Name("societyhub"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return newPublisher(nc, cfg.SubjectPrefix, logger), nil
}

func newPublisher(c conn, prefix string, logger *zap.Logger) *NATSPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NATSPublisher{conn: c, prefix: prefix, logger: logger}
}

// Subject returns the subject notifications of a society are published on
func (p *NATSPublisher) Subject(society string) string {
	return p.prefix + "." + society + ".notifications"
}

// Publish sends one message per record. It stops at the first failure.
func (p *NATSPublisher) Publish(ctx context.Context, society string, records []notification.Notification) error {
	subject := p.Subject(society)
	for i := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := json.Marshal(toMessage(&records[i]))
		if err != nil {
			return fmt.Errorf("marshal notification: %w", err)
		}
		if err := p.conn.Publish(subject, data); err != nil {
			return fmt.Errorf("publish %s: %w", subject, err)
		}
	}
	return nil
}

// Close drains pending messages and closes the connection
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

func toMessage(n *notification.Notification) Message {
	return Message{
		ID:            n.ID,
		UserID:        n.UserID,
		Type:          string(n.Category),
		Title:         n.Title,
		Message:       n.Message,
		ComplaintID:   n.Ref.ComplaintID,
		MaintenanceID: n.Ref.MaintenanceID,
		CreatedAt:     n.CreatedAt,
	}
}
