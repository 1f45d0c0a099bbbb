package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/dtroode/miniapp-server/internal/logger"
	"github.com/dtroode/miniapp-server/internal/model"
)

// natsConn is the subset of *nats.Conn used by Publisher.
type natsConn interface {
	Publish(subj string, data []byte) error
	FlushWithContext(ctx context.Context) error
}

var (
	_ model.EventPublisher = (*Publisher)(nil)
	_ model.EventPublisher = Noop{}
)

// Publisher sends user lifecycle events to NATS subjects
// "<prefix>.user.created" and so on.
type Publisher struct {
	conn   natsConn
	prefix string
	logger *logger.Logger
}

// Connect dials natsURL and returns a Publisher that owns the connection.
func Connect(natsURL, prefix string, logger *logger.Logger) (*Publisher, *nats.Conn, error) {
	nc, err := nats.Connect(natsURL, nats.Name("miniapp-server"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return NewPublisher(nc, prefix, logger), nc, nil
}

// NewPublisher creates a Publisher over an established connection.
func NewPublisher(conn natsConn, prefix string, logger *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		prefix: prefix,
		logger: logger,
	}
}

// Subject returns the subject an event of type t is published on.
func (p *Publisher) Subject(t model.UserEventType) string {
	if p.prefix == "" {
		return string(t)
	}
	return p.prefix + "." + string(t)
}

// Publish encodes event as JSON and publishes it.
func (p *Publisher) Publish(ctx context.Context, event model.UserEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := p.Subject(event.Type)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.DebugContext(ctx, "Events: published", "subject", subject, "user_id", event.UserID)
	return nil
}

// Flush waits until buffered events reach the server.
func (p *Publisher) Flush(ctx context.Context) error {
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush events: %w", err)
	}
	return nil
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, model.UserEvent) error { return nil }
