package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/patsapolpro/web-starter-kit-ai/internal/metrics"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const (
	RequirementCreated = "requirement.created"
	RequirementUpdated = "requirement.updated"
	RequirementToggled = "requirement.toggled"
	RequirementDeleted = "requirement.deleted"

	ProjectCreated = "project.created"
	ProjectUpdated = "project.updated"
	ProjectDeleted = "project.deleted"

	PreferencesUpdated = "preferences.updated"
)

// Event is the JSON document published for every change.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// Publisher announces domain changes. Publishing is best effort: failures are
// logged and never returned to the caller.
type Publisher interface {
	Publish(ctx context.Context, eventType string, data any)
}

type Producer struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
	metrics *metrics.EventMetrics
}

// NewProducer connects to url. Events go to "<subject>.<event type>".
// m may be nil.
func NewProducer(url string, subject string, logger *slog.Logger, m *metrics.EventMetrics) (*Producer, error) {
	nc, err := nats.Connect(url,
		nats.Name("requirement-tracker"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("NATS producer initialized", "url", url, "subject", subject)

	return &Producer{
		conn:    nc,
		subject: subject,
		logger:  logger,
		metrics: m,
	}, nil
}

func (p *Producer) Publish(ctx context.Context, eventType string, data any) {
	event := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal event", "type", eventType, "error", err)
		return
	}

	subject := p.Subject(eventType)
	start := time.Now()
	err = p.conn.Publish(subject, payload)
	p.metrics.RecordPublish(ctx, eventType, time.Since(start), err)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event", "subject", subject, "error", err)
		return
	}

	p.logger.DebugContext(ctx, "event published", "subject", subject, "id", event.ID)
}

// Subject returns the subject eventType is published on.
func (p *Producer) Subject(eventType string) string {
	return p.subject + "." + eventType
}

func (p *Producer) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}

// NopPublisher discards events. Used when no NATS URL is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) {}
