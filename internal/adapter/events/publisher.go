// Package events publishes portal domain events to NATS so dashboard
// clients and other consumers can refresh without polling. Publishing is
// best-effort: a dropped event never fails the operation that produced it.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/mmogoimpact/civicportal-backend/internal/config"
	"github.com/mmogoimpact/civicportal-backend/internal/domain"
)

// StatusChangedEvent is emitted after an issue status transition commits.
type StatusChangedEvent struct {
	IssueID    uuid.UUID          `json:"issue_id"`
	Title      string             `json:"title"`
	OldStatus  domain.IssueStatus `json:"old_status"`
	NewStatus  domain.IssueStatus `json:"new_status"`
	ActorID    uuid.UUID          `json:"actor_id"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// IssueCreatedEvent is emitted after a new issue is persisted.
type IssueCreatedEvent struct {
	IssueID    uuid.UUID            `json:"issue_id"`
	Title      string               `json:"title"`
	Category   domain.IssueCategory `json:"category"`
	AuthorID   uuid.UUID            `json:"author_id"`
	OccurredAt time.Time            `json:"occurred_at"`
}

// NATSPublisher publishes events over a core NATS connection.
type NATSPublisher struct {
	conn          *nats.Conn
	subjectPrefix string
	logger        *slog.Logger
}

// NewNATSPublisher connects to the configured NATS server, retrying with
// exponential backoff until the connect timeout elapses.
func NewNATSPublisher(ctx context.Context, cfg config.EventsConfig, logger *slog.Logger) (*NATSPublisher, error) {
	var conn *nats.Conn

	// BackOff implementations are stateful; build a fresh one per connect.
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = cfg.ConnectTimeout

	err := backoff.Retry(func() error {
		var err error
		conn, err = nats.Connect(cfg.NATSURL,
			nats.Name("civicportal-backend"),
			nats.Timeout(5*time.Second),
			nats.RetryOnFailedConnect(false),
		)
		return err
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", cfg.NATSURL, err)
	}

	return &NATSPublisher{
		conn:          conn,
		subjectPrefix: cfg.SubjectPrefix,
		logger:        logger.With("adapter", "events"),
	}, nil
}

// PublishStatusChanged publishes a status change event on
// <prefix>.issue.status_changed.
func (p *NATSPublisher) PublishStatusChanged(ctx context.Context, event StatusChangedEvent) error {
	return p.publish(ctx, p.subjectPrefix+".issue.status_changed", event)
}

// PublishIssueCreated publishes an issue creation event on
// <prefix>.issue.created.
func (p *NATSPublisher) PublishIssueCreated(ctx context.Context, event IssueCreatedEvent) error {
	return p.publish(ctx, p.subjectPrefix+".issue.created", event)
}

func (p *NATSPublisher) publish(ctx context.Context, subject string, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	p.logger.DebugContext(ctx, "event published", "subject", subject)
	return nil
}

// Close drains the connection so queued events are flushed before shutdown.
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn("NATS drain failed", "error", err)
	}
}

// NoopPublisher discards all events. Used when no NATS URL is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishStatusChanged(context.Context, StatusChangedEvent) error { return nil }
func (NoopPublisher) PublishIssueCreated(context.Context, IssueCreatedEvent) error   { return nil }
func (NoopPublisher) Close()                                                         {}
