// Package issue implements the issue lifecycle business logic: reporting,
// status transitions with notification fan-out, votes and watch lists.
package issue

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mmogoimpact/civicportal-backend/internal/adapter/events"
	"github.com/mmogoimpact/civicportal-backend/internal/config"
	"github.com/mmogoimpact/civicportal-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type issueRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Issue, error)
	List(ctx context.Context, f domain.IssueFilter) ([]*domain.Issue, int, error)
	CountOpenByAuthor(ctx context.Context, authorID uuid.UUID) (int, error)
	Create(ctx context.Context, iss *domain.Issue) (*domain.Issue, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.IssueStatus, actorID uuid.UUID, now time.Time) error
	AdjustVoteCount(ctx context.Context, id uuid.UUID, delta int, now time.Time) error
	AdjustWatcherCount(ctx context.Context, id uuid.UUID, delta int, now time.Time) error
}

type updateRepo interface {
	Create(ctx context.Context, u *domain.IssueUpdate) error
	ListByIssue(ctx context.Context, issueID uuid.UUID, limit, offset int) ([]*domain.IssueUpdate, error)
}

type watcherRepo interface {
	Add(ctx context.Context, issueID, userID uuid.UUID, now time.Time) error
	Remove(ctx context.Context, issueID, userID uuid.UUID) error
	ListUserIDs(ctx context.Context, issueID uuid.UUID) ([]uuid.UUID, error)
	IsWatching(ctx context.Context, issueID, userID uuid.UUID) (bool, error)
}

type voteRepo interface {
	Add(ctx context.Context, issueID, userID uuid.UUID, now time.Time) error
	Remove(ctx context.Context, issueID, userID uuid.UUID) error
	HasVoted(ctx context.Context, issueID, userID uuid.UUID) (bool, error)
}

type notificationRepo interface {
	CreateBatch(ctx context.Context, notifications []*domain.Notification) error
}

type eventPublisher interface {
	PublishStatusChanged(ctx context.Context, event events.StatusChangedEvent) error
	PublishIssueCreated(ctx context.Context, event events.IssueCreatedEvent) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the issue lifecycle business logic.
type Service struct {
	log           *slog.Logger
	issues        issueRepo
	updates       updateRepo
	watchers      watcherRepo
	votes         voteRepo
	notifications notificationRepo
	events        eventPublisher
	tx            txManager
	cfg           config.PortalConfig
}

// NewService creates a new Issue service.
func NewService(
	logger *slog.Logger,
	issues issueRepo,
	updates updateRepo,
	watchers watcherRepo,
	votes voteRepo,
	notifications notificationRepo,
	eventPub eventPublisher,
	tx txManager,
	cfg config.PortalConfig,
) *Service {
	return &Service{
		log:           logger.With("service", "issue"),
		issues:        issues,
		updates:       updates,
		watchers:      watchers,
		votes:         votes,
		notifications: notifications,
		events:        eventPub,
		tx:            tx,
		cfg:           cfg,
	}
}

// clampLimit ensures a limit is within (0, max], defaulting from 0 to defaultVal.
func clampLimit(limit, max, defaultVal int) int {
	if limit <= 0 {
		return defaultVal
	}
	if limit > max {
		return max
	}
	return limit
}
