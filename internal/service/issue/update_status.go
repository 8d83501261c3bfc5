package issue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmogoimpact/civicportal-backend/internal/adapter/events"
	"github.com/mmogoimpact/civicportal-backend/internal/domain"
	"github.com/mmogoimpact/civicportal-backend/pkg/ctxutil"
)

// UpdateIssueStatus performs a validated status transition.
//
// The transition itself is the only critical step. Once it commits, the
// follow-up steps (update feed entry, notification fan-out, event publish)
// are best-effort: a failure there is logged and reflected in the result,
// never rolled back and never surfaced as an operation error.
func (s *Service) UpdateIssueStatus(ctx context.Context, input UpdateStatusInput) (*StatusChangeResult, error) {
	actorID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	iss, err := s.issues.GetByID(ctx, input.IssueID)
	if err != nil {
		return nil, fmt.Errorf("get issue: %w", err)
	}

	role := domain.UserRole(ctxutil.UserRoleFromCtx(ctx))
	if !canChangeStatus(role, actorID, iss, input.NewStatus) {
		return nil, domain.ErrForbidden
	}

	oldStatus := iss.Status
	if err := oldStatus.ValidateTransition(input.NewStatus); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	// Critical step: compare-and-set against the status we just read.
	// A concurrent transition surfaces as domain.ErrConflict.
	if err := s.issues.UpdateStatus(ctx, iss.ID, oldStatus, input.NewStatus, actorID, now); err != nil {
		return nil, fmt.Errorf("apply status: %w", err)
	}

	iss.Status = input.NewStatus
	iss.UpdatedAt = now
	if input.NewStatus == domain.IssueStatusResolved {
		iss.ResolvedAt = &now
		iss.ResolvedBy = &actorID
	}

	result := &StatusChangeResult{
		Issue:     iss,
		OldStatus: oldStatus,
		NewStatus: input.NewStatus,
	}

	result.AuditRecorded = s.recordStatusUpdate(ctx, iss, actorID, now)
	result.NotifiedCount = s.fanOutStatusChange(ctx, iss, actorID, now)

	pubErr := s.events.PublishStatusChanged(ctx, events.StatusChangedEvent{
		IssueID:    iss.ID,
		Title:      iss.Title,
		OldStatus:  oldStatus,
		NewStatus:  input.NewStatus,
		ActorID:    actorID,
		OccurredAt: now,
	})
	if pubErr != nil {
		s.log.WarnContext(ctx, "status change event not published",
			"issue_id", iss.ID, "error", pubErr)
	}

	return result, nil
}

// canChangeStatus applies the lifecycle permission rules: stakeholders manage
// any issue; an author may only publish their own draft.
func canChangeStatus(role domain.UserRole, actorID uuid.UUID, iss *domain.Issue, next domain.IssueStatus) bool {
	if role.IsStakeholder() {
		return true
	}
	return iss.AuthorID == actorID &&
		iss.Status == domain.IssueStatusDraft &&
		next == domain.IssueStatusOpen
}

// recordStatusUpdate appends the feed entry for a committed transition.
// Reports whether the entry was written.
func (s *Service) recordStatusUpdate(ctx context.Context, iss *domain.Issue, actorID uuid.UUID, now time.Time) bool {
	err := s.updates.Create(ctx, &domain.IssueUpdate{
		ID:        uuid.New(),
		IssueID:   iss.ID,
		AuthorID:  actorID,
		Content:   domain.StatusUpdateContent(iss.Status),
		Type:      domain.UpdateTypeStatus,
		CreatedAt: now,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "status update feed entry not recorded",
			"issue_id", iss.ID, "error", err)
		return false
	}
	return true
}

// fanOutStatusChange notifies the author and every watcher, excluding the
// actor. Returns the number of notifications written (0 on failure).
func (s *Service) fanOutStatusChange(ctx context.Context, iss *domain.Issue, actorID uuid.UUID, now time.Time) int {
	watcherIDs, err := s.watchers.ListUserIDs(ctx, iss.ID)
	if err != nil {
		s.log.ErrorContext(ctx, "status change fan-out skipped: cannot list watchers",
			"issue_id", iss.ID, "error", err)
		return 0
	}

	recipients := dedupeRecipients(iss.AuthorID, watcherIDs, actorID)
	if len(recipients) > s.cfg.MaxWatchersFanout {
		s.log.WarnContext(ctx, "status change fan-out truncated",
			"issue_id", iss.ID, "recipients", len(recipients), "cap", s.cfg.MaxWatchersFanout)
		recipients = recipients[:s.cfg.MaxWatchersFanout]
	}
	if len(recipients) == 0 {
		return 0
	}

	notifications := make([]*domain.Notification, 0, len(recipients))
	for _, userID := range recipients {
		notifications = append(notifications, &domain.Notification{
			ID:        uuid.New(),
			UserID:    userID,
			Title:     domain.StatusUpdateContent(iss.Status),
			Message:   domain.StatusNotificationMessage(iss.Title, iss.Status),
			Type:      domain.NotificationTypeStatusChange,
			IssueID:   &iss.ID,
			CreatedAt: now,
		})
	}

	if err := s.notifications.CreateBatch(ctx, notifications); err != nil {
		s.log.ErrorContext(ctx, "status change fan-out failed",
			"issue_id", iss.ID, "recipients", len(notifications), "error", err)
		return 0
	}

	return len(notifications)
}

// dedupeRecipients builds author + watchers minus the actor, each user at
// most once, author first.
func dedupeRecipients(authorID uuid.UUID, watcherIDs []uuid.UUID, actorID uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(watcherIDs)+1)
	recipients := make([]uuid.UUID, 0, len(watcherIDs)+1)

	for _, id := range append([]uuid.UUID{authorID}, watcherIDs...) {
		if id == actorID || seen[id] {
			continue
		}
		seen[id] = true
		recipients = append(recipients, id)
	}

	return recipients
}
