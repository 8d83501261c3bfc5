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

// CreateIssue reports a new issue on behalf of the authenticated user.
// Drafts stay private to the author until published via a status change.
func (s *Service) CreateIssue(ctx context.Context, input CreateIssueInput) (*domain.Issue, error) {
	authorID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	// Check open issue limit.
	count, err := s.issues.CountOpenByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("count open issues: %w", err)
	}
	if count >= s.cfg.MaxOpenIssuesPerUser {
		return nil, domain.NewValidationError("issues", "open issue limit reached")
	}

	status := domain.IssueStatusOpen
	if input.Draft {
		status = domain.IssueStatusDraft
	}

	now := time.Now().UTC()
	created, err := s.issues.Create(ctx, &domain.Issue{
		ID:           uuid.New(),
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		Status:       status,
		AuthorID:     authorID,
		DepartmentID: input.DepartmentID,
		CreatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}

	// Best-effort: a lost event only delays dashboard refresh.
	if status == domain.IssueStatusOpen {
		pubErr := s.events.PublishIssueCreated(ctx, events.IssueCreatedEvent{
			IssueID:    created.ID,
			Title:      created.Title,
			Category:   created.Category,
			AuthorID:   authorID,
			OccurredAt: now,
		})
		if pubErr != nil {
			s.log.WarnContext(ctx, "issue created event not published",
				"issue_id", created.ID, "error", pubErr)
		}
	}

	return created, nil
}
