package issue

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmogoimpact/civicportal-backend/internal/domain"
	"github.com/mmogoimpact/civicportal-backend/pkg/ctxutil"
)

// GetIssue returns one issue. Drafts are visible only to their author and
// to stakeholders; everyone else gets domain.ErrNotFound.
func (s *Service) GetIssue(ctx context.Context, issueID uuid.UUID) (*domain.Issue, error) {
	iss, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		return nil, fmt.Errorf("get issue: %w", err)
	}

	if iss.Status == domain.IssueStatusDraft && !canSeeDraft(ctx, iss) {
		return nil, fmt.Errorf("issue %s: %w", issueID, domain.ErrNotFound)
	}

	return iss, nil
}

func canSeeDraft(ctx context.Context, iss *domain.Issue) bool {
	role := domain.UserRole(ctxutil.UserRoleFromCtx(ctx))
	if role.IsStakeholder() {
		return true
	}
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	return ok && userID == iss.AuthorID
}

// ListIssues returns a filtered page of issues plus the total match count.
// Draft issues never appear in listings unless the caller filters their own.
func (s *Service) ListIssues(ctx context.Context, filter domain.IssueFilter) (*ListResult, error) {
	filter.Limit = clampLimit(filter.Limit, s.cfg.ListMaxLimit, s.cfg.ListDefaultLimit)

	if filter.Status != nil && *filter.Status == domain.IssueStatusDraft {
		userID, ok := ctxutil.UserIDFromCtx(ctx)
		role := domain.UserRole(ctxutil.UserRoleFromCtx(ctx))
		if !role.IsStakeholder() {
			if !ok {
				return nil, domain.ErrUnauthorized
			}
			filter.AuthorID = &userID
		}
	}

	issues, total, err := s.issues.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}

	return &ListResult{Issues: issues, TotalCount: total}, nil
}

// ListUpdates returns the update feed for an issue, newest first.
func (s *Service) ListUpdates(ctx context.Context, input ListUpdatesInput) ([]*domain.IssueUpdate, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	// Draft visibility is enforced by the issue lookup.
	if _, err := s.GetIssue(ctx, input.IssueID); err != nil {
		return nil, err
	}

	limit := clampLimit(input.Limit, s.cfg.ListMaxLimit, s.cfg.ListDefaultLimit)
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	updates, err := s.updates.ListByIssue(ctx, input.IssueID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list updates: %w", err)
	}

	return updates, nil
}
